package domain

// Language identifies which execution engine handles a piece of code.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguagePython     Language = "python"
)

// Languages lists every supported language in display order.
func Languages() []Language {
	return []Language{LanguageJavaScript, LanguageTypeScript, LanguagePython}
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageJavaScript, LanguageTypeScript, LanguagePython:
		return true
	default:
		return false
	}
}

// CommentPrefix returns the single-line comment marker of the language.
func (l Language) CommentPrefix() string {
	if l == LanguagePython {
		return "#"
	}
	return "//"
}

func (l Language) String() string {
	return string(l)
}
