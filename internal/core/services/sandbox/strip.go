package sandbox

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

// typeRewrite is one lexical pass of StripTypes.
type typeRewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// typeRewrites approximate a TypeScript-to-JavaScript transform with plain
// pattern replacement. Nested generics and multi-line unions are not handled.
var typeRewrites = []typeRewrite{
	// trailing annotations: `x: number =`, `(a: string,`, `): void {`
	{
		regexp.MustCompile(`:\s*(string|number|boolean|any|void|never|object|unknown|bigint|symbol|null|undefined|Date|Array<[^>]+>|Map<[^>]+>|Set<[^>]+>|Record<[^>]+>|\{[^}]+\}|[A-Z][a-zA-Z0-9]*)\s*([,)={;\[\n\r])`),
		"${2}",
	},
	{regexp.MustCompile(`interface\s+\w+\s*\{[^}]*\}`), ""},
	{regexp.MustCompile(`type\s+\w+\s*=\s*[^;]+;`), ""},
	// generic parameter lists
	{regexp.MustCompile(`<[^>]+>`), ""},
	{regexp.MustCompile(`\s+as\s+\w+`), ""},
	{regexp.MustCompile(`(private|public|protected|readonly)\s+`), ""},
	{regexp.MustCompile(`\n\s*\n\s*\n`), "\n\n"},
}

// StripTypes turns TypeScript source into JavaScript by removing type
// syntax, then checks that the result parses as a function body.
func StripTypes(code string) (js string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	js = code
	for _, rw := range typeRewrites {
		js = rw.pattern.ReplaceAllString(js, rw.replacement)
	}
	js = strings.TrimSpace(js)

	if _, err := goja.Compile("typescript", "(function() {\n"+js+"\n})", false); err != nil {
		return "", err
	}
	return js, nil
}
