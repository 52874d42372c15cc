package domain

// CodeTemplate is the starter code of a lesson together with its test cases.
type CodeTemplate struct {
	ID             string     `json:"id" yaml:"id"`
	LessonID       string     `json:"lessonId,omitempty" yaml:"lessonId"`
	Title          string     `json:"title,omitempty" yaml:"title"`
	Language       Language   `json:"language" yaml:"language"`
	InitialCode    string     `json:"initialCode" yaml:"initialCode"`
	ExpectedOutput string     `json:"expectedOutput,omitempty" yaml:"expectedOutput"`
	TestCases      []TestCase `json:"testCases,omitempty" yaml:"testCases"`
}
