package domain

import "fmt"

// TestCase is a named grading unit. Input, when set, is appended to the
// submission before it runs.
type TestCase struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name,omitempty" yaml:"name"`
	Input          string `json:"input,omitempty" yaml:"input"`
	ExpectedOutput string `json:"expectedOutput" yaml:"expectedOutput"`
}

// Label returns the display name, falling back to the 1-based position.
func (t TestCase) Label(index int) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Test %d", index+1)
}
