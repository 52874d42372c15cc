package domain

import "time"

// SavedCode is a snippet a user stored for later.
type SavedCode struct {
	ID       string    `json:"id"`
	LessonID string    `json:"lessonId,omitempty"`
	Filename string    `json:"filename"`
	Language Language  `json:"language"`
	Content  string    `json:"content"`
	SavedAt  time.Time `json:"savedAt"`
}
