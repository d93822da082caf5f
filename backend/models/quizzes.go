package models

import "time"

type Quiz struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Historical field name from the original admin panel schema.
	ModuleID     string         `json:"module_id"`
	Questions    []QuizQuestion `json:"questions"`
	TimeLimit    int            `json:"timeLimit"` // minutes, 0 = unlimited
	PassingScore int            `json:"passingScore"`
	IsPublished  bool           `json:"isPublished"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// QuizQuestion is embedded in its quiz, not a separate store.
type QuizQuestion struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     string       `json:"type"` // single, multiple, boolean
	Options  []QuizOption `json:"options"`
	Points   int          `json:"points"`
	Order    int          `json:"order"`
}

type QuizOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}
