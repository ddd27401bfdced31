package model

import (
	"time"
)

// Analysis represents one analyzed tender document
type Analysis struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Score       int       `json:"score"`
	Status      string    `json:"status"` // completed, failed
	Analysis    string    `json:"analysis,omitempty"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	ErrorMsg    string    `json:"error_msg,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnalysisStatus constants
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
