package models

import "time"

// ── Attempt Ledger Types ──────────────────────────────

// QuestionAttempt is the durable record of one (user, question)
// interaction. SessionID is nil for practice attempts outside a quiz
// session; at most one logical attempt exists per key — re-submission
// updates in place.
type QuestionAttempt struct {
	ID               int64       `json:"id"`
	UserID           int64       `json:"user_id"`
	Ref              QuestionRef `json:"ref"`
	SessionID        *string     `json:"session_id,omitempty"`
	IsCorrect        bool        `json:"is_correct"`
	TimeTakenSeconds float64     `json:"time_taken_seconds"`
	AttemptedAt      time.Time   `json:"attempted_at"`
}

// ── Request Types ─────────────────────────────────────

type PracticeQuestionsRequest struct {
	ContentType      *string     `json:"content_type,omitempty"`
	ChapterID        *int64      `json:"chapter_id,omitempty"`
	Topic            *string     `json:"topic,omitempty"`
	Difficulty       *Difficulty `json:"difficulty,omitempty"`
	Limit            int         `json:"limit"`
	ExcludeAttempted bool        `json:"exclude_attempted"`
}

type TrackAttemptRequest struct {
	Question         QuestionRef `json:"question"`
	SelectedAnswer   string      `json:"selected_answer"`
	TimeTakenSeconds float64     `json:"time_taken_seconds"`
}

// ── Response Types ────────────────────────────────────

type PracticeQuestionsResponse struct {
	Questions []ServedQuestion `json:"questions"`
	Total     int              `json:"total"`
}

type TrackAttemptResponse struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

type AdaptiveNextResponse struct {
	SuggestedDifficulty Difficulty       `json:"suggested_difficulty"`
	RecentAccuracy      float64          `json:"recent_accuracy"`
	AttemptsConsidered  int              `json:"attempts_considered"`
	Questions           []ServedQuestion `json:"questions"`
}

type StudentStatsResponse struct {
	TotalAttempts  int      `json:"total_attempts"`
	CorrectCount   int      `json:"correct_count"`
	Accuracy       float64  `json:"accuracy"`
	AvgTimeSeconds float64  `json:"avg_time_seconds"`
	TopicsCovered  []string `json:"topics_covered"`
}
