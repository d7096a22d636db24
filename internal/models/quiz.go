package models

import "time"

type QuizType string

const (
	QuizTypeMCQ      QuizType = "mcq"
	QuizTypeAdaptive QuizType = "adaptive"
	QuizTypeTimed    QuizType = "timed"
	QuizTypeMockExam QuizType = "mock_exam"
)

var ValidQuizTypes = map[QuizType]bool{
	QuizTypeMCQ:      true,
	QuizTypeAdaptive: true,
	QuizTypeTimed:    true,
	QuizTypeMockExam: true,
}

type QuizStatus string

const (
	QuizInProgress QuizStatus = "in_progress"
	QuizCompleted  QuizStatus = "completed"
)

// ── Core Structs ───────────────────────────────────────

// QuizSession is one quiz attempt from start to submit. QuestionRefs is
// fixed at creation (insertion order = presentation order); Answers is
// append-ordered with in-place overwrite when a question is re-answered.
type QuizSession struct {
	ID                string         `json:"id"`
	UserID            int64          `json:"user_id"`
	QuizType          QuizType       `json:"quiz_type"`
	QuestionRefs      []QuestionRef  `json:"question_refs"`
	CurrentIndex      int            `json:"current_index"`
	Answers           []AnswerRecord `json:"answers"`
	Status            QuizStatus     `json:"status"`
	CurrentDifficulty Difficulty     `json:"current_difficulty,omitempty"`
	TimeLimitMinutes  int            `json:"time_limit_minutes"`
	StartedAt         time.Time      `json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`

	// Set at submit, zero before.
	CorrectAnswers   int     `json:"correct_answers"`
	Accuracy         float64 `json:"accuracy"`
	TimeSpentMinutes float64 `json:"time_spent_minutes"`
	CoinsEarned      int     `json:"coins_earned"`
}

// TotalQuestions is the fixed session length.
func (s *QuizSession) TotalQuestions() int {
	return len(s.QuestionRefs)
}

// FindAnswer returns the index of the answer for ref, or -1.
func (s *QuizSession) FindAnswer(ref QuestionRef) int {
	for i, a := range s.Answers {
		if a.Ref == ref {
			return i
		}
	}
	return -1
}

// AnswerRecord is one answered question inside a session. IsCorrect is
// derived server-side, never trusted from the client.
type AnswerRecord struct {
	Ref              QuestionRef `json:"ref"`
	SelectedAnswer   string      `json:"selected_answer"`
	IsCorrect        bool        `json:"is_correct"`
	TimeSpentSeconds float64     `json:"time_spent_seconds"`
	AnsweredAt       time.Time   `json:"answered_at"`
}

// ── Request Types ─────────────────────────────────────

type QuizStartRequest struct {
	QuizType         QuizType    `json:"quiz_type"`
	Topic            *string     `json:"topic,omitempty"`
	ChapterID        *int64      `json:"chapter_id,omitempty"`
	Difficulty       *Difficulty `json:"difficulty,omitempty"`
	QuestionCount    int         `json:"question_count"`
	TimePerQuestion  *int        `json:"time_per_question,omitempty"` // seconds
	ExcludeAttempted bool        `json:"exclude_attempted,omitempty"`
}

type QuizAnswerRequest struct {
	Question         QuestionRef `json:"question"`
	SelectedAnswer   string      `json:"selected_answer"`
	TimeSpentSeconds float64     `json:"time_spent_seconds"`
	ShowExplanation  bool        `json:"show_explanation"`
}

// ── Response Types ────────────────────────────────────

type QuizStartResponse struct {
	SessionID        string         `json:"session_id"`
	Question         ServedQuestion `json:"question"`
	QuestionNumber   int            `json:"question_number"`
	TotalQuestions   int            `json:"total_questions"`
	TimeLimitMinutes int            `json:"time_limit_minutes"`
	CanSkip          bool           `json:"can_skip"`
	CanGoBack        bool           `json:"can_go_back"`
}

type QuizNextResponse struct {
	Completed         bool            `json:"completed"`
	Question          *ServedQuestion `json:"question,omitempty"`
	QuestionNumber    int             `json:"question_number,omitempty"`
	TotalQuestions    int             `json:"total_questions"`
	CurrentDifficulty Difficulty      `json:"current_difficulty,omitempty"`
	Message           string          `json:"message,omitempty"`
}

type QuizAnswerResponse struct {
	Correct       bool   `json:"correct"`
	HasNext       bool   `json:"has_next"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

type QuizResultResponse struct {
	SessionID        string         `json:"session_id"`
	QuizType         QuizType       `json:"quiz_type"`
	TotalQuestions   int            `json:"total_questions"`
	CorrectAnswers   int            `json:"correct_answers"`
	Accuracy         float64        `json:"accuracy"`
	TimeSpentMinutes float64        `json:"time_spent_minutes"`
	CoinsEarned      int            `json:"coins_earned"`
	PerformanceLevel string         `json:"performance_level"`
	Analysis         ResultAnalysis `json:"analysis"`
}

type ResultAnalysis struct {
	DifficultyBreakdown    DifficultyBreakdown `json:"difficulty_breakdown"`
	AverageTimePerQuestion float64             `json:"average_time_per_question"`
	Strengths              []string            `json:"strengths"`
	AreasToImprove         []string            `json:"areas_to_improve"`
}

type DifficultyBreakdown struct {
	Easy   TierScore `json:"easy"`
	Medium TierScore `json:"medium"`
	Hard   TierScore `json:"hard"`
}

type TierScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type QuizReviewResponse struct {
	SessionID string             `json:"session_id"`
	Result    QuizResultResponse `json:"result"`
	Questions []QuizReviewItem   `json:"questions"`
}

type QuizReviewItem struct {
	Ref              QuestionRef `json:"ref"`
	QuestionText     string      `json:"question_text"`
	Options          []Option    `json:"options"`
	CorrectAnswer    string      `json:"correct_answer"`
	Explanation      string      `json:"explanation"`
	SelectedAnswer   string      `json:"selected_answer"`
	Correct          bool        `json:"correct"`
	TimeSpentSeconds float64     `json:"time_spent_seconds"`
}

type QuizHistoryEntry struct {
	SessionID        string     `json:"session_id"`
	QuizType         QuizType   `json:"quiz_type"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	Accuracy         float64    `json:"accuracy"`
	CoinsEarned      int        `json:"coins_earned"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type QuizHistoryResponse struct {
	Sessions []QuizHistoryEntry `json:"sessions"`
	Total    int                `json:"total"`
}

type QuizStatsResponse struct {
	TotalQuizzes     int                `json:"total_quizzes"`
	TotalQuestions   int                `json:"total_questions"`
	TotalCorrect     int                `json:"total_correct"`
	AverageAccuracy  float64            `json:"average_accuracy"`
	BestAccuracy     float64            `json:"best_accuracy"`
	TotalCoinsEarned int                `json:"total_coins_earned"`
	Recent           []QuizHistoryEntry `json:"recent"`
	AccuracyTrend    []float64          `json:"accuracy_trend"`
}
