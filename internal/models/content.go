package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// MCQContentType returns the content-type tag for MCQ content at the
// given difficulty, e.g. "mcq_easy".
func MCQContentType(d Difficulty) string {
	return "mcq_" + string(d)
}

// ── Core Structs ───────────────────────────────────────

type Chapter struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Topics    []Topic   `json:"topics,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Topic struct {
	ID        int64     `json:"id"`
	ChapterID int64     `json:"chapter_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentItem is one stored unit of generated content: a chapter/topic
// scoped batch of sub-questions sharing a single content id.
type ContentItem struct {
	ID          string     `json:"id"`
	ChapterID   *int64     `json:"chapter_id,omitempty"`
	Topic       string     `json:"topic"`
	ContentType string     `json:"content_type"`
	Questions   []Question `json:"questions"`
	ModelUsed   string     `json:"model_used,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Question is a single sub-question inside a ContentItem's array.
// Read-only to quiz operations.
type Question struct {
	QuestionText  string     `json:"question_text"`
	Options       []Option   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Marks         int        `json:"marks"`
}

type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuestionRef addresses one sub-question structurally: the owning
// content item plus the position inside its questions array.
type QuestionRef struct {
	ContentID string `json:"content_id"`
	SubIndex  int    `json:"sub_index"`
}

// ── Serving Types (strip answers before sending) ───────

type ServedQuestion struct {
	Ref          QuestionRef `json:"ref"`
	QuestionText string      `json:"question_text"`
	Options      []Option    `json:"options"`
	Difficulty   Difficulty  `json:"difficulty"`
	Marks        int         `json:"marks"`
}

// Serve strips the correct answer and explanation from a question.
func (q Question) Serve(ref QuestionRef) ServedQuestion {
	return ServedQuestion{
		Ref:          ref,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		Difficulty:   q.Difficulty,
		Marks:        q.Marks,
	}
}

// ── Request/Response Types ─────────────────────────────

type ChapterListResponse struct {
	Chapters []Chapter `json:"chapters"`
	Total    int       `json:"total"`
}

type TopicListResponse struct {
	Topics []Topic `json:"topics"`
	Total  int     `json:"total"`
}

type GenerateContentRequest struct {
	ChapterID  *int64     `json:"chapter_id,omitempty"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

type GenerateContentResponse struct {
	ContentID     string `json:"content_id"`
	ContentType   string `json:"content_type"`
	QuestionCount int    `json:"question_count"`
	ModelUsed     string `json:"model_used"`
	Message       string `json:"message"`
}
