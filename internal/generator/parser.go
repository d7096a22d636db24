package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/studymitra/backend/internal/models"
)

type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	QuestionText  string            `json:"question_text"`
	Options       []GeneratedOption `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Marks         int               `json:"marks"`
}

type GeneratedOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseResponse(responseBody string) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(responseBody)

	var batch GeneratedBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateBatch(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var expectedOptionKeys = []string{"A", "B", "C", "D"}

func validateBatch(batch *GeneratedBatch) error {
	var errs []string

	if len(batch.Questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in batch"}}
	}

	correctAnswerCounts := make(map[string]int)

	for i, q := range batch.Questions {
		qNum := i + 1

		if q.QuestionText == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question_text", qNum))
		}
		if q.Explanation == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty explanation", qNum))
		}

		if len(q.Options) != len(expectedOptionKeys) {
			errs = append(errs, fmt.Sprintf("question %d: expected %d options, got %d", qNum, len(expectedOptionKeys), len(q.Options)))
			continue
		}

		validKeys := make(map[string]bool)
		for j, opt := range q.Options {
			if opt.Key != expectedOptionKeys[j] {
				errs = append(errs, fmt.Sprintf("question %d: option %d has key %q, expected %q", qNum, j+1, opt.Key, expectedOptionKeys[j]))
			}
			if opt.Text == "" {
				errs = append(errs, fmt.Sprintf("question %d: option %s has empty text", qNum, opt.Key))
			}
			validKeys[opt.Key] = true
		}

		if !validKeys[q.CorrectAnswer] {
			errs = append(errs, fmt.Sprintf("question %d: invalid correct_answer %q", qNum, q.CorrectAnswer))
		}

		correctAnswerCounts[q.CorrectAnswer]++
	}

	// Warn (but don't reject) if correct answers are clustered
	for key, count := range correctAnswerCounts {
		if count > 2 && len(batch.Questions) >= 5 {
			log.Printf("WARNING: correct answer %q appears %d times in batch of %d questions", key, count, len(batch.Questions))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

// ToQuestions converts a validated batch into store-ready questions,
// stamping every question with the requested difficulty tier.
func (b *GeneratedBatch) ToQuestions(difficulty models.Difficulty) []models.Question {
	out := make([]models.Question, 0, len(b.Questions))
	for _, gq := range b.Questions {
		marks := gq.Marks
		if marks <= 0 {
			marks = 1
		}
		options := make([]models.Option, 0, len(gq.Options))
		for _, opt := range gq.Options {
			options = append(options, models.Option{Key: opt.Key, Text: opt.Text})
		}
		out = append(out, models.Question{
			QuestionText:  gq.QuestionText,
			Options:       options,
			CorrectAnswer: gq.CorrectAnswer,
			Explanation:   gq.Explanation,
			Difficulty:    difficulty,
			Marks:         marks,
		})
	}
	return out
}
