package generator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/studymitra/backend/internal/models"
)

func validOptions() []GeneratedOption {
	return []GeneratedOption{
		{Key: "A", Text: "The process converts light energy into chemical energy"},
		{Key: "B", Text: "The process converts chemical energy into light energy"},
		{Key: "C", Text: "The process releases oxygen without fixing carbon"},
		{Key: "D", Text: "The process only occurs in animal cells"},
	}
}

func validBatchJSON(count int) string {
	keys := []string{"A", "B", "C", "D"}
	batch := GeneratedBatch{Questions: make([]GeneratedQuestion, count)}

	for i := 0; i < count; i++ {
		batch.Questions[i] = GeneratedQuestion{
			QuestionText:  "Which of the following best describes photosynthesis?",
			Options:       validOptions(),
			CorrectAnswer: keys[i%4],
			Explanation:   "The correct option accurately describes the energy conversion involved.",
			Marks:         1,
		}
	}

	data, _ := json.Marshal(batch)
	return string(data)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	input := validBatchJSON(5)

	batch, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(batch.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(batch.Questions))
	}

	for i, q := range batch.Questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
		if q.CorrectAnswer == "" {
			t.Errorf("question %d: empty correct_answer", i+1)
		}
	}
}

func TestParseResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + validBatchJSON(3) + "\n```"

	batch, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}

	if len(batch.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(batch.Questions))
	}
}

func TestParseResponse_MissingOption(t *testing.T) {
	batch := GeneratedBatch{
		Questions: []GeneratedQuestion{
			{
				QuestionText:  "Which of the following best describes photosynthesis?",
				Options:       validOptions()[:3], // missing D
				CorrectAnswer: "A",
				Explanation:   "The answer is A.",
			},
		},
	}
	data, _ := json.Marshal(batch)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for missing option")
	}

	var ve *ValidationError
	if !isValidationError(err, &ve) {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "expected 4 options") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about 4 options, got: %v", ve.Errors)
	}
}

func TestParseResponse_InvalidCorrectAnswer(t *testing.T) {
	batch := GeneratedBatch{
		Questions: []GeneratedQuestion{
			{
				QuestionText:  "Which of the following best describes photosynthesis?",
				Options:       validOptions(),
				CorrectAnswer: "E",
				Explanation:   "The answer is E.",
			},
		},
	}
	data, _ := json.Marshal(batch)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for invalid correct_answer")
	}

	var ve *ValidationError
	if !isValidationError(err, &ve) {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "invalid correct_answer") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about invalid correct_answer, got: %v", ve.Errors)
	}
}

func TestParseResponse_EmptyQuestionText(t *testing.T) {
	batch := GeneratedBatch{
		Questions: []GeneratedQuestion{
			{
				QuestionText:  "",
				Options:       validOptions(),
				CorrectAnswer: "A",
				Explanation:   "The answer is A.",
			},
		},
	}
	data, _ := json.Marshal(batch)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for empty question_text")
	}
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := ParseResponse("this is not json at all")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	// Should NOT be a ValidationError — should be a parse error
	var ve *ValidationError
	if isValidationError(err, &ve) {
		t.Fatal("expected parse error, not ValidationError")
	}
}

func TestToQuestions(t *testing.T) {
	batch, err := ParseResponse(validBatchJSON(4))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// Zero marks should default to 1
	batch.Questions[0].Marks = 0

	questions := batch.ToQuestions(models.DifficultyHard)
	if len(questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Difficulty != models.DifficultyHard {
			t.Errorf("question %d: expected difficulty hard, got %q", i+1, q.Difficulty)
		}
		if q.Marks < 1 {
			t.Errorf("question %d: expected marks >= 1, got %d", i+1, q.Marks)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
	}
	if questions[0].Marks != 1 {
		t.Errorf("expected zero marks to default to 1, got %d", questions[0].Marks)
	}
}

func TestMockClientProducesParsableBatch(t *testing.T) {
	resp, err := NewMockClient().Generate(nil, MCQSystemPrompt(), BuildMCQUserPrompt("photosynthesis", models.DifficultyMedium, 5))
	if err != nil {
		t.Fatalf("mock generate: %v", err)
	}

	batch, err := ParseResponse(resp.Content)
	if err != nil {
		t.Fatalf("mock output failed to parse: %v", err)
	}
	if len(batch.Questions) != 5 {
		t.Errorf("expected 5 mock questions, got %d", len(batch.Questions))
	}
}

// isValidationError checks if err is a *ValidationError via type assertion
func isValidationError(err error, target **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok && target != nil {
		*target = ve
	}
	return ok
}
