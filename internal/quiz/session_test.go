package quiz

import (
	"testing"

	"github.com/studymitra/backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestComputeTimeLimit(t *testing.T) {
	tests := []struct {
		name            string
		quizType        models.QuizType
		timePerQuestion *int
		count           int
		want            int
	}{
		{"mock exam is fixed at 180", models.QuizTypeMockExam, nil, 10, 180},
		{"mock exam ignores per-question time", models.QuizTypeMockExam, intPtr(30), 50, 180},
		{"caller-supplied seconds per question", models.QuizTypeTimed, intPtr(30), 10, 5},
		{"caller-supplied 90s per question", models.QuizTypeMCQ, intPtr(90), 20, 30},
		{"default 2 minutes per question", models.QuizTypeMCQ, nil, 10, 20},
		{"zero per-question time falls back to default", models.QuizTypeMCQ, intPtr(0), 10, 20},
	}

	for _, tt := range tests {
		got := ComputeTimeLimit(tt.quizType, tt.timePerQuestion, tt.count)
		if got != tt.want {
			t.Errorf("%s: ComputeTimeLimit = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestNavFlags(t *testing.T) {
	tests := []struct {
		quizType  models.QuizType
		canSkip   bool
		canGoBack bool
	}{
		{models.QuizTypeMCQ, true, true},
		{models.QuizTypeAdaptive, true, true},
		{models.QuizTypeTimed, true, false},
		{models.QuizTypeMockExam, false, false},
	}

	for _, tt := range tests {
		skip, back := NavFlags(tt.quizType)
		if skip != tt.canSkip || back != tt.canGoBack {
			t.Errorf("NavFlags(%s) = (%v, %v), want (%v, %v)", tt.quizType, skip, back, tt.canSkip, tt.canGoBack)
		}
	}
}

func TestInitialDifficulty(t *testing.T) {
	hard := models.DifficultyHard
	bogus := models.Difficulty("expert")

	if got := InitialDifficulty(models.QuizTypeAdaptive, nil); got != models.DifficultyMedium {
		t.Errorf("adaptive default = %q, want medium", got)
	}
	if got := InitialDifficulty(models.QuizTypeAdaptive, &hard); got != models.DifficultyHard {
		t.Errorf("adaptive with requested tier = %q, want hard", got)
	}
	if got := InitialDifficulty(models.QuizTypeAdaptive, &bogus); got != models.DifficultyMedium {
		t.Errorf("adaptive with invalid tier = %q, want medium", got)
	}
	if got := InitialDifficulty(models.QuizTypeMCQ, &hard); got != "" {
		t.Errorf("non-adaptive quiz should carry no tier, got %q", got)
	}
}

func TestFindAnswer_OverwriteKeepsOrder(t *testing.T) {
	ref1 := models.QuestionRef{ContentID: "c1", SubIndex: 0}
	ref2 := models.QuestionRef{ContentID: "c1", SubIndex: 1}
	ref3 := models.QuestionRef{ContentID: "c2", SubIndex: 0}

	session := models.QuizSession{
		Answers: []models.AnswerRecord{
			{Ref: ref1, SelectedAnswer: "A"},
			{Ref: ref2, SelectedAnswer: "B"},
			{Ref: ref3, SelectedAnswer: "C"},
		},
	}

	idx := session.FindAnswer(ref2)
	if idx != 1 {
		t.Fatalf("FindAnswer(ref2) = %d, want 1", idx)
	}

	// Re-answering replaces in place: insertion order is unchanged,
	// so the adaptive window still sees the original sequence.
	session.Answers[idx] = models.AnswerRecord{Ref: ref2, SelectedAnswer: "D"}
	if session.Answers[1].SelectedAnswer != "D" {
		t.Errorf("expected overwritten answer D, got %q", session.Answers[1].SelectedAnswer)
	}
	if session.Answers[0].Ref != ref1 || session.Answers[2].Ref != ref3 {
		t.Error("overwrite disturbed answer order")
	}
	if len(session.Answers) != 3 {
		t.Errorf("expected 3 answers after overwrite, got %d", len(session.Answers))
	}

	if session.FindAnswer(models.QuestionRef{ContentID: "missing", SubIndex: 0}) != -1 {
		t.Error("expected -1 for unanswered question")
	}
}

func TestApplyAnswer_ReanswerKeepsCursorInBounds(t *testing.T) {
	refs := []models.QuestionRef{
		{ContentID: "c1", SubIndex: 0},
		{ContentID: "c1", SubIndex: 1},
	}
	session := &models.QuizSession{QuestionRefs: refs}

	rec := func(ref models.QuestionRef, answer string) models.AnswerRecord {
		return models.AnswerRecord{Ref: ref, SelectedAnswer: answer}
	}

	applyAnswer(session, rec(refs[0], "A"))
	if session.CurrentIndex != 1 {
		t.Fatalf("cursor = %d after first answer, want 1", session.CurrentIndex)
	}

	// Re-answering overwrites in place and never duplicates the record
	applyAnswer(session, rec(refs[0], "B"))
	if len(session.Answers) != 1 {
		t.Fatalf("expected 1 answer after overwrite, got %d", len(session.Answers))
	}
	if session.Answers[0].SelectedAnswer != "B" {
		t.Errorf("expected overwritten answer B, got %q", session.Answers[0].SelectedAnswer)
	}

	// Hammering re-answers cannot push the cursor past the question list
	applyAnswer(session, rec(refs[0], "C"))
	applyAnswer(session, rec(refs[0], "D"))
	applyAnswer(session, rec(refs[1], "A"))
	if session.CurrentIndex > session.TotalQuestions() {
		t.Errorf("cursor = %d exceeds %d questions", session.CurrentIndex, session.TotalQuestions())
	}
	if session.CurrentIndex != 2 {
		t.Errorf("cursor = %d, want 2", session.CurrentIndex)
	}
	if len(session.Answers) != 2 {
		t.Errorf("expected 2 answers, got %d", len(session.Answers))
	}
}
