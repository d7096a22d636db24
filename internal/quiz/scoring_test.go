package quiz

import (
	"testing"
	"time"

	"github.com/studymitra/backend/internal/models"
)

func mkAnswers(correct, total int) []models.AnswerRecord {
	answers := make([]models.AnswerRecord, total)
	for i := range answers {
		answers[i] = models.AnswerRecord{
			Ref:              models.QuestionRef{ContentID: "c1", SubIndex: i},
			SelectedAnswer:   "A",
			IsCorrect:        i < correct,
			TimeSpentSeconds: 30,
		}
	}
	return answers
}

func mediumOf(models.QuestionRef) models.Difficulty { return models.DifficultyMedium }

func TestComputeResults_AccuracyDeterminism(t *testing.T) {
	started := time.Now()
	result := ComputeResults(mkAnswers(8, 10), 10, started, started.Add(12*time.Minute), models.QuizTypeMCQ, mediumOf)

	if result.CorrectAnswers != 8 {
		t.Errorf("expected 8 correct, got %d", result.CorrectAnswers)
	}
	if result.Accuracy != 80.0 {
		t.Errorf("expected accuracy exactly 80.0, got %v", result.Accuracy)
	}
}

func TestComputeResults_PerfectScore(t *testing.T) {
	started := time.Now()
	result := ComputeResults(mkAnswers(5, 5), 5, started, started.Add(10*time.Minute), models.QuizTypeMCQ, mediumOf)

	if result.Accuracy != 100.0 {
		t.Errorf("expected accuracy 100.0, got %v", result.Accuracy)
	}
	if result.PerformanceLevel != "Excellent" {
		t.Errorf("expected Excellent, got %q", result.PerformanceLevel)
	}
	if result.CoinsEarned != 20 {
		t.Errorf("expected 20 coins (base 10 x 2.0), got %d", result.CoinsEarned)
	}
}

func TestComputeResults_NoAnswers(t *testing.T) {
	started := time.Now()
	result := ComputeResults(nil, 10, started, started.Add(time.Minute), models.QuizTypeMCQ, mediumOf)

	if result.Accuracy != 0 {
		t.Errorf("expected accuracy 0, got %v", result.Accuracy)
	}
	if result.CoinsEarned != 5 {
		t.Errorf("expected 5 coins (base 10 x 0.5), got %d", result.CoinsEarned)
	}
	if result.Analysis.AverageTimePerQuestion != 0 {
		t.Errorf("expected avg time 0 for no answers, got %v", result.Analysis.AverageTimePerQuestion)
	}
}

func TestCoinsEarned(t *testing.T) {
	tests := []struct {
		quizType models.QuizType
		accuracy float64
		want     int
	}{
		{models.QuizTypeMCQ, 100, 20},      // 10 x 2.0
		{models.QuizTypeMCQ, 90, 20},       // boundary
		{models.QuizTypeMCQ, 80, 15},       // 10 x 1.5
		{models.QuizTypeMCQ, 75, 15},       // boundary
		{models.QuizTypeMCQ, 65, 10},       // 10 x 1.0
		{models.QuizTypeMCQ, 60, 10},       // boundary
		{models.QuizTypeMCQ, 59, 5},        // 10 x 0.5
		{models.QuizTypeAdaptive, 90, 30},  // 15 x 2.0
		{models.QuizTypeAdaptive, 50, 7},   // int(15 x 0.5) truncates
		{models.QuizTypeTimed, 75, 18},     // 12 x 1.5
		{models.QuizTypeMockExam, 80, 75},  // 50 x 1.5
		{models.QuizTypeMockExam, 95, 100}, // 50 x 2.0
		{models.QuizType("speed"), 80, 15}, // unknown type falls back to base 10
	}

	for _, tt := range tests {
		got := CoinsEarned(tt.quizType, tt.accuracy)
		if got != tt.want {
			t.Errorf("CoinsEarned(%s, %v) = %d, want %d", tt.quizType, tt.accuracy, got, tt.want)
		}
	}
}

func TestPerformanceLevel(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89.9, "Good"},
		{75, "Good"},
		{74.9, "Average"},
		{60, "Average"},
		{59.9, "Needs Improvement"},
		{0, "Needs Improvement"},
	}

	for _, tt := range tests {
		if got := PerformanceLevel(tt.accuracy); got != tt.want {
			t.Errorf("PerformanceLevel(%v) = %q, want %q", tt.accuracy, got, tt.want)
		}
	}
}

func TestComputeResults_DifficultyBreakdown(t *testing.T) {
	tiers := map[models.QuestionRef]models.Difficulty{
		{ContentID: "c1", SubIndex: 0}: models.DifficultyEasy,
		{ContentID: "c1", SubIndex: 1}: models.DifficultyHard,
		// sub index 2 unresolved — should default to medium
	}
	difficultyOf := func(ref models.QuestionRef) models.Difficulty {
		if d, ok := tiers[ref]; ok {
			return d
		}
		return models.DifficultyMedium
	}

	answers := []models.AnswerRecord{
		{Ref: models.QuestionRef{ContentID: "c1", SubIndex: 0}, IsCorrect: true, TimeSpentSeconds: 10},
		{Ref: models.QuestionRef{ContentID: "c1", SubIndex: 1}, IsCorrect: false, TimeSpentSeconds: 40},
		{Ref: models.QuestionRef{ContentID: "c1", SubIndex: 2}, IsCorrect: true, TimeSpentSeconds: 10},
	}

	started := time.Now()
	result := ComputeResults(answers, 3, started, started.Add(10*time.Minute), models.QuizTypeMCQ, difficultyOf)

	b := result.Analysis.DifficultyBreakdown
	if b.Easy.Total != 1 || b.Easy.Correct != 1 {
		t.Errorf("easy breakdown = %+v, want 1/1", b.Easy)
	}
	if b.Hard.Total != 1 || b.Hard.Correct != 0 {
		t.Errorf("hard breakdown = %+v, want 0/1", b.Hard)
	}
	if b.Medium.Total != 1 || b.Medium.Correct != 1 {
		t.Errorf("medium breakdown = %+v, want 1/1", b.Medium)
	}

	if result.Analysis.AverageTimePerQuestion != 20 {
		t.Errorf("expected avg time 20s, got %v", result.Analysis.AverageTimePerQuestion)
	}
}

func TestComputeResults_Commentary(t *testing.T) {
	started := time.Now()

	// Fast and accurate: quick-solver strength, no accuracy flag
	fast := ComputeResults(mkAnswers(9, 10), 10, started, started.Add(15*time.Minute), models.QuizTypeMCQ, mediumOf)
	if len(fast.Analysis.Strengths) != 1 || fast.Analysis.Strengths[0] != "Quick problem solving" {
		t.Errorf("expected quick-solving strength, got %v", fast.Analysis.Strengths)
	}
	if len(fast.Analysis.AreasToImprove) != 0 {
		t.Errorf("expected no improvement areas, got %v", fast.Analysis.AreasToImprove)
	}

	// Slow and inaccurate: no strength, accuracy flag
	slow := ComputeResults(mkAnswers(5, 10), 10, started, started.Add(45*time.Minute), models.QuizTypeMCQ, mediumOf)
	if len(slow.Analysis.Strengths) != 0 {
		t.Errorf("expected no strengths, got %v", slow.Analysis.Strengths)
	}
	if len(slow.Analysis.AreasToImprove) != 1 || slow.Analysis.AreasToImprove[0] != "Accuracy needs work" {
		t.Errorf("expected accuracy flag, got %v", slow.Analysis.AreasToImprove)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(66.666666); got != 66.67 {
		t.Errorf("Round2(66.666666) = %v, want 66.67", got)
	}
	if got := Round2(80.0); got != 80.0 {
		t.Errorf("Round2(80.0) = %v, want 80.0", got)
	}
}
