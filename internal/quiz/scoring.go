package quiz

import (
	"math"
	"time"

	"github.com/studymitra/backend/internal/models"
)

// ScoreResult is the computed outcome of a completed answer set.
// Accuracy is kept at full precision; round for display with Round2.
type ScoreResult struct {
	CorrectAnswers   int
	Accuracy         float64
	TimeSpentMinutes float64
	CoinsEarned      int
	PerformanceLevel string
	Analysis         models.ResultAnalysis
}

// baseCoins is the per-type coin value before the accuracy multiplier.
var baseCoins = map[models.QuizType]int{
	models.QuizTypeMCQ:      10,
	models.QuizTypeAdaptive: 15,
	models.QuizTypeTimed:    12,
	models.QuizTypeMockExam: 50,
}

const defaultBaseCoins = 10

// ComputeResults scores a finished session. difficultyOf resolves an
// answered question's stored difficulty; it must return medium for
// unknown or malformed questions.
func ComputeResults(
	answers []models.AnswerRecord,
	totalQuestions int,
	startedAt, now time.Time,
	quizType models.QuizType,
	difficultyOf func(models.QuestionRef) models.Difficulty,
) ScoreResult {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}

	accuracy := 0.0
	if totalQuestions > 0 {
		accuracy = float64(correct) / float64(totalQuestions) * 100
	}

	timeSpent := now.Sub(startedAt).Seconds() / 60

	return ScoreResult{
		CorrectAnswers:   correct,
		Accuracy:         accuracy,
		TimeSpentMinutes: timeSpent,
		CoinsEarned:      CoinsEarned(quizType, accuracy),
		PerformanceLevel: PerformanceLevel(accuracy),
		Analysis:         buildAnalysis(answers, accuracy, timeSpent, difficultyOf),
	}
}

// CoinsEarned applies the accuracy-tier multiplier to the quiz type's
// base coin value and truncates to an integer.
func CoinsEarned(quizType models.QuizType, accuracy float64) int {
	base, ok := baseCoins[quizType]
	if !ok {
		base = defaultBaseCoins
	}

	var multiplier float64
	switch {
	case accuracy >= 90:
		multiplier = 2.0
	case accuracy >= 75:
		multiplier = 1.5
	case accuracy >= 60:
		multiplier = 1.0
	default:
		multiplier = 0.5
	}

	return int(float64(base) * multiplier)
}

func PerformanceLevel(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return "Excellent"
	case accuracy >= 75:
		return "Good"
	case accuracy >= 60:
		return "Average"
	default:
		return "Needs Improvement"
	}
}

func buildAnalysis(
	answers []models.AnswerRecord,
	accuracy, timeSpentMinutes float64,
	difficultyOf func(models.QuestionRef) models.Difficulty,
) models.ResultAnalysis {
	var breakdown models.DifficultyBreakdown
	var totalTime float64

	for _, a := range answers {
		totalTime += a.TimeSpentSeconds

		var tier *models.TierScore
		switch difficultyOf(a.Ref) {
		case models.DifficultyEasy:
			tier = &breakdown.Easy
		case models.DifficultyHard:
			tier = &breakdown.Hard
		default:
			tier = &breakdown.Medium
		}
		tier.Total++
		if a.IsCorrect {
			tier.Correct++
		}
	}

	avgTime := 0.0
	if len(answers) > 0 {
		avgTime = totalTime / float64(len(answers))
	}

	// Best-effort commentary, not a scored property
	strengths := []string{}
	areas := []string{}
	if timeSpentMinutes < 30 {
		strengths = append(strengths, "Quick problem solving")
	}
	if accuracy < 70 {
		areas = append(areas, "Accuracy needs work")
	}

	return models.ResultAnalysis{
		DifficultyBreakdown:    breakdown,
		AverageTimePerQuestion: avgTime,
		Strengths:              strengths,
		AreasToImprove:         areas,
	}
}

// Round2 rounds to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
