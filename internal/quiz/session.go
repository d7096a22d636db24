package quiz

import (
	"github.com/studymitra/backend/internal/models"
)

// MockExamMinutes is the fixed time limit for mock exams.
const MockExamMinutes = 180

// ComputeTimeLimit returns the session time limit in minutes, fixed at
// creation. timePerQuestion is seconds per question when the caller
// supplies one; otherwise the default is 2 minutes per question.
func ComputeTimeLimit(quizType models.QuizType, timePerQuestion *int, questionCount int) int {
	if quizType == models.QuizTypeMockExam {
		return MockExamMinutes
	}
	if timePerQuestion != nil && *timePerQuestion > 0 {
		return *timePerQuestion * questionCount / 60
	}
	return 2 * questionCount
}

// NavFlags returns the per-type navigation permissions: mock exams
// allow neither skipping nor going back, timed quizzes only disallow
// going back.
func NavFlags(quizType models.QuizType) (canSkip, canGoBack bool) {
	canSkip = quizType != models.QuizTypeMockExam
	canGoBack = quizType != models.QuizTypeTimed && quizType != models.QuizTypeMockExam
	return canSkip, canGoBack
}

// InitialDifficulty returns the starting tier for a session. Only
// adaptive sessions carry a difficulty; it defaults to medium.
func InitialDifficulty(quizType models.QuizType, requested *models.Difficulty) models.Difficulty {
	if quizType != models.QuizTypeAdaptive {
		return ""
	}
	if requested != nil && models.ValidDifficulties[*requested] {
		return *requested
	}
	return models.DifficultyMedium
}

// applyAnswer records an answer on the session, overwriting in place
// when the question was already answered. The cursor advances but
// never passes the question list, so repeated re-answers cannot push
// it out of bounds.
func applyAnswer(session *models.QuizSession, record models.AnswerRecord) {
	if idx := session.FindAnswer(record.Ref); idx >= 0 {
		session.Answers[idx] = record
	} else {
		session.Answers = append(session.Answers, record)
	}
	if session.CurrentIndex < session.TotalQuestions() {
		session.CurrentIndex++
	}
}
