package quiz

import (
	"github.com/studymitra/backend/internal/models"
)

// adaptiveWindow is how many recent answers feed the tier decision.
const adaptiveWindow = 3

// NextDifficulty recomputes the session tier from the most recent
// answers. Fewer than adaptiveWindow answers leaves the tier unchanged.
// Accuracy >= 80% promotes to hard, <= 40% demotes to easy, anything
// in between keeps the current tier. Transitions are direct: a hard
// session at <= 40% drops straight to easy with no intermediate step.
func NextDifficulty(current models.Difficulty, answers []models.AnswerRecord) models.Difficulty {
	if len(answers) < adaptiveWindow {
		return current
	}

	recent := answers[len(answers)-adaptiveWindow:]
	correct := 0
	for _, a := range recent {
		if a.IsCorrect {
			correct++
		}
	}
	recentAccuracy := float64(correct) / float64(adaptiveWindow) * 100

	switch {
	case recentAccuracy >= 80 && current != models.DifficultyHard:
		return models.DifficultyHard
	case recentAccuracy <= 40 && current != models.DifficultyEasy:
		return models.DifficultyEasy
	default:
		return current
	}
}
