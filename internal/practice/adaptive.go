package practice

import "github.com/studymitra/backend/internal/models"

// practiceWindow is how many recent attempts feed the difficulty
// suggestion.
const practiceWindow = 20

// SuggestDifficulty picks a practice tier from recent attempt history.
// Users with no history start at medium. Below 60% accuracy drops to
// easy, below 80% holds medium, at or above 80% moves to hard.
func SuggestDifficulty(results []bool) (models.Difficulty, float64) {
	if len(results) == 0 {
		return models.DifficultyMedium, 0
	}

	correct := 0
	for _, ok := range results {
		if ok {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(results)) * 100

	switch {
	case accuracy < 60:
		return models.DifficultyEasy, accuracy
	case accuracy < 80:
		return models.DifficultyMedium, accuracy
	default:
		return models.DifficultyHard, accuracy
	}
}
