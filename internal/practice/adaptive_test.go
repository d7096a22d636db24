package practice

import (
	"testing"

	"github.com/studymitra/backend/internal/models"
)

func results(correct, total int) []bool {
	out := make([]bool, total)
	for i := range out {
		out[i] = i < correct
	}
	return out
}

func TestSuggestDifficulty(t *testing.T) {
	tests := []struct {
		name         string
		results      []bool
		want         models.Difficulty
		wantAccuracy float64
	}{
		{"no history defaults to medium", nil, models.DifficultyMedium, 0},
		{"all wrong goes easy", results(0, 10), models.DifficultyEasy, 0},
		{"55% goes easy", results(11, 20), models.DifficultyEasy, 55},
		{"60% holds medium", results(12, 20), models.DifficultyMedium, 60},
		{"79% holds medium", results(15, 19), models.DifficultyMedium, 78.94736842105263},
		{"80% moves to hard", results(16, 20), models.DifficultyHard, 80},
		{"perfect record goes hard", results(20, 20), models.DifficultyHard, 100},
	}

	for _, tt := range tests {
		got, accuracy := SuggestDifficulty(tt.results)
		if got != tt.want {
			t.Errorf("%s: SuggestDifficulty = %s, want %s", tt.name, got, tt.want)
		}
		if accuracy != tt.wantAccuracy {
			t.Errorf("%s: accuracy = %v, want %v", tt.name, accuracy, tt.wantAccuracy)
		}
	}
}

func TestSuggestDifficulty_SmallSample(t *testing.T) {
	// A single correct attempt is 100% accurate: the window does not
	// require a minimum sample.
	got, accuracy := SuggestDifficulty([]bool{true})
	if got != models.DifficultyHard {
		t.Errorf("expected hard from single correct attempt, got %s", got)
	}
	if accuracy != 100 {
		t.Errorf("expected accuracy 100, got %v", accuracy)
	}
}
