package content

import (
	"math/rand"

	"github.com/studymitra/backend/internal/models"
)

// RefQuestion pairs a sub-question with its structural address.
type RefQuestion struct {
	Ref      models.QuestionRef
	Question models.Question
}

// Flatten expands content items into individually addressable
// sub-questions. Array order inside an item is preserved.
func Flatten(items []models.ContentItem) []RefQuestion {
	var out []RefQuestion
	for _, item := range items {
		for i, q := range item.Questions {
			out = append(out, RefQuestion{
				Ref:      models.QuestionRef{ContentID: item.ID, SubIndex: i},
				Question: q,
			})
		}
	}
	return out
}

// ExcludeAttempted removes every question whose ref appears in the
// attempted set. An empty result is returned as-is; callers must not
// recycle attempted questions to pad it.
func ExcludeAttempted(pool []RefQuestion, attempted map[models.QuestionRef]bool) []RefQuestion {
	if len(attempted) == 0 {
		return pool
	}
	var out []RefQuestion
	for _, rq := range pool {
		if !attempted[rq.Ref] {
			out = append(out, rq)
		}
	}
	return out
}

// Sample picks n questions uniformly without replacement. If the pool
// holds fewer than n, the whole pool is returned (shuffled).
func Sample(pool []RefQuestion, n int) []RefQuestion {
	shuffled := make([]RefQuestion, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
