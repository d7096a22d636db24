package content

import (
	"testing"

	"github.com/studymitra/backend/internal/models"
)

func makeItem(id string, count int) models.ContentItem {
	questions := make([]models.Question, count)
	for i := range questions {
		questions[i] = models.Question{
			QuestionText:  "question",
			CorrectAnswer: "A",
			Difficulty:    models.DifficultyMedium,
			Marks:         1,
		}
	}
	return models.ContentItem{ID: id, ContentType: "mcq_medium", Questions: questions}
}

func TestFlatten(t *testing.T) {
	items := []models.ContentItem{makeItem("c1", 3), makeItem("c2", 1)}

	pool := Flatten(items)
	if len(pool) != 4 {
		t.Fatalf("expected 4 flattened questions, got %d", len(pool))
	}

	// Order inside an item must be preserved
	for i := 0; i < 3; i++ {
		want := models.QuestionRef{ContentID: "c1", SubIndex: i}
		if pool[i].Ref != want {
			t.Errorf("position %d: expected ref %+v, got %+v", i, want, pool[i].Ref)
		}
	}
	if pool[3].Ref != (models.QuestionRef{ContentID: "c2", SubIndex: 0}) {
		t.Errorf("expected last ref c2/0, got %+v", pool[3].Ref)
	}
}

func TestFlatten_EmptyItems(t *testing.T) {
	if got := Flatten(nil); len(got) != 0 {
		t.Errorf("expected empty pool, got %d", len(got))
	}
	if got := Flatten([]models.ContentItem{{ID: "c1"}}); len(got) != 0 {
		t.Errorf("expected empty pool for item with no questions, got %d", len(got))
	}
}

func TestExcludeAttempted(t *testing.T) {
	pool := Flatten([]models.ContentItem{
		makeItem("A", 1), makeItem("B", 1), makeItem("C", 1), makeItem("D", 1),
	})
	attempted := map[models.QuestionRef]bool{
		{ContentID: "A", SubIndex: 0}: true,
		{ContentID: "B", SubIndex: 0}: true,
	}

	remaining := ExcludeAttempted(pool, attempted)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining questions, got %d", len(remaining))
	}
	for _, rq := range remaining {
		if rq.Ref.ContentID != "C" && rq.Ref.ContentID != "D" {
			t.Errorf("unexpected content id %q in filtered pool", rq.Ref.ContentID)
		}
	}
}

func TestExcludeAttempted_AllSeen(t *testing.T) {
	pool := Flatten([]models.ContentItem{makeItem("A", 2)})
	attempted := map[models.QuestionRef]bool{
		{ContentID: "A", SubIndex: 0}: true,
		{ContentID: "A", SubIndex: 1}: true,
	}

	// Exhausted pool stays empty — attempted questions are never recycled
	if got := ExcludeAttempted(pool, attempted); len(got) != 0 {
		t.Errorf("expected empty result, got %d questions", len(got))
	}
}

func TestExcludeAttempted_SubIndexGranularity(t *testing.T) {
	pool := Flatten([]models.ContentItem{makeItem("A", 2)})
	attempted := map[models.QuestionRef]bool{
		{ContentID: "A", SubIndex: 0}: true,
	}

	remaining := ExcludeAttempted(pool, attempted)
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining question, got %d", len(remaining))
	}
	if remaining[0].Ref.SubIndex != 1 {
		t.Errorf("expected sub index 1, got %d", remaining[0].Ref.SubIndex)
	}
}

func TestSample(t *testing.T) {
	pool := Flatten([]models.ContentItem{makeItem("A", 10)})

	picked := Sample(pool, 4)
	if len(picked) != 4 {
		t.Fatalf("expected 4 sampled questions, got %d", len(picked))
	}

	// Without replacement: refs must be distinct
	seen := make(map[models.QuestionRef]bool)
	for _, rq := range picked {
		if seen[rq.Ref] {
			t.Errorf("ref %+v sampled twice", rq.Ref)
		}
		seen[rq.Ref] = true
	}
}

func TestSample_PoolSmallerThanN(t *testing.T) {
	pool := Flatten([]models.ContentItem{makeItem("A", 2)})
	if got := Sample(pool, 5); len(got) != 2 {
		t.Errorf("expected whole pool of 2, got %d", len(got))
	}
}
