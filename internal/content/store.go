package content

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studymitra/backend/internal/models"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrQuestionNotFound = errors.New("question not found")
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Filters narrows content item lookups. Nil fields are ignored.
type Filters struct {
	ContentType *string
	ChapterID   *int64
	Topic       *string
}

// ── Content Items ───────────────────────────────────────

func (s *Store) InsertContentItem(item *models.ContentItem) error {
	questionsJSON, err := json.Marshal(item.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	err = s.db.QueryRow(
		`INSERT INTO content_items (id, chapter_id, topic, content_type, questions, model_used)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		item.ID, item.ChapterID, item.Topic, item.ContentType, questionsJSON, item.ModelUsed,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert content item: %w", err)
	}
	return nil
}

func (s *Store) GetContentItem(id string) (*models.ContentItem, error) {
	var item models.ContentItem
	var chapterID sql.NullInt64
	var modelUsed sql.NullString
	var questionsJSON []byte
	err := s.db.QueryRow(
		`SELECT id, chapter_id, topic, content_type, questions, model_used, created_at
		 FROM content_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &chapterID, &item.Topic, &item.ContentType, &questionsJSON, &modelUsed, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content item: %w", err)
	}
	if chapterID.Valid {
		item.ChapterID = &chapterID.Int64
	}
	if modelUsed.Valid {
		item.ModelUsed = modelUsed.String
	}
	if err := json.Unmarshal(questionsJSON, &item.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions for %s: %w", id, err)
	}
	return &item, nil
}

// GetQuestion resolves a single sub-question by structural reference.
func (s *Store) GetQuestion(ref models.QuestionRef) (*models.Question, error) {
	item, err := s.GetContentItem(ref.ContentID)
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if ref.SubIndex < 0 || ref.SubIndex >= len(item.Questions) {
		return nil, ErrQuestionNotFound
	}
	q := item.Questions[ref.SubIndex]
	return &q, nil
}

func (s *Store) ListContent(f Filters) ([]models.ContentItem, error) {
	query := `SELECT id, chapter_id, topic, content_type, questions, model_used, created_at
	          FROM content_items WHERE 1=1`
	var args []interface{}

	if f.ContentType != nil {
		args = append(args, *f.ContentType)
		query += fmt.Sprintf(" AND content_type = $%d", len(args))
	}
	if f.ChapterID != nil {
		args = append(args, *f.ChapterID)
		query += fmt.Sprintf(" AND chapter_id = $%d", len(args))
	}
	if f.Topic != nil {
		args = append(args, *f.Topic)
		query += fmt.Sprintf(" AND topic = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		var chapterID sql.NullInt64
		var modelUsed sql.NullString
		var questionsJSON []byte
		if err := rows.Scan(&item.ID, &chapterID, &item.Topic, &item.ContentType,
			&questionsJSON, &modelUsed, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}
		if chapterID.Valid {
			item.ChapterID = &chapterID.Int64
		}
		if modelUsed.Valid {
			item.ModelUsed = modelUsed.String
		}
		if err := json.Unmarshal(questionsJSON, &item.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions for %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ── Chapters & Topics ───────────────────────────────────

func (s *Store) ListChapters() ([]models.Chapter, error) {
	rows, err := s.db.Query(
		`SELECT id, subject, name, position, created_at FROM chapters ORDER BY position, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.Chapter
	byID := make(map[int64]int)
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.ID, &c.Subject, &c.Name, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		byID[c.ID] = len(chapters)
		chapters = append(chapters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topicRows, err := s.db.Query(
		`SELECT id, chapter_id, name, created_at FROM topics ORDER BY chapter_id, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer topicRows.Close()

	for topicRows.Next() {
		var t models.Topic
		if err := topicRows.Scan(&t.ID, &t.ChapterID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		if idx, ok := byID[t.ChapterID]; ok {
			chapters[idx].Topics = append(chapters[idx].Topics, t)
		}
	}
	return chapters, topicRows.Err()
}

func (s *Store) ListTopics(chapterID int64) ([]models.Topic, error) {
	rows, err := s.db.Query(
		`SELECT id, chapter_id, name, created_at FROM topics WHERE chapter_id = $1 ORDER BY id`,
		chapterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.ChapterID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
