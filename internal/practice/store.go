package practice

import (
	"database/sql"
	"fmt"

	"github.com/studymitra/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecentAttempts returns the user's most recent ledger rows, newest
// first, across both practice and quiz attempts.
func (s *Store) RecentAttempts(userID int64, limit int) ([]models.QuestionAttempt, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, content_id, sub_index, session_id, is_correct, time_taken_seconds, attempted_at
		 FROM user_question_attempts
		 WHERE user_id = $1
		 ORDER BY attempted_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.QuestionAttempt
	for rows.Next() {
		var a models.QuestionAttempt
		var sessionID sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.Ref.ContentID, &a.Ref.SubIndex,
			&sessionID, &a.IsCorrect, &a.TimeTakenSeconds, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if sessionID.Valid {
			a.SessionID = &sessionID.String
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// AttemptedRefs returns every question the user has ever attempted, in
// any mode. Used to keep served questions unique per user.
func (s *Store) AttemptedRefs(userID int64) (map[models.QuestionRef]bool, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT content_id, sub_index FROM user_question_attempts WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("attempted refs: %w", err)
	}
	defer rows.Close()

	seen := make(map[models.QuestionRef]bool)
	for rows.Next() {
		var ref models.QuestionRef
		if err := rows.Scan(&ref.ContentID, &ref.SubIndex); err != nil {
			return nil, fmt.Errorf("scan attempted ref: %w", err)
		}
		seen[ref] = true
	}
	return seen, rows.Err()
}

// UpsertAttempt records a practice attempt (no session). Re-attempting
// the same question updates the existing row instead of inserting.
func (s *Store) UpsertAttempt(userID int64, ref models.QuestionRef, isCorrect bool, timeTaken float64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_question_attempts (user_id, content_id, sub_index, session_id, is_correct, time_taken_seconds, attempted_at)
		 VALUES ($1, $2, $3, NULL, $4, $5, NOW())
		 ON CONFLICT (user_id, content_id, sub_index) WHERE session_id IS NULL
		 DO UPDATE SET is_correct = EXCLUDED.is_correct,
		               time_taken_seconds = EXCLUDED.time_taken_seconds,
		               attempted_at = NOW()`,
		userID, ref.ContentID, ref.SubIndex, isCorrect, timeTaken,
	)
	if err != nil {
		return fmt.Errorf("upsert practice attempt: %w", err)
	}
	return nil
}

// Stats aggregates the user's lifetime attempt record.
func (s *Store) Stats(userID int64) (*models.StudentStatsResponse, error) {
	var stats models.StudentStatsResponse
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(time_taken_seconds), 0)
		 FROM user_question_attempts WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalAttempts, &stats.CorrectCount, &stats.AvgTimeSeconds)
	if err != nil {
		return nil, fmt.Errorf("attempt stats: %w", err)
	}

	if stats.TotalAttempts > 0 {
		stats.Accuracy = float64(stats.CorrectCount) / float64(stats.TotalAttempts) * 100
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT c.topic
		 FROM user_question_attempts a
		 JOIN content_items c ON c.id = a.content_id
		 WHERE a.user_id = $1 AND c.topic <> ''
		 ORDER BY c.topic`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("topics covered: %w", err)
	}
	defer rows.Close()

	stats.TopicsCovered = []string{}
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		stats.TopicsCovered = append(stats.TopicsCovered, topic)
	}
	return &stats, rows.Err()
}
