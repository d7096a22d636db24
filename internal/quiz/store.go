package quiz

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/studymitra/backend/internal/models"
)

var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrQuizCompleted    = errors.New("quiz already completed")
	ErrQuizNotCompleted = errors.New("quiz not completed yet")
	ErrNoQuestions      = errors.New("no questions match filters")
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Sessions ────────────────────────────────────────────

func (s *Store) CreateSession(session *models.QuizSession) error {
	refsJSON, err := json.Marshal(session.QuestionRefs)
	if err != nil {
		return fmt.Errorf("marshal question refs: %w", err)
	}
	answersJSON, err := json.Marshal(session.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO quiz_sessions
		 (id, user_id, quiz_type, question_refs, current_index, answers, status,
		  current_difficulty, time_limit_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		 RETURNING started_at`,
		session.ID, session.UserID, session.QuizType, refsJSON, session.CurrentIndex,
		answersJSON, session.Status, string(session.CurrentDifficulty), session.TimeLimitMinutes,
	).Scan(&session.StartedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession loads a session scoped to its owner. A session belonging
// to another user is indistinguishable from a missing one.
func (s *Store) GetSession(id string, userID int64) (*models.QuizSession, error) {
	var session models.QuizSession
	var refsJSON, answersJSON []byte
	var difficulty sql.NullString
	var completedAt sql.NullTime

	err := s.db.QueryRow(
		`SELECT id, user_id, quiz_type, question_refs, current_index, answers, status,
		        current_difficulty, time_limit_minutes, started_at, completed_at,
		        correct_answers, accuracy, time_spent_minutes, coins_earned
		 FROM quiz_sessions WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&session.ID, &session.UserID, &session.QuizType, &refsJSON, &session.CurrentIndex,
		&answersJSON, &session.Status, &difficulty, &session.TimeLimitMinutes,
		&session.StartedAt, &completedAt,
		&session.CorrectAnswers, &session.Accuracy, &session.TimeSpentMinutes, &session.CoinsEarned)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if err := json.Unmarshal(refsJSON, &session.QuestionRefs); err != nil {
		return nil, fmt.Errorf("unmarshal question refs for %s: %w", id, err)
	}
	if err := json.Unmarshal(answersJSON, &session.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers for %s: %w", id, err)
	}
	if difficulty.Valid {
		session.CurrentDifficulty = models.Difficulty(difficulty.String)
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	return &session, nil
}

// SaveProgress persists the mutable in-progress fields as one atomic
// write. A completed session is never touched.
func (s *Store) SaveProgress(session *models.QuizSession) error {
	answersJSON, err := json.Marshal(session.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE quiz_sessions
		 SET current_index = $1, answers = $2, current_difficulty = NULLIF($3, '')
		 WHERE id = $4 AND user_id = $5 AND status = $6`,
		session.CurrentIndex, answersJSON, string(session.CurrentDifficulty),
		session.ID, session.UserID, models.QuizInProgress,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuizCompleted
	}
	return nil
}

// UpdateDifficulty persists an adaptive tier change only.
func (s *Store) UpdateDifficulty(id string, userID int64, d models.Difficulty) error {
	_, err := s.db.Exec(
		`UPDATE quiz_sessions SET current_difficulty = $1
		 WHERE id = $2 AND user_id = $3 AND status = $4`,
		string(d), id, userID, models.QuizInProgress,
	)
	if err != nil {
		return fmt.Errorf("update difficulty: %w", err)
	}
	return nil
}

// Complete transitions a session to its terminal state and stores the
// computed results. The status guard makes a second submit lose the
// race and surface as ErrQuizCompleted.
func (s *Store) Complete(id string, userID int64, completedAt time.Time, score ScoreResult) error {
	res, err := s.db.Exec(
		`UPDATE quiz_sessions
		 SET status = $1, completed_at = $2, correct_answers = $3, accuracy = $4,
		     time_spent_minutes = $5, coins_earned = $6
		 WHERE id = $7 AND user_id = $8 AND status = $9`,
		models.QuizCompleted, completedAt, score.CorrectAnswers, score.Accuracy,
		score.TimeSpentMinutes, score.CoinsEarned,
		id, userID, models.QuizInProgress,
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuizCompleted
	}
	return nil
}

// ── Attempt Ledger ──────────────────────────────────────

// UpsertAttempt records one (user, question) interaction. The partial
// unique indexes make retried writes update in place instead of
// duplicating rows.
func (s *Store) UpsertAttempt(userID int64, ref models.QuestionRef, sessionID *string, isCorrect bool, timeTaken float64) error {
	var err error
	if sessionID != nil {
		_, err = s.db.Exec(
			`INSERT INTO user_question_attempts
			 (user_id, content_id, sub_index, session_id, is_correct, time_taken_seconds, attempted_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 ON CONFLICT (user_id, content_id, sub_index, session_id) WHERE session_id IS NOT NULL
			 DO UPDATE SET is_correct = EXCLUDED.is_correct,
			               time_taken_seconds = EXCLUDED.time_taken_seconds,
			               attempted_at = NOW()`,
			userID, ref.ContentID, ref.SubIndex, *sessionID, isCorrect, timeTaken,
		)
	} else {
		_, err = s.db.Exec(
			`INSERT INTO user_question_attempts
			 (user_id, content_id, sub_index, session_id, is_correct, time_taken_seconds, attempted_at)
			 VALUES ($1, $2, $3, NULL, $4, $5, NOW())
			 ON CONFLICT (user_id, content_id, sub_index) WHERE session_id IS NULL
			 DO UPDATE SET is_correct = EXCLUDED.is_correct,
			               time_taken_seconds = EXCLUDED.time_taken_seconds,
			               attempted_at = NOW()`,
			userID, ref.ContentID, ref.SubIndex, isCorrect, timeTaken,
		)
	}
	if err != nil {
		return fmt.Errorf("upsert attempt: %w", err)
	}
	return nil
}

// AttemptedRefs returns every question the user has ever attempted,
// across all sessions and practice.
func (s *Store) AttemptedRefs(userID int64) (map[models.QuestionRef]bool, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT content_id, sub_index FROM user_question_attempts WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("attempted refs: %w", err)
	}
	defer rows.Close()

	attempted := make(map[models.QuestionRef]bool)
	for rows.Next() {
		var ref models.QuestionRef
		if err := rows.Scan(&ref.ContentID, &ref.SubIndex); err != nil {
			return nil, fmt.Errorf("scan attempted ref: %w", err)
		}
		attempted[ref] = true
	}
	return attempted, rows.Err()
}

// ── History & Stats ─────────────────────────────────────

func (s *Store) ListCompleted(userID int64, quizType *models.QuizType, limit int) ([]models.QuizHistoryEntry, error) {
	query := `SELECT id, quiz_type, jsonb_array_length(question_refs), correct_answers,
	                 accuracy, coins_earned, completed_at
	          FROM quiz_sessions WHERE user_id = $1 AND status = $2`
	args := []interface{}{userID, models.QuizCompleted}

	if quizType != nil {
		args = append(args, *quizType)
		query += fmt.Sprintf(" AND quiz_type = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY completed_at DESC LIMIT $%d", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}
	defer rows.Close()

	var entries []models.QuizHistoryEntry
	for rows.Next() {
		var e models.QuizHistoryEntry
		var completedAt sql.NullTime
		if err := rows.Scan(&e.SessionID, &e.QuizType, &e.TotalQuestions, &e.CorrectAnswers,
			&e.Accuracy, &e.CoinsEarned, &completedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if completedAt.Valid {
			e.CompletedAt = &completedAt.Time
		}
		e.Accuracy = Round2(e.Accuracy)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Stats(userID int64) (*models.QuizStatsResponse, error) {
	var stats models.QuizStatsResponse
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(jsonb_array_length(question_refs)), 0),
		        COALESCE(SUM(correct_answers), 0),
		        COALESCE(AVG(accuracy), 0),
		        COALESCE(MAX(accuracy), 0),
		        COALESCE(SUM(coins_earned), 0)
		 FROM quiz_sessions WHERE user_id = $1 AND status = $2`,
		userID, models.QuizCompleted,
	).Scan(&stats.TotalQuizzes, &stats.TotalQuestions, &stats.TotalCorrect,
		&stats.AverageAccuracy, &stats.BestAccuracy, &stats.TotalCoinsEarned)
	if err != nil {
		return nil, fmt.Errorf("quiz stats: %w", err)
	}
	stats.AverageAccuracy = Round2(stats.AverageAccuracy)
	stats.BestAccuracy = Round2(stats.BestAccuracy)

	recent, err := s.ListCompleted(userID, nil, 5)
	if err != nil {
		return nil, err
	}
	stats.Recent = recent

	// Accuracy trend over the last 10 completed sessions, oldest first
	rows, err := s.db.Query(
		`SELECT accuracy FROM (
		     SELECT accuracy, completed_at FROM quiz_sessions
		     WHERE user_id = $1 AND status = $2
		     ORDER BY completed_at DESC LIMIT 10
		 ) recent ORDER BY completed_at ASC`,
		userID, models.QuizCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("accuracy trend: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc float64
		if err := rows.Scan(&acc); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		stats.AccuracyTrend = append(stats.AccuracyTrend, Round2(acc))
	}
	return &stats, rows.Err()
}
