package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "studymitra_user")
	password := getEnv("DB_PASSWORD", "studymitra_password")
	dbname := getEnv("DB_NAME", "studymitra")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS user_profiles (
		user_id    BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		coins      BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS chapters (
		id         BIGSERIAL PRIMARY KEY,
		subject    VARCHAR(100) NOT NULL DEFAULT 'general',
		name       VARCHAR(255) NOT NULL,
		position   INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS topics (
		id         BIGSERIAL PRIMARY KEY,
		chapter_id BIGINT NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
		name       VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(chapter_id, name)
	);

	CREATE TABLE IF NOT EXISTS content_items (
		id           UUID PRIMARY KEY,
		chapter_id   BIGINT REFERENCES chapters(id),
		topic        VARCHAR(255) NOT NULL DEFAULT '',
		content_type VARCHAR(50) NOT NULL,
		questions    JSONB NOT NULL,
		model_used   VARCHAR(100),
		created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_content_type ON content_items(content_type);
	CREATE INDEX IF NOT EXISTS idx_content_chapter ON content_items(chapter_id, topic);

	CREATE TABLE IF NOT EXISTS quiz_sessions (
		id                 UUID PRIMARY KEY,
		user_id            BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		quiz_type          VARCHAR(20) NOT NULL,
		question_refs      JSONB NOT NULL,
		current_index      INT NOT NULL DEFAULT 0,
		answers            JSONB NOT NULL DEFAULT '[]',
		status             VARCHAR(20) NOT NULL DEFAULT 'in_progress',
		current_difficulty VARCHAR(20),
		time_limit_minutes INT NOT NULL,
		started_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		completed_at       TIMESTAMP WITH TIME ZONE,
		correct_answers    INT NOT NULL DEFAULT 0,
		accuracy           DOUBLE PRECISION NOT NULL DEFAULT 0,
		time_spent_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
		coins_earned       INT NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON quiz_sessions(user_id, started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_user_status ON quiz_sessions(user_id, status);

	CREATE TABLE IF NOT EXISTS user_question_attempts (
		id                 BIGSERIAL PRIMARY KEY,
		user_id            BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content_id         UUID NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
		sub_index          INT NOT NULL DEFAULT 0,
		session_id         UUID REFERENCES quiz_sessions(id) ON DELETE CASCADE,
		is_correct         BOOLEAN NOT NULL,
		time_taken_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		attempted_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_session_key
		ON user_question_attempts(user_id, content_id, sub_index, session_id)
		WHERE session_id IS NOT NULL;
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_practice_key
		ON user_question_attempts(user_id, content_id, sub_index)
		WHERE session_id IS NULL;
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Idempotent column additions for databases created before this migration
	alterStatements := []string{
		`ALTER TABLE content_items ADD COLUMN IF NOT EXISTS model_used VARCHAR(100)`,
		`ALTER TABLE quiz_sessions ADD COLUMN IF NOT EXISTS current_difficulty VARCHAR(20)`,
		`ALTER TABLE quiz_sessions ADD COLUMN IF NOT EXISTS coins_earned INT NOT NULL DEFAULT 0`,
		`ALTER TABLE user_question_attempts ADD COLUMN IF NOT EXISTS sub_index INT NOT NULL DEFAULT 0`,
		`ALTER TABLE user_question_attempts ADD COLUMN IF NOT EXISTS time_taken_seconds DOUBLE PRECISION NOT NULL DEFAULT 0`,
	}

	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	// Indexes on columns added above (must run after ALTER TABLE)
	newIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_attempts_user ON user_question_attempts(user_id, attempted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_content ON user_question_attempts(user_id, content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON user_question_attempts(session_id) WHERE session_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_topics_chapter ON topics(chapter_id)`,
	}
	for _, stmt := range newIndexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
