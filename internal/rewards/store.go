package rewards

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

// Credit adds coins to a user's wallet, creating the profile row if
// registration somehow didn't.
func (s *Store) Credit(userID int64, amount int) error {
	_, err := s.db.Exec(
		`INSERT INTO user_profiles (user_id, coins, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id)
		 DO UPDATE SET coins = user_profiles.coins + EXCLUDED.coins, updated_at = NOW()`,
		userID, amount,
	)
	if err != nil {
		return fmt.Errorf("credit coins: %w", err)
	}
	return nil
}

// Profile loads the user's reward state. A user without a profile row
// yet reads as an empty wallet.
func (s *Store) Profile(userID int64) (*models.UserProfile, error) {
	profile := models.UserProfile{UserID: userID}
	err := s.db.QueryRow(
		`SELECT coins, updated_at FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.Coins, &profile.UpdatedAt)
	if err == sql.ErrNoRows {
		return &profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}
