package storage

import (
	"context"

	"SneakerShopBot/internal/model"

	"github.com/jmoiron/sqlx"
)

type UsersStore struct {
	db *sqlx.DB
}

// Register stores the user on first contact. Known users are left untouched.
func (s *UsersStore) Register(ctx context.Context, user model.User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `INSERT INTO users (user_id, username) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, user.UserId, user.Username)
	return err
}

func (s *UsersStore) Exists(ctx context.Context, userId int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	err := s.db.GetContext(ctx, &count, "SELECT count(*) FROM users WHERE user_id = $1", userId)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
