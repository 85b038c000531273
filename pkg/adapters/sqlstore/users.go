package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/google/uuid"
)

// Users implements ports.UserDirectory.
type Users struct {
	db *DB
}

func (u *Users) User(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	err := u.db.conn.GetContext(ctx, &user, u.db.rebind(`SELECT id, username, active FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Authenticate resolves an API key to its active owner.
func (u *Users) Authenticate(ctx context.Context, key uuid.UUID) (domain.User, error) {
	var user domain.User
	query := u.db.rebind(`SELECT u.id, u.username, u.active FROM api_keys k JOIN users u ON u.id = k.user_id WHERE k.api_key = ?`)
	err := u.db.conn.GetContext(ctx, &user, query, key.String())
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to authenticate: %w", err)
	}
	if !user.Active {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

func (u *Users) CreateUser(ctx context.Context, username string) (domain.User, error) {
	user := domain.User{Username: username, Active: true}
	query := u.db.rebind(`INSERT INTO users (username, active) VALUES (?, ?) RETURNING id`)
	if err := u.db.conn.QueryRowxContext(ctx, query, username, true).Scan(&user.ID); err != nil {
		return domain.User{}, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	return user, nil
}

func (u *Users) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := u.db.conn.ExecContext(ctx, u.db.rebind(`UPDATE users SET active = ? WHERE id = ?`), active, id)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (u *Users) IssueAPIKey(ctx context.Context, userID int64, name string) (domain.APIKey, error) {
	if _, err := u.User(ctx, userID); err != nil {
		return domain.APIKey{}, err
	}

	key := domain.APIKey{Key: uuid.New(), UserID: userID, Name: name, CreatedAt: time.Now().UTC()}
	query := u.db.rebind(`INSERT INTO api_keys (api_key, user_id, name, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := u.db.conn.ExecContext(ctx, query, key.Key.String(), key.UserID, key.Name, key.CreatedAt); err != nil {
		return domain.APIKey{}, fmt.Errorf("failed to issue api key: %w", err)
	}
	return key, nil
}
