package ports

import (
	"context"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/google/uuid"
)

// UserDirectory resolves identities.
type UserDirectory interface {
	// User returns the user or domain.ErrNotFound.
	User(ctx context.Context, id int64) (domain.User, error)

	// Authenticate returns the owner of key. Unknown keys and inactive owners
	// yield domain.ErrUnauthorized.
	Authenticate(ctx context.Context, key uuid.UUID) (domain.User, error)

	CreateUser(ctx context.Context, username string) (domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	IssueAPIKey(ctx context.Context, userID int64, name string) (domain.APIKey, error)
}
