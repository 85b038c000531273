package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/google/uuid"
)

// Users implements ports.UserDirectory in memory.
type Users struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
	keys   map[uuid.UUID]domain.APIKey
}

// NewUsers creates an empty user directory.
func NewUsers() *Users {
	return &Users{
		users: make(map[int64]domain.User),
		keys:  make(map[uuid.UUID]domain.APIKey),
	}
}

func (u *Users) User(ctx context.Context, id int64) (domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (u *Users) Authenticate(ctx context.Context, key uuid.UUID) (domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	k, ok := u.keys[key]
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	user, ok := u.users[k.UserID]
	if !ok || !user.Active {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

func (u *Users) CreateUser(ctx context.Context, username string) (domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if existing.Username == username {
			return domain.User{}, fmt.Errorf("username %q is taken", username)
		}
	}
	u.nextID++
	user := domain.User{ID: u.nextID, Username: username, Active: true}
	u.users[user.ID] = user
	return user, nil
}

func (u *Users) SetActive(ctx context.Context, id int64, active bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Active = active
	u.users[id] = user
	return nil
}

func (u *Users) IssueAPIKey(ctx context.Context, userID int64, name string) (domain.APIKey, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[userID]; !ok {
		return domain.APIKey{}, domain.ErrNotFound
	}
	key := domain.APIKey{Key: uuid.New(), UserID: userID, Name: name, CreatedAt: time.Now().UTC()}
	u.keys[key.Key] = key
	return key, nil
}
