package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopsmith/storefront/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// memoryUserRepository keeps accounts for the lifetime of the process.
// There is no server-side user persistence in this system; the account
// store only exists to gate checkout behind a login.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func NewMemoryUserRepo() UserRepository {
	return &memoryUserRepository{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()

	stored := *user
	key := normalizeEmail(user.Email)
	r.byEmail[key] = &stored
	r.byID[user.ID] = &stored

	return nil
}

func (r *memoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *user

	return &copied, nil
}

func (r *memoryUserRepository) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *user

	return &copied, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
