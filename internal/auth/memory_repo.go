package auth

import (
	"context"
	"sync"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(_ context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email]; taken {
		return &apperr.ConflictError{Message: "email taken"}
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return models.User{}, &apperr.NotFoundError{Resource: "user", ID: id.String()}
	}
	return u, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return models.User{}, &apperr.NotFoundError{Resource: "user", ID: email}
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) Update(_ context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[u.ID]
	if !ok {
		return &apperr.NotFoundError{Resource: "user", ID: u.ID.String()}
	}
	if u.Email != prev.Email {
		if _, taken := r.byEmail[u.Email]; taken {
			return &apperr.ConflictError{Message: "email taken"}
		}
		delete(r.byEmail, prev.Email)
		r.byEmail[u.Email] = u.ID
	}
	u.PasswordHash = prev.PasswordHash
	r.byID[u.ID] = u
	return nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return &apperr.NotFoundError{Resource: "user", ID: id.String()}
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	r.byID[id] = u
	return nil
}
