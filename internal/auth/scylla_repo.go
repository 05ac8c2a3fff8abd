package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// cqlRunner is the slice of a gocql session the repository uses.
type cqlRunner interface {
	exec(ctx context.Context, stmt string, args ...interface{}) error
	// cas runs a lightweight transaction and reports whether it was applied.
	cas(ctx context.Context, stmt string, args ...interface{}) (bool, error)
	scan(ctx context.Context, stmt string, args []interface{}, dest ...interface{}) error
}

type gocqlRunner struct {
	session *gocql.Session
}

func (g gocqlRunner) exec(ctx context.Context, stmt string, args ...interface{}) error {
	return g.session.Query(stmt, args...).WithContext(ctx).Exec()
}

func (g gocqlRunner) cas(ctx context.Context, stmt string, args ...interface{}) (bool, error) {
	existing := map[string]interface{}{}
	return g.session.Query(stmt, args...).WithContext(ctx).MapScanCAS(existing)
}

func (g gocqlRunner) scan(ctx context.Context, stmt string, args []interface{}, dest ...interface{}) error {
	return g.session.Query(stmt, args...).WithContext(ctx).Scan(dest...)
}

// ScyllaRepository stores users in `users` and enforces unique emails through
// the `users_by_email` lookup table with lightweight transactions.
type ScyllaRepository struct {
	db cqlRunner
}

func NewScyllaRepository(session *gocql.Session) *ScyllaRepository {
	return &ScyllaRepository{db: gocqlRunner{session: session}}
}

const (
	cqlClaimEmail   = `INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`
	cqlReleaseEmail = `DELETE FROM users_by_email WHERE email = ? IF user_id = ?`
	cqlDropEmail    = `DELETE FROM users_by_email WHERE email = ?`
	cqlInsertUser   = `INSERT INTO users (user_id, name, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	cqlSelectUser   = `SELECT name, email, password, created_at, updated_at FROM users WHERE user_id = ?`
	cqlSelectEmail  = `SELECT user_id FROM users_by_email WHERE email = ?`
	cqlUpdateUser   = `UPDATE users SET name = ?, email = ?, updated_at = ? WHERE user_id = ?`
	cqlUpdatePass   = `UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?`
)

func (r *ScyllaRepository) claimEmail(ctx context.Context, email string, id uuid.UUID) error {
	applied, err := r.db.cas(ctx, cqlClaimEmail, email, gocql.UUID(id))
	if err != nil {
		return fmt.Errorf("claim email: %w", err)
	}
	if !applied {
		return &apperr.ConflictError{Message: "email taken"}
	}
	return nil
}

// releaseEmail frees a claim made by claimEmail so the user can retry. It only
// removes the row while it still points at id.
func (r *ScyllaRepository) releaseEmail(ctx context.Context, email string, id uuid.UUID) {
	_, _ = r.db.cas(ctx, cqlReleaseEmail, email, gocql.UUID(id))
}

func (r *ScyllaRepository) Create(ctx context.Context, u models.User) error {
	if err := r.claimEmail(ctx, u.Email, u.ID); err != nil {
		return err
	}

	err := r.db.exec(ctx, cqlInsertUser,
		gocql.UUID(u.ID), u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		r.releaseEmail(ctx, u.Email, u.ID)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *ScyllaRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	u := models.User{ID: id}
	err := r.db.scan(ctx, cqlSelectUser, []interface{}{gocql.UUID(id)},
		&u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.User{}, &apperr.NotFoundError{Resource: "user", ID: id.String()}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (r *ScyllaRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var id gocql.UUID
	err := r.db.scan(ctx, cqlSelectEmail, []interface{}{email}, &id)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.User{}, &apperr.NotFoundError{Resource: "user", ID: email}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return r.GetByID(ctx, uuid.UUID(id))
}

func (r *ScyllaRepository) Update(ctx context.Context, u models.User) error {
	prev, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}

	emailChanged := u.Email != prev.Email
	if emailChanged {
		if err := r.claimEmail(ctx, u.Email, u.ID); err != nil {
			return err
		}
	}

	if err := r.db.exec(ctx, cqlUpdateUser, u.Name, u.Email, u.UpdatedAt, gocql.UUID(u.ID)); err != nil {
		if emailChanged {
			r.releaseEmail(ctx, u.Email, u.ID)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if emailChanged {
		if err := r.db.exec(ctx, cqlDropEmail, prev.Email); err != nil {
			return fmt.Errorf("release old email: %w", err)
		}
	}
	return nil
}

func (r *ScyllaRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	if err := r.db.exec(ctx, cqlUpdatePass, hash, at, gocql.UUID(id)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
