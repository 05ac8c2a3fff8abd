package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCQL answers the repository's statements from two maps. failOn makes
// exec fail for one statement.
type fakeCQL struct {
	users  map[gocql.UUID]models.User
	emails map[string]gocql.UUID
	failOn map[string]error
}

func newFakeCQL() *fakeCQL {
	return &fakeCQL{
		users:  map[gocql.UUID]models.User{},
		emails: map[string]gocql.UUID{},
		failOn: map[string]error{},
	}
}

func (f *fakeCQL) exec(_ context.Context, stmt string, args ...interface{}) error {
	if err := f.failOn[stmt]; err != nil {
		return err
	}
	switch stmt {
	case cqlInsertUser:
		id := args[0].(gocql.UUID)
		f.users[id] = models.User{
			ID: uuid.UUID(id), Name: args[1].(string), Email: args[2].(string), PasswordHash: args[3].(string),
			CreatedAt: args[4].(time.Time), UpdatedAt: args[5].(time.Time),
		}
	case cqlUpdateUser:
		id := args[3].(gocql.UUID)
		u := f.users[id]
		u.Name, u.Email, u.UpdatedAt = args[0].(string), args[1].(string), args[2].(time.Time)
		f.users[id] = u
	case cqlDropEmail:
		delete(f.emails, args[0].(string))
	case cqlUpdatePass:
		id := args[2].(gocql.UUID)
		u := f.users[id]
		u.PasswordHash, u.UpdatedAt = args[0].(string), args[1].(time.Time)
		f.users[id] = u
	}
	return nil
}

func (f *fakeCQL) cas(_ context.Context, stmt string, args ...interface{}) (bool, error) {
	email, id := args[0].(string), args[1].(gocql.UUID)
	switch stmt {
	case cqlClaimEmail:
		if _, taken := f.emails[email]; taken {
			return false, nil
		}
		f.emails[email] = id
		return true, nil
	case cqlReleaseEmail:
		if f.emails[email] != id {
			return false, nil
		}
		delete(f.emails, email)
		return true, nil
	}
	return false, errors.New("unexpected statement")
}

func (f *fakeCQL) scan(_ context.Context, stmt string, args []interface{}, dest ...interface{}) error {
	switch stmt {
	case cqlSelectEmail:
		id, ok := f.emails[args[0].(string)]
		if !ok {
			return gocql.ErrNotFound
		}
		*dest[0].(*gocql.UUID) = id
	case cqlSelectUser:
		u, ok := f.users[args[0].(gocql.UUID)]
		if !ok {
			return gocql.ErrNotFound
		}
		*dest[0].(*string) = u.Name
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(*time.Time) = u.CreatedAt
		*dest[4].(*time.Time) = u.UpdatedAt
	}
	return nil
}

func newScyllaUser(t *testing.T, repo *ScyllaRepository, email string) models.User {
	t.Helper()
	now := time.Now().UTC()
	u := models.User{ID: uuid.New(), Name: "Meera", Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestScyllaRepositoryCreateAndLookup(t *testing.T) {
	db := newFakeCQL()
	repo := &ScyllaRepository{db: db}
	ctx := context.Background()
	u := newScyllaUser(t, repo, "meera@example.in")

	got, err := repo.GetByEmail(ctx, "meera@example.in")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = repo.Create(ctx, models.User{ID: uuid.New(), Email: "meera@example.in"})
	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = repo.GetByEmail(ctx, "nobody@example.in")
	assert.Equal(t, 404, apperr.Status(err))
}

func TestScyllaRepositoryCreateReleasesEmailOnFailure(t *testing.T) {
	db := newFakeCQL()
	repo := &ScyllaRepository{db: db}
	db.failOn[cqlInsertUser] = errors.New("write timeout")

	err := repo.Create(context.Background(), models.User{ID: uuid.New(), Email: "meera@example.in"})
	require.Error(t, err)
	assert.NotContains(t, db.emails, "meera@example.in")
}

func TestScyllaRepositoryUpdateReleasesNewEmailOnFailure(t *testing.T) {
	db := newFakeCQL()
	repo := &ScyllaRepository{db: db}
	u := newScyllaUser(t, repo, "meera@example.in")

	db.failOn[cqlUpdateUser] = errors.New("write timeout")
	u.Email = "meera.k@example.in"
	require.Error(t, repo.Update(context.Background(), u))

	assert.NotContains(t, db.emails, "meera.k@example.in")
	assert.Equal(t, gocql.UUID(u.ID), db.emails["meera@example.in"])

	delete(db.failOn, cqlUpdateUser)
	require.NoError(t, repo.Update(context.Background(), u))
	assert.Equal(t, gocql.UUID(u.ID), db.emails["meera.k@example.in"])
	assert.NotContains(t, db.emails, "meera@example.in")
}

func TestScyllaRepositoryUpdatePassword(t *testing.T) {
	db := newFakeCQL()
	repo := &ScyllaRepository{db: db}
	u := newScyllaUser(t, repo, "meera@example.in")

	require.NoError(t, repo.UpdatePassword(context.Background(), u.ID, "new-hash", time.Now().UTC()))
	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}
