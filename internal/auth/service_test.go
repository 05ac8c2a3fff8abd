package auth

import (
	"context"
	"testing"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"
	"jaggery_back_end/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, utils.NewTokenIssuer("test-secret", time.Hour), zap.NewNop()), repo
}

func signup(t *testing.T, s *Service, email string) models.User {
	t.Helper()
	u, err := s.Signup(context.Background(), SignupInput{
		Name: "Meera", Email: email, Password: "jaggery123", ConfirmPassword: "jaggery123",
	})
	require.NoError(t, err)
	return u
}

func TestSignupValidation(t *testing.T) {
	s, _ := newTestService()
	cases := []struct {
		name string
		in   SignupInput
		want string
	}{
		{"missing name", SignupInput{Email: "a@b.in", Password: "12345678", ConfirmPassword: "12345678"}, "Name is required"},
		{"bad email", SignupInput{Name: "A", Email: "nope", Password: "12345678", ConfirmPassword: "12345678"}, "Valid email is required"},
		{"short password", SignupInput{Name: "A", Email: "a@b.in", Password: "short", ConfirmPassword: "short"}, "Password must be at least 8 characters"},
		{"short multibyte password", SignupInput{Name: "A", Email: "a@b.in", Password: "éééé", ConfirmPassword: "éééé"}, "Password must be at least 8 characters"},
		{"mismatch", SignupInput{Name: "A", Email: "a@b.in", Password: "12345678", ConfirmPassword: "87654321"}, "Passwords do not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Signup(context.Background(), tc.in)
			require.Error(t, err)
			assert.Equal(t, 400, apperr.Status(err))
			assert.Equal(t, tc.want, apperr.Message(err))
		})
	}
}

func TestSignupStoresNormalizedEmailAndHash(t *testing.T) {
	s, repo := newTestService()
	u := signup(t, s, "  Meera@Example.IN ")

	assert.Equal(t, "meera@example.in", u.Email)
	stored, err := repo.GetByEmail(context.Background(), "meera@example.in")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
	assert.NotEqual(t, "jaggery123", stored.PasswordHash)
	assert.True(t, utils.IsArgon2Hash(stored.PasswordHash))
}

func TestSignupDuplicateEmail(t *testing.T) {
	s, _ := newTestService()
	signup(t, s, "meera@example.in")

	_, err := s.Signup(context.Background(), SignupInput{
		Name: "Other", Email: "MEERA@example.in", Password: "another123", ConfirmPassword: "another123",
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperr.Status(err))
	assert.Equal(t, "User already exists", apperr.Message(err))
}

func TestLogin(t *testing.T) {
	s, _ := newTestService()
	u := signup(t, s, "meera@example.in")

	token, got, err := s.Login(context.Background(), LoginInput{Email: "Meera@example.in", Password: "jaggery123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := s.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)

	for _, in := range []LoginInput{
		{Email: "meera@example.in", Password: "wrong-password"},
		{Email: "nobody@example.in", Password: "jaggery123"},
	} {
		_, _, err := s.Login(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, 401, apperr.Status(err))
		assert.Equal(t, "Invalid email or password", apperr.Message(err))
	}
}

func TestLoginAcceptsBcryptHash(t *testing.T) {
	s, repo := newTestService()
	raw, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, repo.Create(context.Background(), models.User{
		ID: id, Name: "Old", Email: "old@example.in", PasswordHash: string(raw),
	}))

	_, u, err := s.Login(context.Background(), LoginInput{Email: "old@example.in", Password: "legacy-pass"})
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newTestService()
	u := signup(t, s, "meera@example.in")
	other := signup(t, s, "ravi@example.in")
	ctx := context.Background()

	name := "Meera K"
	updated, err := s.UpdateProfile(ctx, u.ID.String(), ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Meera K", updated.Name)
	assert.Equal(t, "meera@example.in", updated.Email)

	taken := other.Email
	_, err = s.UpdateProfile(ctx, u.ID.String(), ProfileUpdate{Email: &taken})
	assert.Equal(t, 409, apperr.Status(err))

	fresh := "Meera.K@Example.in"
	updated, err = s.UpdateProfile(ctx, u.ID.String(), ProfileUpdate{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "meera.k@example.in", updated.Email)

	_, _, err = s.Login(ctx, LoginInput{Email: "meera.k@example.in", Password: "jaggery123"})
	assert.NoError(t, err, "password survives profile update")

	blank := "  "
	_, err = s.UpdateProfile(ctx, u.ID.String(), ProfileUpdate{Name: &blank})
	assert.Equal(t, 400, apperr.Status(err))
}

func TestProfileUnknownUser(t *testing.T) {
	s, _ := newTestService()
	_, err := s.Profile(context.Background(), uuid.NewString())
	assert.Equal(t, 404, apperr.Status(err))

	_, err = s.Profile(context.Background(), "not-a-uuid")
	assert.Equal(t, 401, apperr.Status(err))
}

func TestChangePassword(t *testing.T) {
	s, _ := newTestService()
	u := signup(t, s, "meera@example.in")
	ctx := context.Background()

	err := s.ChangePassword(ctx, u.ID.String(), ChangePasswordInput{CurrentPassword: "wrong-one", NewPassword: "newsecret1"})
	assert.Equal(t, 401, apperr.Status(err))
	assert.Equal(t, "Current password is incorrect", apperr.Message(err))

	err = s.ChangePassword(ctx, u.ID.String(), ChangePasswordInput{CurrentPassword: "jaggery123", NewPassword: "short"})
	assert.Equal(t, 400, apperr.Status(err))

	err = s.ChangePassword(ctx, u.ID.String(), ChangePasswordInput{CurrentPassword: "jaggery123", NewPassword: "ñññññ"})
	assert.Equal(t, "New password must be at least 8 characters", apperr.Message(err))

	err = s.ChangePassword(ctx, u.ID.String(), ChangePasswordInput{
		CurrentPassword: "jaggery123", NewPassword: "newsecret1", ConfirmPassword: "different1",
	})
	assert.Equal(t, "Passwords do not match", apperr.Message(err))

	require.NoError(t, s.ChangePassword(ctx, u.ID.String(), ChangePasswordInput{
		CurrentPassword: "jaggery123", NewPassword: "newsecret1",
	}))

	_, _, err = s.Login(ctx, LoginInput{Email: "meera@example.in", Password: "jaggery123"})
	assert.Error(t, err)
	_, _, err = s.Login(ctx, LoginInput{Email: "meera@example.in", Password: "newsecret1"})
	assert.NoError(t, err)
}

func TestSignupCountsPasswordCharacters(t *testing.T) {
	s, _ := newTestService()
	_, err := s.Signup(context.Background(), SignupInput{
		Name: "Meera", Email: "meera@example.in", Password: "गुड़गुड़गुड़", ConfirmPassword: "गुड़गुड़गुड़",
	})
	require.NoError(t, err)
}
