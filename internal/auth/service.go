package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"
	"jaggery_back_end/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRepository persists users. Emails are stored lowercased and are unique.
type UserRepository interface {
	Create(ctx context.Context, u models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
}

var (
	errBadCredentials  = &apperr.AuthError{Message: "Invalid email or password"}
	errWrongCurrent    = &apperr.AuthError{Message: "Current password is incorrect"}
	errUserExists      = &apperr.ConflictError{Message: "User already exists"}
	errEmailInUse      = &apperr.ConflictError{Message: "Email already in use"}
	errInvalidIdentity = &apperr.AuthError{Message: "Not authorized, token failed"}
)

type Service struct {
	repo   UserRepository
	tokens *utils.TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo UserRepository, tokens *utils.TokenIssuer, logger *zap.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var conflict *apperr.ConflictError
		if errors.As(err, &conflict) {
			return models.User{}, errUserExists
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("✅ user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login returns a bearer token for valid credentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, models.User, error) {
	if err := in.Validate(); err != nil {
		return "", models.User{}, err
	}

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return "", models.User{}, errBadCredentials
		}
		return "", models.User{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := utils.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("⚠️ unreadable password hash", zap.String("user_id", user.ID.String()), zap.Error(err))
		return "", models.User{}, errBadCredentials
	}
	if !ok {
		return "", models.User{}, errBadCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return models.User{}, errInvalidIdentity
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		var conflict *apperr.ConflictError
		if errors.As(err, &conflict) {
			return models.User{}, errEmailInUse
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := utils.VerifyPassword(in.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		return errWrongCurrent
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash, s.now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("🔑 password changed", zap.String("user_id", user.ID.String()))
	return nil
}
