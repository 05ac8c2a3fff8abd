package auth

import (
	"strings"
	"unicode/utf8"

	"jaggery_back_end/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength counts characters, not bytes.
const MinPasswordLength = 8

var validate = validator.New()

// rule is a single check; the first failing rule's message is returned to the client.
type rule struct {
	field   string
	message string
	ok      func() bool
}

func firstFailure(rules ...rule) error {
	for _, r := range rules {
		if !r.ok() {
			return apperr.Validation(r.field, r.message)
		}
	}
	return nil
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func notBlank(s string) bool { return strings.TrimSpace(s) != "" }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

type SignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (in SignupInput) Validate() error {
	return firstFailure(
		rule{"name", "Name is required", func() bool { return notBlank(in.Name) }},
		rule{"email", "Valid email is required", func() bool { return isEmail(strings.TrimSpace(in.Email)) }},
		rule{"password", "Password must be at least 8 characters", func() bool { return utf8.RuneCountInString(in.Password) >= MinPasswordLength }},
		rule{"confirmPassword", "Passwords do not match", func() bool { return in.ConfirmPassword == in.Password }},
	)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return firstFailure(
		rule{"email", "Valid email is required", func() bool { return isEmail(strings.TrimSpace(in.Email)) }},
		rule{"password", "Password is required", func() bool { return in.Password != "" }},
	)
}

// ProfileUpdate carries optional fields; nil means unchanged.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (in ProfileUpdate) Validate() error {
	return firstFailure(
		rule{"name", "Name cannot be empty", func() bool { return in.Name == nil || notBlank(*in.Name) }},
		rule{"email", "Valid email is required", func() bool { return in.Email == nil || isEmail(strings.TrimSpace(*in.Email)) }},
	)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	// ConfirmPassword is optional; when sent it must match NewPassword.
	ConfirmPassword string `json:"confirmPassword"`
}

func (in ChangePasswordInput) Validate() error {
	return firstFailure(
		rule{"currentPassword", "Current password is required", func() bool { return in.CurrentPassword != "" }},
		rule{"newPassword", "New password must be at least 8 characters", func() bool { return utf8.RuneCountInString(in.NewPassword) >= MinPasswordLength }},
		rule{"confirmPassword", "Passwords do not match", func() bool {
			return in.ConfirmPassword == "" || in.ConfirmPassword == in.NewPassword
		}},
	)
}
