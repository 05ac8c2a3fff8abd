package utils

import (
	"errors"
	"fmt"
	"time"

	"jaggery_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenClaims struct {
	UserID string
	Email  string
}

// ErrNoSigningSecret is returned by Generate and Parse when the issuer has an empty secret.
var ErrNoSigningSecret = errors.New("jwt signing secret is empty")

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Generate(user models.User) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrNoSigningSecret
	}
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iat":     t.now().Unix(),
		"exp":     t.now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenString string) (TokenClaims, error) {
	if len(t.secret) == 0 {
		return TokenClaims{}, ErrNoSigningSecret
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, errors.New("invalid claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return TokenClaims{}, errors.New("user_id missing")
	}
	email, _ := claims["email"].(string)
	return TokenClaims{UserID: userID, Email: email}, nil
}
