package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService guards the mutating routes with a single admin password.
// A zero AuthService, or one built without a secret or hash, is disabled.
type AuthService struct {
	secret       []byte
	passwordHash []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(jwtSecret, passwordHash string) *AuthService {
	return &AuthService{
		secret:       []byte(jwtSecret),
		passwordHash: []byte(passwordHash),
		ttl:          24 * time.Hour,
		now:          time.Now,
	}
}

func (s *AuthService) Enabled() bool {
	return s != nil && len(s.secret) > 0 && len(s.passwordHash) > 0
}

// IssueToken returns a signed admin token if password matches the configured
// bcrypt hash.
func (s *AuthService) IssueToken(password string) (string, error) {
	if !s.Enabled() {
		return "", newError(KindBadRequest, "issue token", errors.New("auth is disabled"))
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", newError(KindInvalid, "issue token", ErrInvalidCredentials)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithSubject(adminSubject),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return nil
}
