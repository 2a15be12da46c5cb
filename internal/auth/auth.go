// Package auth implements the single-account login and the bearer tokens it
// issues.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Config struct {
	Username string
	Password string
	Secret   string
	TokenTTL time.Duration
}

type Service struct {
	cfg Config
	now func() time.Time
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, now: time.Now}
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Login checks the credentials and issues a signed token for the user.
func (s *Service) Login(username, password string) (*Token, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1

	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	return s.Issue(username)
}

func (s *Service) Issue(subject string) (*Token, error) {
	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Token{Value: signed, ExpiresAt: expires}, nil
}

// Verify parses a token and returns its subject.
func (s *Service) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims.Subject, nil
}
