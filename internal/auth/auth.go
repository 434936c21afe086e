// Package auth handles account registration, login, and bearer-token
// verification for the history endpoints.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"reviewlens/internal/config"
	"reviewlens/internal/storage"
	"reviewlens/internal/types"
)

// Service issues and verifies HS256 tokens backed by the user store.
type Service struct {
	store  storage.Storage
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// New creates an auth service.
func New(store storage.Storage, cfg config.AuthConfig, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		logger: logger.With("component", "auth"),
		now:    time.Now,
	}
}

// Signup registers an account and returns a token for it.
func (s *Service) Signup(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email address")
	}
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("account created", "email", email)
	return s.issueToken(email)
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUser(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", types.ErrBadCredentials
	}
	return s.issueToken(user.Email)
}

// Verify parses a bearer token and returns the account email it was
// issued to.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", types.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", types.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", types.ErrUnauthorized
	}
	return sub, nil
}

func (s *Service) issueToken(email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):]), true
	}
	return "", false
}
