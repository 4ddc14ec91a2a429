// Package auth handles email/password accounts and JWT session tokens.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL keeps a signed-in session alive for 30 days before the app
// falls back to the session-lost screen.
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
)

// Claims carries the user id alongside the registered JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// Service creates accounts and issues/verifies session tokens against the
// users table.
type Service struct {
	db       *sql.DB
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	newID    func() string
}

// NewService wires an auth service over the database.
func NewService(db *sql.DB, secret []byte) *Service {
	return &Service{
		db:       db,
		secret:   secret,
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SignUp creates an account and returns the user id with a fresh session
// token. Emails are stored lowercased.
func (s *Service) SignUp(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists > 0 {
		return "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := s.newID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		userID, email, string(hash), s.now().UTC())
	if err != nil {
		return "", "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(userID)
	if err != nil {
		return "", "", err
	}
	return userID, token, nil
}

// SignIn verifies the password and returns the user id with a fresh session
// token. A missing account and a wrong password look identical to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var userID, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email = ?`, email).Scan(&userID, &hash)
	if err == sql.ErrNoRows {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.issueToken(userID)
	if err != nil {
		return "", "", err
	}
	return userID, token, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the user id for a valid, unexpired session token.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
