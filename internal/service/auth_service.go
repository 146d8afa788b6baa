package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cards_api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues and verifies HS256 tokens for registered users.
//
// Tokens carry no expiry and cannot be revoked; they stay valid until the
// signing key changes.
type AuthService struct {
	users      repository.Credentials
	signingKey []byte
	now        func() time.Time
}

func NewAuthService(users repository.Credentials, signingKey string) (*AuthService, error) {
	if strings.TrimSpace(signingKey) == "" {
		return nil, ErrEmptySigningKey
	}
	return &AuthService{users: users, signingKey: []byte(signingKey), now: time.Now}, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken checks the credentials and returns a signed token for the user.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	u, ok := s.users.FindUser(username, password)
	if !ok {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(u.Username)
}

// ParseToken verifies the signature and returns the username the token asserts.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	if accessToken == "" {
		return "", ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

func (s *AuthService) issueToken(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
		Username: username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
