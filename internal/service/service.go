package service

import (
	"context"
	"fmt"

	"cards_api/internal/models"
	"cards_api/internal/repository"
)

// Authorization exchanges credentials for tokens and verifies them.
type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Cards runs mutations as full load-mutate-save cycles over the collection.
type Cards interface {
	Create(ctx context.Context, fields models.Card) (models.Card, error)
	Update(ctx context.Context, id string, patch models.Card) (models.Card, error)
	Delete(ctx context.Context, id string) (models.Card, error)
	Count(ctx context.Context) int
}

// Query is read-only access to a freshly loaded collection.
type Query interface {
	List(ctx context.Context, f CardFilter) []models.Card
	Distinct(ctx context.Context, field string) []string
	Random(ctx context.Context) (models.Card, error)
}

// CardFilter holds optional exact-match filters. Empty fields impose no constraint.
type CardFilter struct {
	Set    string
	Type   string
	Rarity string
}

type Service struct {
	Authorization
	Cards
	Query
}

// NewService wires repositories into the concrete services. It fails when
// the signing key is empty.
func NewService(repos *repository.Repository, signingKey string) (*Service, error) {
	auth, err := NewAuthService(repos.Users, signingKey)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}
	return &Service{
		Authorization: auth,
		Cards:         NewCardService(repos.Cards),
		Query:         NewQueryService(repos.Cards),
	}, nil
}
