package service

import (
	"context"
	"math/rand"

	"cards_api/internal/models"
	"cards_api/internal/repository"
)

// QueryService answers read-only questions about the collection.
type QueryService struct {
	repo repository.CardRepo
	intn func(n int) int
}

func NewQueryService(repo repository.CardRepo) *QueryService {
	return &QueryService{repo: repo, intn: rand.Intn}
}

// List returns the cards matching every non-empty filter, in storage order.
func (s *QueryService) List(ctx context.Context, f CardFilter) []models.Card {
	cards := s.repo.Load(ctx)
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if matches(c, models.FieldSet, f.Set) &&
			matches(c, models.FieldType, f.Type) &&
			matches(c, models.FieldRarity, f.Rarity) {
			out = append(out, c)
		}
	}
	return out
}

// Distinct returns the string values of field in first-occurrence order.
// Cards missing the field or holding a non-string value are skipped.
func (s *QueryService) Distinct(ctx context.Context, field string) []string {
	cards := s.repo.Load(ctx)
	seen := make(map[string]struct{}, len(cards))
	out := make([]string, 0)
	for _, c := range cards {
		v, ok := c.String(field)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Random picks one card uniformly. An empty collection yields ErrNoCards.
func (s *QueryService) Random(ctx context.Context) (models.Card, error) {
	cards := s.repo.Load(ctx)
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards[s.intn(len(cards))], nil
}

func matches(c models.Card, field, want string) bool {
	if want == "" {
		return true
	}
	got, ok := c.String(field)
	return ok && got == want
}
