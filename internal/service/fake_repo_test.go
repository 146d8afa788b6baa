package service

import (
	"context"
	"errors"

	"cards_api/internal/models"
)

// fakeCardRepo is an in-memory repository.CardRepo. Load and Save copy the
// collection so callers never share maps with the stored state.
type fakeCardRepo struct {
	cards   []models.Card
	saveErr error

	loads int
	saves int
}

func newFakeCardRepo(cards ...models.Card) *fakeCardRepo {
	return &fakeCardRepo{cards: copyCards(cards)}
}

func (f *fakeCardRepo) Load(_ context.Context) []models.Card {
	f.loads++
	return copyCards(f.cards)
}

func (f *fakeCardRepo) Save(_ context.Context, cards []models.Card) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cards = copyCards(cards)
	return nil
}

func copyCards(in []models.Card) []models.Card {
	out := make([]models.Card, 0, len(in))
	for _, c := range in {
		out = append(out, c.Clone())
	}
	return out
}

var errDiskFull = errors.New("disk full")
