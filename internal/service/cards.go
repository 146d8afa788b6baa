package service

import (
	"context"
	"fmt"
	"sync"

	"cards_api/internal/models"
	"cards_api/internal/repository"
)

// CardService owns every write to the card collection. Each call loads the
// whole collection, mutates it in memory and saves it back. Mutations are
// serialised within the process so concurrent writers cannot lose updates.
type CardService struct {
	repo repository.CardRepo
	mu   sync.Mutex
}

func NewCardService(repo repository.CardRepo) *CardService {
	return &CardService{repo: repo}
}

// Create stores fields as a new card under the next free id. Any id in
// fields is ignored.
func (s *CardService) Create(ctx context.Context, fields models.Card) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.repo.Load(ctx)

	card := fields.Clone()
	card.SetID(nextID(cards))
	cards = append(cards, card)

	if err := s.repo.Save(ctx, cards); err != nil {
		return nil, fmt.Errorf("save after create: %w", err)
	}
	return card, nil
}

// Update merges patch over the first card whose id equals id. Fields absent
// from patch are kept; the id itself cannot be changed.
func (s *CardService) Update(ctx context.Context, id string, patch models.Card) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.repo.Load(ctx)
	i := indexOf(cards, id)
	if i < 0 {
		return nil, ErrCardNotFound
	}

	merged := cards[i].Clone()
	for k, v := range patch {
		if k == models.FieldID {
			continue
		}
		merged[k] = v
	}
	cards[i] = merged

	if err := s.repo.Save(ctx, cards); err != nil {
		return nil, fmt.Errorf("save after update of %s: %w", id, err)
	}
	return merged, nil
}

// Delete removes the first card whose id equals id and returns it.
func (s *CardService) Delete(ctx context.Context, id string) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.repo.Load(ctx)
	i := indexOf(cards, id)
	if i < 0 {
		return nil, ErrCardNotFound
	}

	removed := cards[i]
	cards = append(cards[:i], cards[i+1:]...)

	if err := s.repo.Save(ctx, cards); err != nil {
		return nil, fmt.Errorf("save after delete of %s: %w", id, err)
	}
	return removed, nil
}

func (s *CardService) Count(ctx context.Context) int {
	return len(s.repo.Load(ctx))
}

// nextID is one past the largest numeric id, or 1 for an empty collection.
// Cards without a usable id do not take part.
func nextID(cards []models.Card) int64 {
	var maxID int64
	for _, c := range cards {
		if id, ok := c.ID(); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// indexOf compares ids by numeric value, so "3" finds a card stored with id 3.
func indexOf(cards []models.Card, id string) int {
	want, ok := models.ParseID(id)
	if !ok {
		return -1
	}
	for i, c := range cards {
		if got, ok := c.ID(); ok && got == want {
			return i
		}
	}
	return -1
}
