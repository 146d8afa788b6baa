package repository

import (
	"context"

	"cards_api/internal/logger"
	"cards_api/internal/models"
)

// CardRepo reads and writes the whole card collection as one unit.
type CardRepo interface {
	// Load never fails: unreadable or corrupt storage yields an empty collection.
	Load(ctx context.Context) []models.Card
	Save(ctx context.Context, cards []models.Card) error
}

// Credentials looks up registered users.
type Credentials interface {
	FindUser(username, password string) (models.User, bool)
}

type Repository struct {
	Cards CardRepo
	Users Credentials
}

func NewRepository(cardsPath string, users *UserStore, log *logger.Logger) *Repository {
	return &Repository{
		Cards: NewCardFile(cardsPath, log),
		Users: users,
	}
}
