package repository

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cards_api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUser = errors.New("duplicate username")
	ErrEmptyUsername = errors.New("empty username")
)

// bcryptPrefixes mark password entries that hold a bcrypt hash instead of plaintext.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// UserStore is an immutable set of users, keyed by username.
type UserStore struct {
	byName map[string]models.User
}

// Ensure implementation of Credentials interface at compile time.
var _ Credentials = (*UserStore)(nil)

// LoadUsers reads a JSON array of users from path. The caller is expected to
// treat any error as fatal.
func LoadUsers(path string) (*UserStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file %q: %w", path, err)
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file %q: %w", path, err)
	}
	if users == nil {
		return nil, fmt.Errorf("parse users file %q: expected a JSON array", path)
	}
	return NewUserStore(users)
}

// NewUserStore copies users into a new store. Usernames must be non-empty and unique.
func NewUserStore(users []models.User) (*UserStore, error) {
	byName := make(map[string]models.User, len(users))
	for i, u := range users {
		if u.Username == "" {
			return nil, fmt.Errorf("user %d: %w", i, ErrEmptyUsername)
		}
		if _, dup := byName[u.Username]; dup {
			return nil, fmt.Errorf("user %q: %w", u.Username, ErrDuplicateUser)
		}
		byName[u.Username] = u
	}
	return &UserStore{byName: byName}, nil
}

// FindUser returns the user whose username and password both match.
func (s *UserStore) FindUser(username, password string) (models.User, bool) {
	u, ok := s.byName[username]
	if !ok || !passwordMatches(u.Password, password) {
		return models.User{}, false
	}
	return u, true
}

// Len reports the number of registered users.
func (s *UserStore) Len() int {
	return len(s.byName)
}

func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
