package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cards_api/internal/logger"
	"cards_api/internal/models"
)

const (
	cardFileMode = 0o644
	jsonIndent   = "  "
)

var errNullCard = errors.New("card entry is null")

// CardFile stores the card collection as a single JSON array on disk.
type CardFile struct {
	path string
	log  *logger.Logger
}

func NewCardFile(path string, log *logger.Logger) *CardFile {
	return &CardFile{path: path, log: log}
}

// Ensure implementation of CardRepo interface at compile time.
var _ CardRepo = (*CardFile)(nil)

// Load reads the full collection. Any read or decode failure is logged and
// reported as an empty collection.
func (r *CardFile) Load(_ context.Context) []models.Card {
	cards, err := r.read()
	if err != nil {
		if r.log != nil {
			if errors.Is(err, fs.ErrNotExist) {
				r.log.Debugw("cards_file_missing", "path", r.path)
			} else {
				r.log.Warnw("cards_load_failed", "path", r.path, "err", err)
			}
		}
		return []models.Card{}
	}
	return cards
}

// Save replaces the file contents with cards. The data is written to a
// sibling temp file and renamed over the target so readers never see a
// partial write.
func (r *CardFile) Save(_ context.Context, cards []models.Card) error {
	if cards == nil {
		cards = []models.Card{}
	}
	data, err := json.MarshalIndent(cards, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, cardFileMode); err != nil {
		return fmt.Errorf("chmod %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace %q: %w", r.path, err)
	}
	return nil
}

func (r *CardFile) read() ([]models.Card, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	return decodeCards(data)
}

// decodeCards parses a JSON array of objects, keeping numbers as json.Number.
func decodeCards(data []byte) ([]models.Card, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var cards []models.Card
	if err := dec.Decode(&cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode cards: trailing data after array")
	}
	if cards == nil {
		// top-level null
		return nil, errors.New("decode cards: not an array")
	}
	for i, c := range cards {
		if c == nil {
			return nil, fmt.Errorf("decode cards: index %d: %w", i, errNullCard)
		}
	}
	return cards, nil
}
