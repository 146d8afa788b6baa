package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Well-known card fields. Everything else is stored verbatim.
const (
	FieldID     = "id"
	FieldSet    = "set"
	FieldType   = "type"
	FieldRarity = "rarity"
)

// Card is a schema-free record. Numbers decoded from storage are kept as
// json.Number so they are written back exactly as they were read.
type Card map[string]any

// ID returns the card's numeric id. Numeric strings are accepted so that
// loosely typed files still match ids given in a URL.
func (c Card) ID() (int64, bool) {
	return ParseID(c[FieldID])
}

// SetID stores id as the card's id.
func (c Card) SetID(id int64) {
	c[FieldID] = id
}

// String returns the named field if it holds a string.
func (c Card) String(field string) (string, bool) {
	s, ok := c[field].(string)
	return s, ok
}

// Clone returns a shallow copy of the card.
func (c Card) Clone() Card {
	out := make(Card, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ParseID coerces an id value as found in JSON or a path parameter to an
// integer. Non-integral values are rejected.
func ParseID(v any) (int64, bool) {
	switch id := v.(type) {
	case json.Number:
		return ParseID(id.String())
	case string:
		s := strings.TrimSpace(id)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return ParseID(f)
	case float64:
		if id != math.Trunc(id) || math.Abs(id) >= math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case int:
		return int64(id), true
	case int64:
		return id, true
	default:
		return 0, false
	}
}
