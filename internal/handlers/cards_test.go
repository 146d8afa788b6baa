package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cards_api/internal/models"
	"cards_api/internal/service"
)

func newCardsTestRouter(cards *mockCards, query *mockQuery) (http.Handler, *mockAuth) {
	auth := &mockAuth{parseUsername: "alice"}
	return newTestRouter(&service.Service{
		Authorization: auth,
		Cards:         cards,
		Query:         query,
	}), auth
}

func do(r http.Handler, method, target, body string, hdr http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(req, hdr))
	return w
}

func TestCardRoutes_RequireToken(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/cards"},
		{http.MethodPost, "/cards/create"},
		{http.MethodPut, "/cards/1"},
		{http.MethodDelete, "/cards/1"},
		{http.MethodGet, "/cards/count"},
		{http.MethodGet, "/cards/random"},
		{http.MethodGet, "/sets"},
		{http.MethodGet, "/types"},
		{http.MethodGet, "/rarities"},
		{http.MethodGet, "/ws/cards"},
	}
	cards := &mockCards{}
	r, auth := newCardsTestRouter(cards, &mockQuery{})
	auth.parseErr = service.ErrInvalidToken

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			if w := do(r, rt.method, rt.path, "", nil); w.Code != http.StatusUnauthorized {
				t.Fatalf("no token: status=%d", w.Code)
			}
			if w := do(r, rt.method, rt.path, "", authHeader("forged")); w.Code != http.StatusUnauthorized {
				t.Fatalf("bad token: status=%d", w.Code)
			}
		})
	}
	if cards.createCalls != 0 {
		t.Fatalf("operation executed without a valid token")
	}
}

func TestListCards_PassesFilters(t *testing.T) {
	query := &mockQuery{cards: []models.Card{{"id": json.Number("1"), "set": "Base"}}}
	r, _ := newCardsTestRouter(&mockCards{}, query)

	w := do(r, http.MethodGet, "/cards?set=Base&type=Creature&rarity=Common", "", authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	want := service.CardFilter{Set: "Base", Type: "Creature", Rarity: "Common"}
	if query.lastFilter != want {
		t.Fatalf("filter=%+v, want %+v", query.lastFilter, want)
	}
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0]["set"] != "Base" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestListCards_EmptyIsArray(t *testing.T) {
	r, _ := newCardsTestRouter(&mockCards{}, &mockQuery{cards: []models.Card{}})
	w := do(r, http.MethodGet, "/cards", "", authHeader("valid"))
	if w.Body.String() != "[]" {
		t.Fatalf("expected [], got %s", w.Body.String())
	}
}

func TestCreateCard(t *testing.T) {
	cards := &mockCards{card: models.Card{"id": int64(1), "set": "Base", "power": json.Number("12345678901234567890")}}
	r, _ := newCardsTestRouter(cards, &mockQuery{})

	w := do(r, http.MethodPost, "/cards/create", `{"id": 5, "set":"Base","power":12345678901234567890}`, authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cards.lastFields["power"] != json.Number("12345678901234567890") {
		t.Fatalf("number not kept verbatim: %#v", cards.lastFields["power"])
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"power":12345678901234567890`)) {
		t.Fatalf("response lost precision: %s", w.Body.String())
	}
	var out struct {
		SuccessMessage string         `json:"successMessage"`
		Card           map[string]any `json:"card"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.SuccessMessage != msgCreated || out.Card["id"] != float64(1) {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestCreateCard_BadBodies(t *testing.T) {
	for name, body := range map[string]string{
		"array":    `[1,2]`,
		"null":     `null`,
		"string":   `"card"`,
		"broken":   `{"set":`,
		"trailing": `{"set":"A"} x`,
	} {
		t.Run(name, func(t *testing.T) {
			cards := &mockCards{}
			r, _ := newCardsTestRouter(cards, &mockQuery{})
			w := do(r, http.MethodPost, "/cards/create", body, authHeader("valid"))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if cards.createCalls != 0 {
				t.Fatalf("Create should not be called")
			}
		})
	}
}

func TestCreateCard_EmptyBodyCreatesBareCard(t *testing.T) {
	cards := &mockCards{card: models.Card{"id": int64(1)}}
	r, _ := newCardsTestRouter(cards, &mockQuery{})
	w := do(r, http.MethodPost, "/cards/create", "", authHeader("valid"))
	if w.Code != http.StatusOK || cards.createCalls != 1 || len(cards.lastFields) != 0 {
		t.Fatalf("status=%d calls=%d fields=%v", w.Code, cards.createCalls, cards.lastFields)
	}
}

func TestCreateCard_StorageFailureIs500(t *testing.T) {
	cards := &mockCards{err: errors.New("disk full: /var/data/cards.json")}
	r, _ := newCardsTestRouter(cards, &mockQuery{})
	w := do(r, http.MethodPost, "/cards/create", `{"set":"A"}`, authHeader("valid"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("disk full")) {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

func TestUpdateCard(t *testing.T) {
	cards := &mockCards{card: models.Card{"id": int64(3), "set": "Jungle"}}
	r, _ := newCardsTestRouter(cards, &mockQuery{})

	w := do(r, http.MethodPut, "/cards/3", `{"set":"Jungle"}`, authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cards.lastID != "3" || cards.lastPatch["set"] != "Jungle" {
		t.Fatalf("id=%q patch=%v", cards.lastID, cards.lastPatch)
	}
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["successMessage"] != msgUpdated {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestUpdateDeleteCard_NotFound(t *testing.T) {
	cards := &mockCards{err: service.ErrCardNotFound}
	r, _ := newCardsTestRouter(cards, &mockQuery{})

	for _, w := range []*httptest.ResponseRecorder{
		do(r, http.MethodPut, "/cards/99", `{"set":"x"}`, authHeader("valid")),
		do(r, http.MethodDelete, "/cards/99", "", authHeader("valid")),
	} {
		if w.Code != http.StatusNotFound {
			t.Fatalf("status=%d", w.Code)
		}
		var out map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if out["errorMessage"] != errCardNotFound {
			t.Fatalf("unexpected body: %v", out)
		}
	}
}

func TestDeleteCard(t *testing.T) {
	cards := &mockCards{card: models.Card{"id": int64(2), "set": "Fossil"}}
	r, _ := newCardsTestRouter(cards, &mockQuery{})

	w := do(r, http.MethodDelete, "/cards/2", "", authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cards.lastID != "2" {
		t.Fatalf("id=%q", cards.lastID)
	}
	var out struct {
		SuccessMessage string         `json:"successMessage"`
		Card           map[string]any `json:"card"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.SuccessMessage != msgDeleted || out.Card["set"] != "Fossil" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestCountCards(t *testing.T) {
	r, _ := newCardsTestRouter(&mockCards{count: 4}, &mockQuery{})
	w := do(r, http.MethodGet, "/cards/count", "", authHeader("valid"))
	if w.Code != http.StatusOK || w.Body.String() != `{"cardCount":4}` {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRandomCard(t *testing.T) {
	query := &mockQuery{random: models.Card{"id": int64(9)}}
	r, _ := newCardsTestRouter(&mockCards{}, query)
	w := do(r, http.MethodGet, "/cards/random", "", authHeader("valid"))
	if w.Code != http.StatusOK || w.Body.String() != `{"id":9}` {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	query.random, query.randomErr = nil, service.ErrNoCards
	w = do(r, http.MethodGet, "/cards/random", "", authHeader("valid"))
	if w.Code != http.StatusOK || w.Body.String() != "null" {
		t.Fatalf("empty: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDistinctRoutes(t *testing.T) {
	query := &mockQuery{distinct: map[string][]string{
		"set":    {"A", "B", "C"},
		"type":   {"Creature"},
		"rarity": {},
	}}
	r, _ := newCardsTestRouter(&mockCards{}, query)

	cases := map[string]string{
		"/sets":     `["A","B","C"]`,
		"/types":    `["Creature"]`,
		"/rarities": `[]`,
	}
	for path, want := range cases {
		w := do(r, http.MethodGet, path, "", authHeader("valid"))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("%s: status=%d body=%s", path, w.Code, w.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	r, _ := newCardsTestRouter(&mockCards{}, &mockQuery{})
	w := do(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSwaggerDocServed(t *testing.T) {
	r, _ := newCardsTestRouter(&mockCards{}, &mockQuery{})
	w := do(r, http.MethodGet, "/swagger/doc.json", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"/getToken"`)) {
		t.Fatalf("doc.json missing routes: %s", w.Body.String())
	}
}
