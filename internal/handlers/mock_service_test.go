package handlers

import (
	"context"
	"net/http"

	"cards_api/internal/models"
	"cards_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseUsername string
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
	parseCalls      int
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.parseCalls++
	m.lastParseToken = token
	return m.parseUsername, m.parseErr
}

type mockCards struct {
	card  models.Card
	err   error
	count int

	createCalls int
	lastFields  models.Card
	lastID      string
	lastPatch   models.Card
}

func (m *mockCards) Create(_ context.Context, fields models.Card) (models.Card, error) {
	m.createCalls++
	m.lastFields = fields
	return m.card, m.err
}

func (m *mockCards) Update(_ context.Context, id string, patch models.Card) (models.Card, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.card, m.err
}

func (m *mockCards) Delete(_ context.Context, id string) (models.Card, error) {
	m.lastID = id
	return m.card, m.err
}

func (m *mockCards) Count(_ context.Context) int {
	return m.count
}

type mockQuery struct {
	cards     []models.Card
	distinct  map[string][]string
	random    models.Card
	randomErr error

	lastFilter service.CardFilter
	lastField  string
}

func (m *mockQuery) List(_ context.Context, f service.CardFilter) []models.Card {
	m.lastFilter = f
	return m.cards
}

func (m *mockQuery) Distinct(_ context.Context, field string) []string {
	m.lastField = field
	return m.distinct[field]
}

func (m *mockQuery) Random(_ context.Context) (models.Card, error) {
	return m.random, m.randomErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", token)
	}
	return h
}

func withHeader(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
