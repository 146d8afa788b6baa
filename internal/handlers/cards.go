package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cards_api/internal/models"
	"cards_api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	fieldSet    = models.FieldSet
	fieldType   = models.FieldType
	fieldRarity = models.FieldRarity

	msgCreated = "Card created successfully"
	msgUpdated = "Card updated successfully"
	msgDeleted = "Card deleted successfully"

	errCardNotFound    = "Card not found"
	errInvalidBodyPref = "invalid body: "
)

var errBodyNotObject = errors.New("expected a JSON object")

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// cardError maps service errors for id-targeted operations.
func (h *Handler) cardError(c *gin.Context, logKey, id string, err error) {
	if errors.Is(err, service.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errorMessage": errCardNotFound})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, "id", id)
}

// bindCardOrBadRequest decodes the body as a JSON object, keeping numbers
// exactly as sent. An empty body is an empty card.
func (h *Handler) bindCardOrBadRequest(c *gin.Context) (models.Card, bool) {
	card, err := decodeCard(c.Request.Body)
	if err != nil {
		h.log.Infow("bad_request_body", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return nil, false
	}
	return card, true
}

func decodeCard(body io.Reader) (models.Card, error) {
	if body == nil {
		return models.Card{}, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Card{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var card models.Card
	if err := dec.Decode(&card); err != nil {
		return nil, err
	}
	if card == nil {
		return nil, errBodyNotObject
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	return card, nil
}

// @Summary      List cards
// @Tags         cards
// @Produce      json
// @Param        set     query     string  false  "Exact set"
// @Param        type    query     string  false  "Exact type"
// @Param        rarity  query     string  false  "Exact rarity"
// @Success      200     {array}   map[string]interface{}
// @Failure      401     {object}  map[string]string
// @Router       /cards [get]
// @Security     ApiKeyAuth
func (h *Handler) listCards(c *gin.Context) {
	cards := h.services.List(c.Request.Context(), service.CardFilter{
		Set:    c.Query(fieldSet),
		Type:   c.Query(fieldType),
		Rarity: c.Query(fieldRarity),
	})
	c.JSON(http.StatusOK, cards)
}

// @Summary      Create card
// @Description  Any id in the body is ignored; the next free id is assigned.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]interface{}  true  "Card fields"
// @Success      200   {object}  map[string]interface{}  "successMessage, card"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /cards/create [post]
// @Security     ApiKeyAuth
func (h *Handler) createCard(c *gin.Context) {
	fields, ok := h.bindCardOrBadRequest(c)
	if !ok {
		return
	}
	card, err := h.services.Create(c.Request.Context(), fields)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "cards_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"successMessage": msgCreated, "card": card})
}

// @Summary      Update card
// @Description  Supplied fields overwrite existing ones; other fields are kept.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Card id"
// @Param        body  body      map[string]interface{}  true  "Fields to merge"
// @Success      200   {object}  map[string]interface{}  "successMessage, card"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /cards/{id} [put]
// @Security     ApiKeyAuth
func (h *Handler) updateCard(c *gin.Context) {
	id := c.Param("id")
	patch, ok := h.bindCardOrBadRequest(c)
	if !ok {
		return
	}
	card, err := h.services.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.cardError(c, "cards_update_failed", id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"successMessage": msgUpdated, "card": card})
}

// @Summary      Delete card
// @Tags         cards
// @Produce      json
// @Param        id   path      int  true  "Card id"
// @Success      200  {object}  map[string]interface{}  "successMessage, card"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /cards/{id} [delete]
// @Security     ApiKeyAuth
func (h *Handler) deleteCard(c *gin.Context) {
	id := c.Param("id")
	card, err := h.services.Delete(c.Request.Context(), id)
	if err != nil {
		h.cardError(c, "cards_delete_failed", id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"successMessage": msgDeleted, "card": card})
}

// @Summary      Count cards
// @Tags         cards
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      401  {object}  map[string]string
// @Router       /cards/count [get]
// @Security     ApiKeyAuth
func (h *Handler) countCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cardCount": h.services.Count(c.Request.Context())})
}

// @Summary      Random card
// @Description  Responds with null when there are no cards.
// @Tags         cards
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /cards/random [get]
// @Security     ApiKeyAuth
func (h *Handler) randomCard(c *gin.Context) {
	card, err := h.services.Random(c.Request.Context())
	if errors.Is(err, service.ErrNoCards) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "cards_random_failed", err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// distinct serves /sets, /types and /rarities.
func (h *Handler) distinct(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.services.Distinct(c.Request.Context(), field))
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
