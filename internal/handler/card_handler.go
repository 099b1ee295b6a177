package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/models"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService       service.CardService
	projectionService service.ProjectionService
	logger            *logrus.Logger
	config            *configs.Config
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, projectionService service.ProjectionService, logger *logrus.Logger, config *configs.Config) *CardHandler {
	return &CardHandler{
		cardService:       cardService,
		projectionService: projectionService,
		logger:            logger,
		config:            config,
	}
}

// Create handles card creation
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var cardCreate models.CardCreate
	if err := decodeJSON(r, &cardCreate); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	cardID, err := h.cardService.Create(r.Context(), &cardCreate, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "create card")
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "card created successfully", map[string]interface{}{
		"card_id": cardID,
	})
}

// GetAll handles retrieving all cards for a user
func (h *CardHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cards, err := h.cardService.GetByUserID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get cards")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "cards retrieved successfully", cards)
}

// GetByID handles retrieving a specific card by ID
func (h *CardHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid card ID")
		return
	}

	card, err := h.cardService.GetByID(r.Context(), cardID, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get card")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "card retrieved successfully", card)
}

// Delete soft-deletes a card together with its purchases
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cardID, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid card ID")
		return
	}

	if err := h.cardService.Delete(r.Context(), cardID, id); err != nil {
		respondServiceError(w, h.logger, err, "delete card")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "card deleted successfully", nil)
}

// Stats returns the current cycle summary of the user's first card
func (h *CardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	stats, err := h.cardService.Stats(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get card stats")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "card stats retrieved successfully", stats)
}

// Preview shows the effect of a purchase the user is considering
func (h *CardHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.PreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	preview, err := h.projectionService.Preview(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "preview purchase")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "purchase preview calculated", preview)
}
