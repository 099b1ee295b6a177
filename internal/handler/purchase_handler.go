package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/models"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	logger          *logrus.Logger
	config          *configs.Config
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService service.PurchaseService, logger *logrus.Logger, config *configs.Config) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		logger:          logger,
		config:          config,
	}
}

// Create records a new installment purchase
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var purchaseCreate models.PurchaseCreate
	if err := decodeJSON(r, &purchaseCreate); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	purchaseID, err := h.purchaseService.Create(r.Context(), &purchaseCreate, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "create purchase")
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "purchase created successfully", map[string]interface{}{
		"purchase_id": purchaseID,
	})
}

// GetAll lists the user's purchases, filtered by the card_id query parameter
func (h *PurchaseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cardID, err := queryInt(r, "card_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	purchases, err := h.purchaseService.GetByUserID(r.Context(), id, cardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "get purchases")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "purchases retrieved successfully", purchases)
}

// Delete soft-deletes a purchase
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	purchaseID, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	if err := h.purchaseService.Delete(r.Context(), purchaseID, id); err != nil {
		respondServiceError(w, h.logger, err, "delete purchase")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "purchase deleted successfully", nil)
}
