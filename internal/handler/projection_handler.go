package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// ProjectionHandler serves payment projections and the dashboard
type ProjectionHandler struct {
	projectionService service.ProjectionService
	logger            *logrus.Logger
	config            *configs.Config
}

// NewProjectionHandler creates a new ProjectionHandler
func NewProjectionHandler(projectionService service.ProjectionService, logger *logrus.Logger, config *configs.Config) *ProjectionHandler {
	return &ProjectionHandler{
		projectionService: projectionService,
		logger:            logger,
		config:            config,
	}
}

// Projection returns the month by month amounts due. card_id defaults to
// the user's first card and months to twelve.
func (h *ProjectionHandler) Projection(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cardID, err := queryInt(r, "card_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	months, err := queryInt(r, "months")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	projection, err := h.projectionService.Projection(r.Context(), id, cardID, months)
	if err != nil {
		respondServiceError(w, h.logger, err, "project payments")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "projection calculated", projection)
}

// FreedomDate returns when the last installment on a card is due
func (h *ProjectionHandler) FreedomDate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cardID, err := queryInt(r, "card_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	freedom, err := h.projectionService.FreedomDate(r.Context(), id, cardID)
	if err != nil {
		respondServiceError(w, h.logger, err, "calculate freedom date")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "freedom date calculated", freedom)
}

// Overview returns the dashboard of the user's first card
func (h *ProjectionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	overview, err := h.projectionService.Overview(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "build overview")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "overview retrieved successfully", overview)
}
