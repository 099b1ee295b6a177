package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/models"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// SimulatorHandler handles payoff simulation requests
type SimulatorHandler struct {
	simulatorService service.SimulatorService
	logger           *logrus.Logger
	config           *configs.Config
}

// NewSimulatorHandler creates a new SimulatorHandler
func NewSimulatorHandler(simulatorService service.SimulatorService, logger *logrus.Logger, config *configs.Config) *SimulatorHandler {
	return &SimulatorHandler{
		simulatorService: simulatorService,
		logger:           logger,
		config:           config,
	}
}

// Simple simulates an extra payment without interest
func (h *SimulatorHandler) Simple(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.SimpleSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.simulatorService.Simple(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "run simulation")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "simulation completed", result)
}

// Advanced simulates an extra payment with monthly interest
func (h *SimulatorHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req models.AdvancedSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.simulatorService.Advanced(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "run simulation")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "simulation completed", result)
}
