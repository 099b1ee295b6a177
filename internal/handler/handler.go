package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/cache"
	"card-ledger/internal/middleware"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
	DB       Pinger
	Cache    *cache.Store
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	User       *UserHandler
	Card       *CardHandler
	Purchase   *PurchaseHandler
	Projection *ProjectionHandler
	Simulator  *SimulatorHandler
	Export     *ExportHandler
	Health     *HealthHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		User:       NewUserHandler(deps.Services.User, deps.Logger, deps.Config),
		Card:       NewCardHandler(deps.Services.Card, deps.Services.Projection, deps.Logger, deps.Config),
		Purchase:   NewPurchaseHandler(deps.Services.Purchase, deps.Logger, deps.Config),
		Projection: NewProjectionHandler(deps.Services.Projection, deps.Logger, deps.Config),
		Simulator:  NewSimulatorHandler(deps.Services.Simulator, deps.Logger, deps.Config),
		Export:     NewExportHandler(deps.Services.Export, deps.Logger, deps.Config),
		Health:     NewHealthHandler(deps.DB, deps.Cache, deps.Logger),
	}
}

// respondServiceError maps service errors to status codes. Unexpected
// errors are logged and hidden behind a generic message.
func respondServiceError(w http.ResponseWriter, logger *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoCard):
		utils.RespondWithError(w, http.StatusNotFound, "no card registered")
	case errors.Is(err, service.ErrNoPurchases):
		utils.RespondWithError(w, http.StatusNotFound, "no purchases to simulate")
	case errors.Is(err, service.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		utils.RespondWithError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		logger.Errorf("Failed to %s: %v", action, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
		return
	}

	logger.Warnf("Failed to %s: %v", action, err)
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// userID returns the authenticated user or writes an error response
func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
	}
	return id, ok
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// queryInt parses an optional non-negative integer query parameter. Missing
// parameters yield zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New("invalid " + name)
	}
	return value, nil
}
