package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"card-ledger/internal/cache"
	"card-ledger/pkg/utils"
)

const pingTimeout = 2 * time.Second

// HealthHandler reports service health
type HealthHandler struct {
	db     Pinger
	cache  *cache.Store
	logger *logrus.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, store *cache.Store, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  store,
		logger: logger,
	}
}

// Check pings the database and reports cache statistics
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"database": "ok",
	}

	if h.cache != nil {
		status["cache"] = h.cache.Stats()
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Errorf("Health check failed: %v", err)
			status["database"] = "unavailable"
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, utils.Response{
				Success: false,
				Error:   "database unavailable",
				Data:    status,
			})
			return
		}
	}

	utils.RespondWithSuccess(w, http.StatusOK, "ok", status)
}
