package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"card-ledger/internal/middleware"
	"card-ledger/internal/ratelimit"
)

// NewRouter registers every route. A nil limiter disables rate limiting.
func NewRouter(h *Handler, logger *logrus.Logger, jwtSecret string, limiter *ratelimit.Limiter) *mux.Router {
	limited := func(rule ratelimit.Rule, fn http.HandlerFunc) http.Handler {
		return middleware.RateLimit(limiter, rule)(fn)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LogMiddleware(logger))

	// Public routes
	router.HandleFunc("/register", h.User.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", h.User.Login).Methods(http.MethodPost)
	router.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)

	// Protected routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(jwtSecret))

	api.HandleFunc("/users/me", h.User.GetUser).Methods(http.MethodGet)

	// Card endpoints
	api.Handle("/cards/stats", limited(ratelimit.CardStats, h.Card.Stats)).Methods(http.MethodGet)
	api.Handle("/cards/preview", limited(ratelimit.Preview, h.Card.Preview)).Methods(http.MethodPost)
	api.HandleFunc("/cards", h.Card.Create).Methods(http.MethodPost)
	api.Handle("/cards", limited(ratelimit.List, h.Card.GetAll)).Methods(http.MethodGet)
	api.HandleFunc("/cards/{id:[0-9]+}", h.Card.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/cards/{id:[0-9]+}", h.Card.Delete).Methods(http.MethodDelete)

	// Purchase endpoints
	api.Handle("/purchases/projection/export", limited(ratelimit.Projection, h.Export.ProjectionXML)).Methods(http.MethodGet)
	api.Handle("/purchases/projection", limited(ratelimit.Projection, h.Projection.Projection)).Methods(http.MethodGet)
	api.Handle("/purchases", limited(ratelimit.PurchaseCreate, h.Purchase.Create)).Methods(http.MethodPost)
	api.Handle("/purchases", limited(ratelimit.List, h.Purchase.GetAll)).Methods(http.MethodGet)
	api.HandleFunc("/purchases/{id:[0-9]+}", h.Purchase.Delete).Methods(http.MethodDelete)

	// Projection endpoints
	api.Handle("/freedom-date", limited(ratelimit.Projection, h.Projection.FreedomDate)).Methods(http.MethodGet)
	api.Handle("/dashboard/overview", limited(ratelimit.Dashboard, h.Projection.Overview)).Methods(http.MethodGet)

	// Simulator endpoints
	api.Handle("/simulator/simple", limited(ratelimit.SimulatorSimple, h.Simulator.Simple)).Methods(http.MethodPost)
	api.Handle("/simulator/advanced", limited(ratelimit.SimulatorAdvanced, h.Simulator.Advanced)).Methods(http.MethodPost)

	return router
}
