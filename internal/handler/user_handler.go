package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/models"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *logrus.Logger
	config      *configs.Config
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *logrus.Logger, config *configs.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
		config:      config,
	}
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var userReg models.UserRegistration
	if err := decodeJSON(r, &userReg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	id, err := h.userService.Register(r.Context(), &userReg)
	if err != nil {
		respondServiceError(w, h.logger, err, "register user")
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "user registered successfully", map[string]interface{}{
		"user_id": id,
	})
}

// Login handles user login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.UserLogin
	if err := decodeJSON(r, &loginReq); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	tokenResponse, err := h.userService.Login(r.Context(), &loginReq)
	if err != nil {
		respondServiceError(w, h.logger, err, "login user")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "login successful", tokenResponse)
}

// GetUser returns the authenticated user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user details")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "user details retrieved successfully", user)
}
