package handlers

import (
	"encoding/json"
	"net/http"

	"taskmanager/internal/handlers/dto"
	"taskmanager/internal/logger"
	"taskmanager/internal/middleware"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Register(r.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		respondError(w, err, "register")
		return
	}

	responseWithJSON(w, http.StatusCreated, dto.AuthResponse{
		User:  dto.FromUser(user),
		Token: token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		respondError(w, err, "login")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.AuthResponse{
		User:  dto.FromUser(user),
		Token: token,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Profile(r.Context(), caller.ID)
	if err != nil {
		respondError(w, err, "profile")
		return
	}

	responseWithJSON(w, http.StatusOK, map[string]any{"user": dto.FromUser(user)})
}

// currentUser pulls the authenticated identity placed by the middleware;
// a missing identity means a route was wired without the authenticator.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.AuthenticatedUser, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "not authenticated")
		return middleware.AuthenticatedUser{}, false
	}
	return user, true
}
