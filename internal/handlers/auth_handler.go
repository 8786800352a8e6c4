package handlers

import (
	"errors"
	"net/http"

	"github.com/prudhvinik1/whale-users/internal/services"
	"github.com/prudhvinik1/whale-users/internal/utils"
	"go.uber.org/zap"
)

type AuthHandler struct {
	accounts AccountService
	log      *zap.Logger
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthHandler(accounts AccountService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.accounts.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "Email already registered", "An account with this email already exists")
		return
	case errors.Is(err, utils.ErrEmptyPassword), errors.Is(err, utils.ErrPasswordTooLong):
		respondError(w, http.StatusBadRequest, "Invalid password", err.Error())
		return
	default:
		h.log.Error("failed to register account", zap.Error(err))
		respondInternalError(w)
		return
	}

	w.Header().Set("Location", "/api/Users/"+view.ID.String())
	respondJSON(w, http.StatusCreated, view)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.accounts.Login(r.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials", "Incorrect email or password")
		return
	}
	if err != nil {
		h.log.Error("failed to log in", zap.Error(err))
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, view)
}
