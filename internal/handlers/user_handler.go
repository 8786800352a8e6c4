package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prudhvinik1/whale-users/internal/models"
	"github.com/prudhvinik1/whale-users/internal/services"
	"go.uber.org/zap"
)

// AccountService is the slice of services.AccountService the HTTP layer uses.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.AccountView, error)
	Login(ctx context.Context, in services.LoginInput) (*models.AccountView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccountView, error)
	GetByEmail(ctx context.Context, email string) (*models.AccountView, error)
	Update(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.AccountView, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type UserHandler struct {
	accounts AccountService
	log      *zap.Logger
}

// UpdateUserRequest fields left empty are not changed.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,max=100"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

func NewUserHandler(accounts AccountService, log *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, log: log}
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	view, err := h.accounts.GetByID(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		respondNotFound(w)
		return
	}
	if err != nil {
		h.log.Error("failed to get account", zap.String("account_id", id.String()), zap.Error(err))
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *UserHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || email == "" {
		respondNotFound(w)
		return
	}

	view, err := h.accounts.GetByEmail(r.Context(), email)
	if errors.Is(err, services.ErrNotFound) {
		respondNotFound(w)
		return
	}
	if err != nil {
		h.log.Error("failed to get account by email", zap.Error(err))
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.accounts.Update(r.Context(), id, models.AccountPatch{Name: req.Name, Email: req.Email})
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, view)
	case errors.Is(err, services.ErrNotFound):
		respondNotFound(w)
	case errors.Is(err, services.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "Email already registered", "Another account already uses this email")
	default:
		h.log.Error("failed to update account", zap.String("account_id", id.String()), zap.Error(err))
		respondInternalError(w)
	}
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	deleted, err := h.accounts.Delete(r.Context(), id)
	if err != nil {
		h.log.Error("failed to delete account", zap.String("account_id", id.String()), zap.Error(err))
		respondInternalError(w)
		return
	}
	if !deleted {
		respondNotFound(w)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// accountID treats a malformed id the same as an unknown one.
func accountID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func respondNotFound(w http.ResponseWriter) {
	respondError(w, http.StatusNotFound, "User not found", "The requested user does not exist")
}
