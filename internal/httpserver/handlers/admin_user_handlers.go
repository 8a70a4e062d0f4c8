package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tacticalapi/internal/account"
)

func ListUsers(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		page, err := acc.List(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", account.DefaultPageLimit))
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, page)
		return nil
	})
}

func GetUser(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		u, err := acc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, u)
		return nil
	})
}

type adminUpdateReq struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	IsAdmin     *bool   `json:"isAdmin"`
	IsBotOwner  *bool   `json:"isBotOwner"`
	AccessLevel *int    `json:"accessLevel" validate:"omitempty,gte=1,lte=3"`
}

func UpdateUser(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req adminUpdateReq
		if err := decode(w, r, &req); err != nil {
			return err
		}
		u, err := acc.AdminUpdate(r.Context(), chi.URLParam(r, "id"), account.AdminUpdate{
			Username:    req.Username,
			Email:       req.Email,
			IsAdmin:     req.IsAdmin,
			IsBotOwner:  req.IsBotOwner,
			AccessLevel: req.AccessLevel,
		})
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": "User updated successfully", "user": u})
		return nil
	})
}

func DeleteUser(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		if err := acc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, message{Message: "User deleted successfully"})
		return nil
	})
}
