package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"tacticalapi/internal/account"
	"tacticalapi/internal/auth"
)

func Me(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		u, err := acc.Me(r.Context(), auth.Subject(r.Context()))
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, u)
		return nil
	})
}

type updateMeReq struct {
	Username string `json:"username" validate:"omitempty,min=3,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func UpdateMe(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req updateMeReq
		if err := decode(w, r, &req); err != nil {
			return err
		}
		u, err := acc.UpdateMe(r.Context(), auth.Subject(r.Context()), account.ProfileUpdate{
			Username: req.Username,
			Email:    req.Email,
		})
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": "Profile updated successfully", "user": u})
		return nil
	})
}

// Length and presence checks live in the service so the messages match
// what existing clients display.
type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func ChangePassword(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req changePasswordReq
		if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return err
		}
		if err := acc.ChangePassword(r.Context(), auth.Subject(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, message{Message: "Password updated successfully"})
		return nil
	})
}

type linkDiscordReq struct {
	DiscordID string `json:"discordId"`
}

func LinkDiscord(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req linkDiscordReq
		if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return err
		}
		if err := acc.LinkDiscord(r.Context(), auth.Subject(r.Context()), req.DiscordID); err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message":   "Discord account linked successfully",
			"discordId": req.DiscordID,
		})
		return nil
	})
}
