package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tacticalapi/internal/account"
	"tacticalapi/internal/auth"
	"tacticalapi/internal/models"
)

// sessionUser is the account summary returned next to a token.
type sessionUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"isAdmin"`
	IsBotOwner bool   `json:"isBotOwner"`
	APIKey     string `json:"apiKey,omitempty"`
}

func newSessionUser(u *models.User) sessionUser {
	return sessionUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		IsBotOwner: u.IsBotOwner,
	}
}

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func Register(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req registerReq
		if err := decode(w, r, &req); err != nil {
			return err
		}
		reg, err := acc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			return err
		}
		user := newSessionUser(reg.User)
		user.APIKey = reg.APIKey
		respondJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"user":    user,
			"apiKey":  reg.APIKey,
			"token":   reg.Token,
		})
		return nil
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Login(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req loginReq
		if err := decode(w, r, &req); err != nil {
			return err
		}
		sess, err := acc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"user":    newSessionUser(sess.User),
			"token":   sess.Token,
		})
		return nil
	})
}

func GetAPIKey(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		key, err := acc.APIKey(r.Context(), auth.Subject(r.Context()))
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]string{"apiKey": key})
		return nil
	})
}

func RegenerateAPIKey(acc *account.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		key, err := acc.RegenerateAPIKey(r.Context(), auth.Subject(r.Context()))
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "API key regenerated successfully",
			"apiKey":  key,
		})
		return nil
	})
}
