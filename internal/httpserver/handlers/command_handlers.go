package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tacticalapi/internal/apperr"
	"tacticalapi/internal/catalog"
)

func ListCommands(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Commands())
}

func CommandsByCategory(lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		cmds, err := catalog.Category(chi.URLParam(r, "category"))
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return apperr.NotFound("Category not found")
		}
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, cmds)
		return nil
	})
}

func GetCommand(lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		cmd, err := catalog.CommandByName(chi.URLParam(r, "name"))
		if errors.Is(err, catalog.ErrCommandNotFound) {
			return apperr.NotFound("Command not found")
		}
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, cmd)
		return nil
	})
}

type toggleReq struct {
	Enabled *bool  `json:"enabled"`
	GuildID string `json:"guild_id"`
}

func ToggleCommand(lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req toggleReq
		if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return err
		}
		if req.Enabled == nil {
			return apperr.Validation("Enabled status is required")
		}
		respondJSON(w, http.StatusOK, catalog.ToggleCommand(chi.URLParam(r, "name"), *req.Enabled, req.GuildID))
		return nil
	})
}
