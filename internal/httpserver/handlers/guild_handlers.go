package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tacticalapi/internal/apperr"
	"tacticalapi/internal/catalog"
)

func ListGuilds(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Guilds())
}

func GetGuild(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.GuildByID(chi.URLParam(r, "id")))
}

func GuildSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Settings(chi.URLParam(r, "id")))
}

// UpdateGuildSettings echoes the submitted settings object back.
func UpdateGuildSettings(lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var settings map[string]any
		if err := decode(w, r, &settings); err != nil && !errors.Is(err, errEmptyBody) {
			return err
		}
		if len(settings) == 0 {
			return apperr.Validation("Settings are required")
		}
		id := chi.URLParam(r, "id")
		lg.Infow("guild settings updated", "guild_id", id)
		respondJSON(w, http.StatusOK, map[string]any{
			"message":  "Guild settings updated successfully",
			"guild_id": id,
			"settings": settings,
		})
		return nil
	})
}

func LeaveGuild(lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		lg.Infow("leaving guild", "guild_id", id)
		respondJSON(w, http.StatusOK, message{Message: "Bot has left guild " + id + " successfully"})
	}
}
