package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tacticalapi/internal/apperr"
	"tacticalapi/internal/botstats"
	"tacticalapi/internal/catalog"
	"tacticalapi/internal/health"
	"tacticalapi/internal/metrics"
	"tacticalapi/internal/models"
)

// Health probes always answer 200; failures are described in the payload.

func HealthAPI(h *health.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.API())
	}
}

func HealthDatabase(h *health.Aggregator, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := h.Database(r.Context())
		if st.Status != health.StatusConnected {
			lg.Warnw("database probe failed", "name", st.Name, "error", st.Error)
		}
		respondJSON(w, http.StatusOK, st)
	}
}

func HealthSystem(h *health.Aggregator, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := h.System(r.Context())
		if st.Status == health.StatusError {
			lg.Warnw("system probe failed", "error", st.Error)
		}
		respondJSON(w, http.StatusOK, st)
	}
}

func BotStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Status())
}

func BotStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Stats())
}

type statsHistory struct {
	ServerGrowth      botstats.Growth         `json:"server_growth"`
	AvgCommandsPerDay int                     `json:"avg_commands_per_day"`
	Days              int                     `json:"days"`
	TopCommands       models.CommandUsageList `json:"top_commands"`
	Snapshots         []models.BotStat        `json:"snapshots"`
}

// StatsHistory aggregates recorded snapshots over ?days= (default 7) and
// lists the ?limit= (default 10) most used commands.
func StatsHistory(stats *botstats.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()
		days := queryInt(r, "days", botstats.DefaultAverageDays)
		limit := queryInt(r, "limit", botstats.DefaultTopLimit)

		growth, err := stats.Growth(ctx)
		if err != nil {
			return apperr.Internal("Error getting bot statistics", err)
		}
		avg, err := stats.AverageCommands(ctx, days)
		if err != nil {
			return apperr.Internal("Error getting bot statistics", err)
		}
		top, err := stats.MostUsed(ctx, limit)
		if err != nil {
			return apperr.Internal("Error getting bot statistics", err)
		}
		now := time.Now()
		snaps, err := stats.Period(ctx, now.Add(-time.Duration(days)*24*time.Hour), now)
		if err != nil {
			return apperr.Internal("Error getting bot statistics", err)
		}
		if snaps == nil {
			snaps = []models.BotStat{}
		}
		respondJSON(w, http.StatusOK, statsHistory{
			ServerGrowth:      growth,
			AvgCommandsPerDay: avg,
			Days:              days,
			TopCommands:       top,
			Snapshots:         snaps,
		})
		return nil
	})
}

type statsUpdateReq struct {
	Timestamp         *time.Time              `json:"timestamp"`
	Servers           int                     `json:"servers" validate:"gte=0"`
	Users             int                     `json:"users" validate:"gte=0"`
	Uptime            int64                   `json:"uptime" validate:"gte=0"`
	Version           string                  `json:"version"`
	CommandsUsed      int                     `json:"commands_used" validate:"gte=0"`
	TopCommands       models.CommandUsageList `json:"top_commands"`
	MessagesProcessed int                     `json:"messages_processed" validate:"gte=0"`
	MemoryUsage       string                  `json:"memory_usage"`
	CPUUsage          string                  `json:"cpu_usage"`
	Ping              int                     `json:"ping"`
}

func (req statsUpdateReq) snapshot() *models.BotStat {
	st := &models.BotStat{
		Servers:           req.Servers,
		Users:             req.Users,
		Uptime:            req.Uptime,
		Version:           req.Version,
		CommandsUsed:      req.CommandsUsed,
		TopCommands:       req.TopCommands,
		MessagesProcessed: req.MessagesProcessed,
		MemoryUsage:       req.MemoryUsage,
		CPUUsage:          req.CPUUsage,
		Ping:              req.Ping,
	}
	if req.Timestamp != nil {
		st.Timestamp = req.Timestamp.UTC()
	}
	return st
}

func UpdateStats(stats *botstats.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req statsUpdateReq
		if err := decode(w, r, &req); err != nil {
			if errors.Is(err, errEmptyBody) {
				return apperr.Validation("Statistics data is required")
			}
			return err
		}
		st := req.snapshot()
		if err := stats.Record(r.Context(), st); err != nil {
			return apperr.Internal("Error updating bot statistics", err)
		}
		metrics.BotStatSnapshots.Inc()
		lg.Infow("received updated bot statistics", "servers", st.Servers, "commands_used", st.CommandsUsed)

		derived, err := stats.Derive(r.Context(), st)
		if err != nil {
			return apperr.Internal("Error updating bot statistics", err)
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"message":         "Bot statistics updated successfully",
			"received":        st,
			"derived_metrics": derived,
		})
		return nil
	})
}

func RestartBot(lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lg.Infow("bot restart requested")
		respondJSON(w, http.StatusOK, map[string]string{
			"message":            "Bot restart initiated",
			"estimated_downtime": "30 seconds",
		})
	}
}

type botSettingsReq struct {
	Prefix       string `json:"prefix" validate:"omitempty,max=5"`
	Status       string `json:"status" validate:"omitempty,oneof=online idle dnd invisible"`
	ActivityType string `json:"activity_type" validate:"omitempty,oneof=PLAYING STREAMING LISTENING WATCHING COMPETING"`
	ActivityName string `json:"activity_name" validate:"omitempty,max=128"`
}

func UpdateBotSettings(lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req botSettingsReq
		if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"message":  "Bot settings updated successfully",
			"settings": catalog.ApplySettingsDefaults(req.Prefix, req.Status, req.ActivityType, req.ActivityName),
		})
		return nil
	})
}

type executeReq struct {
	Command string `json:"command"`
	GuildID string `json:"guild_id"`
}

func ExecuteCommand(lg *zap.SugaredLogger) http.HandlerFunc {
	return handle(lg, func(w http.ResponseWriter, r *http.Request) error {
		var req executeReq
		if err := decode(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return err
		}
		if req.Command == "" {
			return apperr.Validation("Command is required")
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Command executed successfully",
			"result":  catalog.ExecuteResult(req.Command, req.GuildID),
		})
		return nil
	})
}
