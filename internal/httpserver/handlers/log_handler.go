package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tacticalapi/internal/logger"
	"tacticalapi/internal/metrics"
)

type clientLogReq struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// ClientLog writes an entry reported by a dashboard client to the server log.
// It always answers 200 so a failing client never retries into a loop.
func ClientLog(lg *zap.SugaredLogger) http.HandlerFunc {
	clg := lg.Named("client")
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientLogReq
		if err := decode(w, r, &req); err != nil {
			clg.Debugw("unreadable client log entry", "error", err)
			respondJSON(w, http.StatusOK, message{Message: "Log entry ignored"})
			return
		}
		level := logger.ClientLevel(req.Level)
		metrics.ClientLogs.WithLabelValues(level.String()).Inc()
		clg.Logw(level, req.Message,
			"client_error", req.Error,
			"client_timestamp", req.Timestamp,
			"remote_addr", r.RemoteAddr,
		)
		respondJSON(w, http.StatusOK, message{Message: "Log entry recorded"})
	}
}
