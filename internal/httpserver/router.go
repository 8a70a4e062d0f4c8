package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tacticalapi/internal/account"
	"tacticalapi/internal/auth"
	"tacticalapi/internal/botstats"
	"tacticalapi/internal/health"
	"tacticalapi/internal/httpserver/handlers"
)

// Server carries everything the routes need. Limiter and the store
// connections behind the services are constructed by the caller.
type Server struct {
	Accounts    *account.Service
	BotStats    *botstats.Service
	Health      *health.Aggregator
	Verifier    auth.Verifier
	Limiter     *httprate.RateLimiter
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxy  bool
	Development bool
	Logger      *zap.SugaredLogger
}

// NewRouter serves every API route both at the root and under /api.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger, recoverer(s.Logger), instrument)
	r.Use(corsHandler(s.CORSOrigins))
	if s.Development {
		r.Use(handlers.ExposeErrors)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", s.routes)
	r.Group(s.routes)
	return r
}

func (s *Server) routes(r chi.Router) {
	lg := s.Logger
	if s.Limiter != nil {
		r.Use(s.Limiter.Handler)
	}

	r.Get("/", handlers.Welcome)
	r.Get("/docs", handlers.Docs)

	r.Post("/auth/register", handlers.Register(s.Accounts, lg))
	r.Post("/auth/login", handlers.Login(s.Accounts, lg))

	r.Get("/bot/health", handlers.HealthAPI(s.Health))
	r.Get("/bot/health/database", handlers.HealthDatabase(s.Health, lg))
	r.Get("/bot/health/system", handlers.HealthSystem(s.Health, lg))
	r.Get("/bot/status", handlers.BotStatus)
	r.Get("/bot/stats", handlers.BotStats)
	r.Post("/bot/log", handlers.ClientLog(lg))

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(s.Verifier))

		r.Get("/auth/api-key", handlers.GetAPIKey(s.Accounts, lg))
		r.Post("/auth/api-key/regenerate", handlers.RegenerateAPIKey(s.Accounts, lg))

		r.Get("/bot/stats/history", handlers.StatsHistory(s.BotStats, lg))
		r.Post("/bot/stats/update", handlers.UpdateStats(s.BotStats, lg))
		r.With(auth.RequireAdmin).Post("/bot/restart", handlers.RestartBot(lg))
		r.With(auth.RequireAdmin).Put("/bot/settings", handlers.UpdateBotSettings(lg))
		r.With(auth.RequireBotOwner).Post("/bot/execute", handlers.ExecuteCommand(lg))

		r.Get("/commands", handlers.ListCommands)
		r.Get("/commands/category/{category}", handlers.CommandsByCategory(lg))
		r.Get("/commands/{name}", handlers.GetCommand(lg))
		r.With(auth.RequireAdmin).Put("/commands/{name}/toggle", handlers.ToggleCommand(lg))

		r.Get("/guilds", handlers.ListGuilds)
		r.Get("/guilds/{id}", handlers.GetGuild)
		r.Get("/guilds/{id}/settings", handlers.GuildSettings)
		r.With(auth.RequireAdmin).Put("/guilds/{id}/settings", handlers.UpdateGuildSettings(lg))
		r.With(auth.RequireAdmin).Delete("/guilds/{id}/leave", handlers.LeaveGuild(lg))

		r.Get("/users/me", handlers.Me(s.Accounts, lg))
		r.Put("/users/me", handlers.UpdateMe(s.Accounts, lg))
		r.Put("/users/me/password", handlers.ChangePassword(s.Accounts, lg))
		r.Post("/users/me/discord", handlers.LinkDiscord(s.Accounts, lg))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/users", handlers.ListUsers(s.Accounts, lg))
			r.Get("/users/{id}", handlers.GetUser(s.Accounts, lg))
			r.Put("/users/{id}", handlers.UpdateUser(s.Accounts, lg))
			r.Delete("/users/{id}", handlers.DeleteUser(s.Accounts, lg))
		})
	})
}
