/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the portal frontend

ROUTE GROUPS:
  /api/schedules/*      Daily roster and manual edits
  /api/distribution/*   Preview, apply, run history
  /api/rules/*          Break rules
  /api/settings/*       Ladder settings
  /api/shift-hours/*    Shift windows
  /api/agents/*         Agent management
  /api/scenarios/*      Demo scenarios
  /metrics              Prometheus scrape endpoint
  /*                    Static files (frontend)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/workforce-portal/metrics"
)

// DefaultAllowedOrigins is used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Roster routes
		r.Route("/schedules/{date}", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Put("/agents/{userID}/breaks", h.UpdateAgentBreaks)
			r.Put("/agents/{userID}/shift", h.UpdateAgentShift)
		})

		// Distribution routes
		r.Route("/distribution", func(r chi.Router) {
			r.Get("/strategies", h.ListStrategies)
			r.Post("/preview", h.PreviewDistribution)
			r.Post("/apply", h.ApplyDistribution)
			r.Get("/runs", h.ListDistributionRuns)
		})

		// Rule routes
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.ListRules)
			r.Post("/", h.CreateRule)
			r.Post("/validate", h.ValidateRule)
			r.Get("/{id}", h.GetRule)
			r.Put("/{id}", h.UpdateRule)
			r.Delete("/{id}", h.DeleteRule)
		})

		// Configuration routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.ListSettings)
			r.Put("/{shift}", h.SaveSettings)
		})
		r.Route("/shift-hours", func(r chi.Router) {
			r.Get("/", h.ListShiftHours)
			r.Put("/{shift}", h.SaveShiftHours)
		})

		// Agent routes
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.ListAgents)
			r.Post("/", h.CreateAgent)
			r.Get("/{id}", h.GetAgent)
			r.Delete("/{id}", h.DeleteAgent)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	// Serve static files (portal frontend)
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Break Scheduler</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Break Scheduler API</h1>
<ul>
<li><a href="/api/agents">/api/agents</a> - List agents</li>
<li><a href="/api/rules">/api/rules</a> - List rules</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
<li><a href="/api/distribution/strategies">/api/distribution/strategies</a> - Strategies</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
