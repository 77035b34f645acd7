package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)
	mux.Use(app.metrics)

	mux.Use(app.CORS)

	mux.Get("/health", app.handleHealth)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Use(app.authenticate)

		r.Route("/auth", func(r chi.Router) {
			r.With(app.rateLimitAuth).Post("/register", app.handleRegister)
			r.With(app.rateLimitAuth).Post("/login", app.handleLogin)
			r.With(app.requireUser).Get("/me", app.handleMe)
		})

		r.With(app.requireAdmin).Patch("/users/{userId}/role", app.handleSetUserRole)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", app.handleListSessions)
			r.With(app.requireUser).Post("/", app.handleCreateSession)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", app.handleGetSession)
				r.With(app.requireUser).Patch("/", app.handleUpdateSession)
				r.With(app.requireAdmin).Delete("/", app.handleDeleteSession)
				r.With(app.requireUser).Post("/start", app.handleStartSession)
				r.With(app.requireUser).Post("/stop", app.handleStopSession)
			})
		})

		r.Route("/churches", func(r chi.Router) {
			r.Get("/", app.handleListChurches)
			r.With(app.requireUser).Post("/", app.handleCreateChurch)

			r.Route("/{churchId}", func(r chi.Router) {
				r.Get("/", app.handleGetChurch)
				r.With(app.requireUser).Patch("/", app.handleUpdateChurch)
				r.With(app.requireAdmin).Delete("/", app.handleDeleteChurch)
				r.Get("/preachers", app.handleListChurchPreachers)
			})
		})

		r.Route("/preachers", func(r chi.Router) {
			r.Get("/", app.handleListPreachers)
			r.With(app.requireUser).Post("/", app.handleCreatePreacher)

			r.Route("/{preacherId}", func(r chi.Router) {
				r.Get("/", app.handleGetPreacher)
				r.With(app.requireUser).Patch("/", app.handleUpdatePreacher)
				r.With(app.requireAdmin).Delete("/", app.handleDeletePreacher)
			})
		})

		r.Route("/badges", func(r chi.Router) {
			r.Get("/", app.handleListBadges)
			r.With(app.requireUser).Post("/", app.handleCreateBadge)

			r.Get("/assignments", app.handleBadgeAssignments)
			r.With(app.requireUser).Post("/assign", app.handleAssignBadge)
			r.With(app.requireUser).Delete("/assign", app.handleUnassignBadgeQuery)
			r.With(app.requireUser).Post("/unassign", app.handleUnassignBadge)

			r.With(app.requireUser).Patch("/{badgeId}", app.handleUpdateBadge)
			r.With(app.requireAdmin).Delete("/{badgeId}", app.handleDeleteBadge)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", app.handleAnalyticsSummary)
			r.Get("/time-series", app.handleAnalyticsTimeSeries)
			r.Get("/top", app.handleAnalyticsTop)
			r.Get("/shortest", app.handleAnalyticsShortest)
			r.Get("/overlap", app.handleAnalyticsOverlap)
		})
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
