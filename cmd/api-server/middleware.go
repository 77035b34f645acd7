package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/protomem/preach-tracker/internal/ctxstore"
	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/response"
	"github.com/rs/cors"
	"github.com/tomasen/realip"
	"golang.org/x/time/rate"
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := r.Header.Get("X-Request-ID")
		if tid == "" {
			tid = genTraceID()
		}

		w.Header().Set("X-Request-ID", tid)

		ctx := ctxstore.With(r.Context(), ctxstore.TraceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.TraceID(r.Context())
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, ctxstore.TraceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

var (
	_httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests."},
		[]string{"path", "method", "status"},
	)
	_httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(_httpRequestsTotal, _httpRequestDuration)
}

// metrics labels requests by route pattern so path parameters do not explode
// the label space.
func (app *application) metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := response.NewMetricsResponseWriter(w)

		next.ServeHTTP(mw, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		_httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(mw.StatusCode)).Inc()
		_httpRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

// authenticate resolves a bearer token into the current user. Requests
// without an Authorization header pass through anonymously.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			app.unauthorized(w, r, "invalid authorization header")
			return
		}

		claims, err := app.jwt.Parse(token)
		if err != nil {
			app.unauthorized(w, r, "invalid token")
			return
		}

		user, err := app.users.Get(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				app.unauthorized(w, r, "user not found")
				return
			}
			app.storeError(w, r, err)
			return
		}

		ctx := ctxstore.With(r.Context(), ctxstore.UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r); !ok {
			app.unauthorized(w, r, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAdmin(next http.Handler) http.Handler {
	return app.requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _ := currentUser(r); !user.IsAdmin() {
			app.forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (app *application) rateLimitAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.authLimiter.allow(realip.FromRequest(r)) {
			app.tooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) (model.User, bool) {
	return ctxstore.From[model.User](r.Context(), ctxstore.UserKey)
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}

const (
	_limiterIdleTTL     = 3 * time.Minute
	_limiterSweepPeriod = time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client address. Buckets idle for
// longer than _limiterIdleTTL are dropped.
type ipRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*ipLimiter
	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*ipLimiter),
		now:     time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > _limiterSweepPeriod {
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) > _limiterIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}
