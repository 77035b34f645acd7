package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/protomem/preach-tracker/internal/analytics"
	"github.com/protomem/preach-tracker/internal/auth"
	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/env"
	"github.com/protomem/preach-tracker/internal/tracker"
	"github.com/protomem/preach-tracker/internal/version"
	"golang.org/x/time/rate"

	_ "go.uber.org/automaxprocs"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func main() {
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	err := run(logger, level)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	http struct {
		host            string
		port            int
		readTimeout     time.Duration
		writeTimeout    time.Duration
		idleTimeout     time.Duration
		shutdownTimeout time.Duration
	}
	logLevel string
	db       struct {
		dsn         string
		automigrate bool
		timezone    string
	}
	jwt struct {
		secret string
		issuer string
		ttl    time.Duration
	}
	auth struct {
		adminLogin string
		rateLimit  float64
		rateBurst  int
	}
}

type application struct {
	config config
	logger *slog.Logger

	health    healthChecker
	users     userStore
	churches  churchStore
	preachers preacherStore
	badges    badgeStore

	sessions  *tracker.Manager
	analytics *analytics.Aggregator

	jwt         *auth.JWTer
	authLimiter *ipRateLimiter
}

func loadConfig() (config, error) {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return cfg, err
		}
	}

	cfg.http.host = env.GetString("HTTP_HOST", "localhost")
	cfg.http.port = env.GetInt("HTTP_PORT", 8080)
	cfg.http.readTimeout = env.GetDuration("HTTP_READ_TIMEOUT", 5*time.Second)
	cfg.http.writeTimeout = env.GetDuration("HTTP_WRITE_TIMEOUT", 10*time.Second)
	cfg.http.idleTimeout = env.GetDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	cfg.http.shutdownTimeout = env.GetDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second)
	cfg.logLevel = env.GetString("LOG_LEVEL", "debug")
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.db.timezone = env.GetString("STORE_TIMEZONE", "UTC")
	cfg.jwt.secret = env.GetString("JWT_SECRET", "")
	cfg.jwt.issuer = env.GetString("JWT_ISSUER", "preach-tracker")
	cfg.jwt.ttl = env.GetDuration("JWT_TTL", 60*time.Minute)
	cfg.auth.adminLogin = env.GetString("ADMIN_LOGIN", "")
	cfg.auth.rateLimit = env.GetFloat("AUTH_RATE_LIMIT", 1)
	cfg.auth.rateBurst = env.GetInt("AUTH_RATE_BURST", 5)

	if cfg.jwt.secret == "" {
		return cfg, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	return level, err
}

func run(logger *slog.Logger, level *slog.LevelVar) error {
	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lvl, err := parseLevel(cfg.logLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	level.Set(lvl)

	loc, err := time.LoadLocation(cfg.db.timezone)
	if err != nil {
		return fmt.Errorf("STORE_TIMEZONE: %w", err)
	}

	db, err := database.New(logger, cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionDAO := database.NewSessionDAO(logger, db)

	app := &application{
		config: cfg,
		logger: logger,

		health:    db,
		users:     database.NewUserDAO(logger, db),
		churches:  database.NewChurchDAO(logger, db),
		preachers: database.NewPreacherDAO(logger, db),
		badges:    database.NewBadgeDAO(logger, db),

		sessions:  tracker.NewManager(logger, sessionDAO),
		analytics: analytics.NewAggregator(logger, sessionDAO, loc),

		jwt:         auth.NewJWTer(cfg.jwt.secret, cfg.jwt.issuer, cfg.jwt.ttl),
		authLimiter: newIPRateLimiter(rate.Limit(cfg.auth.rateLimit), cfg.auth.rateBurst),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.serveHTTP(ctx)
}
