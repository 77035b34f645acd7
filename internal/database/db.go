package database

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/preach-tracker/assets"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	_defaultTimeout = 3 * time.Second
	_driverName     = "pgx"
)

type DB struct {
	*sqlx.DB
	Builder squirrel.StatementBuilderType

	timeout time.Duration
}

func New(logger *slog.Logger, dsn string, automigrate bool) (*DB, error) {
	logger = logger.With("module", "database")

	ctx, cancel := context.WithTimeout(context.Background(), _defaultTimeout)
	defer cancel()

	url := connURL(dsn)

	db, err := sqlx.ConnectContext(ctx, _driverName, url)
	if err != nil {
		return nil, classify(err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	if automigrate {
		if err := migrateUp(url); err != nil {
			_ = db.Close()
			return nil, err
		}

		logger.Info("migrations applied")
	}

	return &DB{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		timeout: _defaultTimeout,
	}, nil
}

func migrateUp(url string) error {
	iofsDriver, err := iofs.New(assets.EmbeddedFiles, "migrations")
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", iofsDriver, url)
	if err != nil {
		return classify(err)
	}
	defer migrator.Close()

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case err != nil:
		return err
	}

	return nil
}

// connURL accepts either a full postgres:// URL or the short
// "user:pass@host:port/db" form and disables SSL unless told otherwise.
func connURL(dsn string) string {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		dsn = "postgres://" + dsn
	}
	if !strings.Contains(dsn, "sslmode=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "sslmode=disable"
	}
	return dsn
}

// WithTimeout bounds a single store round-trip.
func (db *DB) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.timeout)
}

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.WithTimeout(ctx)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

type FindOptions struct {
	Limit  uint64
	Offset uint64
}

func applyFindOptions(b squirrel.SelectBuilder, opts FindOptions) squirrel.SelectBuilder {
	if opts.Limit > 0 {
		b = b.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		b = b.Offset(opts.Offset)
	}
	return b
}
