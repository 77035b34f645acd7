package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/protomem/preach-tracker/internal/model"
)

type SessionDAO struct {
	Logger *slog.Logger
	*DB
}

func NewSessionDAO(logger *slog.Logger, db *DB) *SessionDAO {
	return &SessionDAO{
		Logger: logger.With("dao", "session"),
		DB:     db,
	}
}

// FindSessionFilter selects started sessions only; From is inclusive and To
// exclusive, both compared against start_at. With HasDuration set it selects
// sessions with a duration instead, started or not.
type FindSessionFilter struct {
	Preacher    *model.ID
	Church      *model.ID
	From        *time.Time
	To          *time.Time
	HasDuration bool
}

func (dao *SessionDAO) Find(ctx context.Context, filter FindSessionFilter) ([]model.Session, error) {
	logger := dao.Logger.With("query", "find")

	where := squirrel.And{squirrel.NotEq{"start_at": nil}}
	if filter.HasDuration {
		where = squirrel.And{squirrel.NotEq{"duration_sec": nil}}
	}
	if filter.Preacher != nil {
		where = append(where, squirrel.Eq{"preacher_id": *filter.Preacher})
	}
	if filter.Church != nil {
		where = append(where, squirrel.Eq{"church_id": *filter.Church})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.Lt{"start_at": *filter.To})
	}

	query, args, err := dao.Builder.
		Select("*").
		From("sessions").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return []model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	sessions := make([]model.Session, 0)
	if err := dao.SelectContext(ctx, &sessions, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Session{}, classify(err)
	}

	logger.Debug("success query execute", "countSessions", len(sessions))

	return sessions, nil
}

func (dao *SessionDAO) Get(ctx context.Context, id model.ID) (model.Session, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var session model.Session
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.Session{}, model.NewError("session", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Session{}, classify(err)
	}

	return session, nil
}

// Insert stores s as given, duration included. ID and CreatedAt are assigned
// when empty.
func (dao *SessionDAO) Insert(ctx context.Context, s model.Session) (model.Session, error) {
	logger := dao.Logger.With("query", "insert")

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query, args, err := dao.Builder.
		Insert("sessions").
		Columns(
			"id", "church_id", "preacher_id",
			"start_at", "end_at", "duration_sec",
			"service_type", "notes", "created_at",
		).
		Values(
			s.ID, s.Church, s.Preacher,
			s.StartAt, s.EndAt, s.DurationSec,
			s.ServiceType, s.Notes, s.CreatedAt,
		).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var session model.Session
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return model.Session{}, model.NewError("session", model.ErrExists)
		}

		return model.Session{}, classify(err)
	}

	logger.Debug("success query execute", "insertId", session.ID)

	return session, nil
}

// Modify locks the row, hands a copy to fn and writes back every mutable
// column in the same transaction. Nothing is written if fn fails.
func (dao *SessionDAO) Modify(ctx context.Context, id model.ID, fn func(*model.Session) error) (model.Session, error) {
	logger := dao.Logger.With("query", "modify")

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		logger.Warn("failed begin tx", "error", err)

		return model.Session{}, classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := dao.Builder.
		Select("*").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var session model.Session
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.Session{}, model.NewError("session", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Session{}, classify(err)
	}

	if err := fn(&session); err != nil {
		return model.Session{}, err
	}

	query, args, err = dao.Builder.
		Update("sessions").
		SetMap(map[string]any{
			"church_id":    session.Church,
			"preacher_id":  session.Preacher,
			"start_at":     session.StartAt,
			"end_at":       session.EndAt,
			"duration_sec": session.DurationSec,
			"service_type": session.ServiceType,
			"notes":        session.Notes,
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var updated model.Session
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		logger.Warn("failed query execute", "error", err)

		return model.Session{}, classify(err)
	}

	if err := tx.Commit(); err != nil {
		logger.Warn("failed commit tx", "error", err)

		return model.Session{}, classify(err)
	}

	logger.Debug("success query execute", "updateId", id)

	return updated, nil
}

func (dao *SessionDAO) Delete(ctx context.Context, id model.ID) error {
	return deleteByID(ctx, dao.DB, dao.Logger, "sessions", "session", id)
}
