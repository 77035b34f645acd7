package database

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/protomem/preach-tracker/internal/model"
)

type ChurchDAO struct {
	Logger *slog.Logger
	*DB
}

func NewChurchDAO(logger *slog.Logger, db *DB) *ChurchDAO {
	return &ChurchDAO{
		Logger: logger.With("dao", "church"),
		DB:     db,
	}
}

func (dao *ChurchDAO) Find(ctx context.Context, opts FindOptions) ([]model.Church, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := applyFindOptions(
		dao.Builder.
			Select("*").
			From("churches").
			OrderBy("created_at DESC", "id ASC"),
		opts,
	).ToSql()
	if err != nil {
		return []model.Church{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	churches := make([]model.Church, 0)
	if err := dao.SelectContext(ctx, &churches, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Church{}, classify(err)
	}

	logger.Debug("success query execute", "countChurches", len(churches))

	return churches, nil
}

func (dao *ChurchDAO) Get(ctx context.Context, id model.ID) (model.Church, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("churches").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Church{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var church model.Church
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&church); err != nil {
		if IsNoRows(err) {
			return model.Church{}, model.NewError("church", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Church{}, classify(err)
	}

	return church, nil
}

type InsertChurchDTO struct {
	Name     string
	Timezone string
}

func (dto *InsertChurchDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return model.NewError("church", model.NewValidationError("name", "required"))
	}
	if dto.Timezone == "" {
		dto.Timezone = model.DefaultTimezone
	}
	if _, err := time.LoadLocation(dto.Timezone); err != nil {
		return model.NewError("church", model.NewValidationError("timezone", "unknown time zone"))
	}
	return nil
}

func (dao *ChurchDAO) Insert(ctx context.Context, dto InsertChurchDTO) (model.Church, error) {
	logger := dao.Logger.With("query", "insert")

	if err := dto.Validate(); err != nil {
		return model.Church{}, err
	}

	query, args, err := dao.Builder.
		Insert("churches").
		Columns("id", "name", "timezone", "created_at").
		Values(uuid.NewString(), dto.Name, dto.Timezone, time.Now().UTC()).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Church{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var church model.Church
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&church); err != nil {
		logger.Warn("failed query execute", "error", err)

		return model.Church{}, classify(err)
	}

	logger.Debug("success query execute", "insertId", church.ID)

	return church, nil
}

type UpdateChurchDTO struct {
	Name     *string
	Timezone *string
}

func (dto UpdateChurchDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return model.NewError("church", model.NewValidationError("name", "cannot be blank"))
	}
	if dto.Timezone != nil {
		if _, err := time.LoadLocation(*dto.Timezone); err != nil || *dto.Timezone == "" {
			return model.NewError("church", model.NewValidationError("timezone", "unknown time zone"))
		}
	}
	return nil
}

func (dao *ChurchDAO) Update(ctx context.Context, id model.ID, dto UpdateChurchDTO) (model.Church, error) {
	logger := dao.Logger.With("query", "update")

	if err := dto.Validate(); err != nil {
		return model.Church{}, err
	}

	data := make(map[string]any, 2)
	if dto.Name != nil {
		data["name"] = *dto.Name
	}
	if dto.Timezone != nil {
		data["timezone"] = *dto.Timezone
	}

	if len(data) == 0 {
		return dao.Get(ctx, id)
	}

	query, args, err := dao.Builder.
		Update("churches").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Church{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var church model.Church
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&church); err != nil {
		if IsNoRows(err) {
			return model.Church{}, model.NewError("church", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Church{}, classify(err)
	}

	logger.Debug("success query execute", "updateId", id, "countUpdatedFields", len(data))

	return church, nil
}

// Delete removes the church row only. Preachers and sessions keep their
// church_id and are left orphaned.
func (dao *ChurchDAO) Delete(ctx context.Context, id model.ID) error {
	return deleteByID(ctx, dao.DB, dao.Logger, "churches", "church", id)
}

func deleteByID(ctx context.Context, db *DB, logger *slog.Logger, table, entity string, id model.ID) error {
	logger = logger.With("query", "delete")

	query, args, err := db.Builder.
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := db.WithTimeout(ctx)
	defer cancel()

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return classify(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return model.NewError(entity, model.ErrNotFound)
	}

	logger.Debug("success query execute", "deleteId", id)

	return nil
}
