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

type PreacherDAO struct {
	Logger *slog.Logger
	*DB
}

func NewPreacherDAO(logger *slog.Logger, db *DB) *PreacherDAO {
	return &PreacherDAO{
		Logger: logger.With("dao", "preacher"),
		DB:     db,
	}
}

type FindPreacherFilter struct {
	Church *model.ID
}

func (dao *PreacherDAO) Find(ctx context.Context, filter FindPreacherFilter, opts FindOptions) ([]model.Preacher, error) {
	logger := dao.Logger.With("query", "find")

	equals := squirrel.Eq{}
	if filter.Church != nil {
		equals["church_id"] = *filter.Church
	}

	query, args, err := applyFindOptions(
		dao.Builder.
			Select("*").
			From("preachers").
			Where(equals).
			OrderBy("created_at ASC", "id ASC"),
		opts,
	).ToSql()
	if err != nil {
		return []model.Preacher{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	preachers := make([]model.Preacher, 0)
	if err := dao.SelectContext(ctx, &preachers, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Preacher{}, classify(err)
	}

	logger.Debug("success query execute", "countPreachers", len(preachers))

	return preachers, nil
}

func (dao *PreacherDAO) Get(ctx context.Context, id model.ID) (model.Preacher, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("preachers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Preacher{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var preacher model.Preacher
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&preacher); err != nil {
		if IsNoRows(err) {
			return model.Preacher{}, model.NewError("preacher", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Preacher{}, classify(err)
	}

	return preacher, nil
}

type InsertPreacherDTO struct {
	Name      string
	Church    *model.ID
	AvatarURL *string
}

func (dto InsertPreacherDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return model.NewError("preacher", model.NewValidationError("name", "required"))
	}
	return nil
}

func (dao *PreacherDAO) Insert(ctx context.Context, dto InsertPreacherDTO) (model.Preacher, error) {
	logger := dao.Logger.With("query", "insert")

	if err := dto.Validate(); err != nil {
		return model.Preacher{}, err
	}

	query, args, err := dao.Builder.
		Insert("preachers").
		Columns("id", "name", "church_id", "avatar_url", "created_at").
		Values(uuid.NewString(), dto.Name, dto.Church, dto.AvatarURL, time.Now().UTC()).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Preacher{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var preacher model.Preacher
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&preacher); err != nil {
		logger.Warn("failed query execute", "error", err)

		return model.Preacher{}, classify(err)
	}

	logger.Debug("success query execute", "insertId", preacher.ID)

	return preacher, nil
}

// UpdatePreacherDTO writes only the fields that are Set. An explicit null
// clears the church affiliation or the avatar.
type UpdatePreacherDTO struct {
	Name      model.Opt[string]
	Church    model.Opt[model.ID]
	AvatarURL model.Opt[string]
}

func (dto UpdatePreacherDTO) Validate() error {
	if dto.Name.Set && (dto.Name.Value == nil || strings.TrimSpace(*dto.Name.Value) == "") {
		return model.NewError("preacher", model.NewValidationError("name", "cannot be blank"))
	}
	return nil
}

func (dao *PreacherDAO) Update(ctx context.Context, id model.ID, dto UpdatePreacherDTO) (model.Preacher, error) {
	logger := dao.Logger.With("query", "update")

	if err := dto.Validate(); err != nil {
		return model.Preacher{}, err
	}

	data := make(map[string]any, 3)
	if dto.Name.Set {
		data["name"] = *dto.Name.Value
	}
	if dto.Church.Set {
		data["church_id"] = dto.Church.Value
	}
	if dto.AvatarURL.Set {
		data["avatar_url"] = dto.AvatarURL.Value
	}

	if len(data) == 0 {
		return dao.Get(ctx, id)
	}

	query, args, err := dao.Builder.
		Update("preachers").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Preacher{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var preacher model.Preacher
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&preacher); err != nil {
		if IsNoRows(err) {
			return model.Preacher{}, model.NewError("preacher", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Preacher{}, classify(err)
	}

	logger.Debug("success query execute", "updateId", id, "countUpdatedFields", len(data))

	return preacher, nil
}

// Delete removes the preacher row only; its sessions stay, orphaned.
func (dao *PreacherDAO) Delete(ctx context.Context, id model.ID) error {
	return deleteByID(ctx, dao.DB, dao.Logger, "preachers", "preacher", id)
}
