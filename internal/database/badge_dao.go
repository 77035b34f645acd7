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

type BadgeDAO struct {
	Logger *slog.Logger
	*DB
}

func NewBadgeDAO(logger *slog.Logger, db *DB) *BadgeDAO {
	return &BadgeDAO{
		Logger: logger.With("dao", "badge"),
		DB:     db,
	}
}

func (dao *BadgeDAO) Find(ctx context.Context) ([]model.Badge, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := dao.Builder.
		Select("*").
		From("badges").
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return []model.Badge{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	badges := make([]model.Badge, 0)
	if err := dao.SelectContext(ctx, &badges, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Badge{}, classify(err)
	}

	logger.Debug("success query execute", "countBadges", len(badges))

	return badges, nil
}

func (dao *BadgeDAO) Get(ctx context.Context, id model.ID) (model.Badge, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("badges").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Badge{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var badge model.Badge
	if err := dao.QueryRowxContext(ctx, query, args...).StructScan(&badge); err != nil {
		if IsNoRows(err) {
			return model.Badge{}, model.NewError("badge", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Badge{}, classify(err)
	}

	return badge, nil
}

type InsertBadgeDTO struct {
	Label string
	Emoji string
	Color string
}

func (dto *InsertBadgeDTO) Validate() error {
	if strings.TrimSpace(dto.Label) == "" {
		return model.NewError("badge", model.NewValidationError("label", "required"))
	}
	if dto.Emoji == "" {
		dto.Emoji = model.DefaultBadgeEmoji
	}
	if dto.Color == "" {
		dto.Color = model.DefaultBadgeColor
	}
	return nil
}

func (dao *BadgeDAO) Insert(ctx context.Context, dto InsertBadgeDTO) (model.Badge, error) {
	logger := dao.Logger.With("query", "insert")

	if err := dto.Validate(); err != nil {
		return model.Badge{}, err
	}

	query, args, err := dao.Builder.
		Insert("badges").
		Columns("id", "label", "emoji", "color", "created_at").
		Values(uuid.NewString(), dto.Label, dto.Emoji, dto.Color, time.Now().UTC()).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Badge{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var badge model.Badge
	if err := dao.QueryRowxContext(ctx, query, args...).StructScan(&badge); err != nil {
		logger.Warn("failed query execute", "error", err)

		return model.Badge{}, classify(err)
	}

	logger.Debug("success query execute", "insertId", badge.ID)

	return badge, nil
}

type UpdateBadgeDTO struct {
	Label *string
	Emoji *string
	Color *string
}

func (dao *BadgeDAO) Update(ctx context.Context, id model.ID, dto UpdateBadgeDTO) (model.Badge, error) {
	logger := dao.Logger.With("query", "update")

	if dto.Label != nil && strings.TrimSpace(*dto.Label) == "" {
		return model.Badge{}, model.NewError("badge", model.NewValidationError("label", "cannot be blank"))
	}

	data := make(map[string]any, 3)
	if dto.Label != nil {
		data["label"] = *dto.Label
	}
	if dto.Emoji != nil {
		data["emoji"] = *dto.Emoji
	}
	if dto.Color != nil {
		data["color"] = *dto.Color
	}

	if len(data) == 0 {
		return dao.Get(ctx, id)
	}

	query, args, err := dao.Builder.
		Update("badges").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Badge{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var badge model.Badge
	if err := dao.QueryRowxContext(ctx, query, args...).StructScan(&badge); err != nil {
		if IsNoRows(err) {
			return model.Badge{}, model.NewError("badge", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Badge{}, classify(err)
	}

	logger.Debug("success query execute", "updateId", id, "countUpdatedFields", len(data))

	return badge, nil
}

// Delete removes the badge; its assignments go with it through the foreign key.
func (dao *BadgeDAO) Delete(ctx context.Context, id model.ID) error {
	return deleteByID(ctx, dao.DB, dao.Logger, "badges", "badge", id)
}

// Assign is idempotent: a second assignment of the same pair is a no-op.
func (dao *BadgeDAO) Assign(ctx context.Context, preacher, badge model.ID, assignedBy *model.ID) error {
	logger := dao.Logger.With("query", "assign")

	if preacher == "" {
		return model.NewError("badge", model.NewValidationError("preacher_id", "required"))
	}
	if badge == "" {
		return model.NewError("badge", model.NewValidationError("badge_id", "required"))
	}

	query, args, err := dao.Builder.
		Insert("badge_assignments").
		Columns("preacher_id", "badge_id", "assigned_by", "assigned_at").
		Values(preacher, badge, assignedBy, time.Now().UTC()).
		Suffix("ON CONFLICT (preacher_id, badge_id) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsForeignKeyViolation(err) {
			return model.NewError("badge", model.ErrNotFound)
		}

		return classify(err)
	}

	return nil
}

func (dao *BadgeDAO) Unassign(ctx context.Context, preacher, badge model.ID) error {
	logger := dao.Logger.With("query", "unassign")

	query, args, err := dao.Builder.
		Delete("badge_assignments").
		Where(squirrel.Eq{"preacher_id": preacher, "badge_id": badge}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return classify(err)
	}

	return nil
}

// Assignments maps each preacher to the ids of the badges they hold.
func (dao *BadgeDAO) Assignments(ctx context.Context) (map[model.ID][]model.ID, error) {
	logger := dao.Logger.With("query", "assignments")

	query, args, err := dao.Builder.
		Select("*").
		From("badge_assignments").
		OrderBy("preacher_id ASC", "assigned_at ASC", "badge_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var rows []model.BadgeAssignment
	if err := dao.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return nil, classify(err)
	}

	assignments := make(map[model.ID][]model.ID)
	for _, row := range rows {
		assignments[row.Preacher] = append(assignments[row.Preacher], row.Badge)
	}

	return assignments, nil
}
