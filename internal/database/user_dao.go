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

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

func (dao *UserDAO) Get(ctx context.Context, id model.ID) (model.User, error) {
	return dao.getBy(ctx, "get", squirrel.Eq{"id": id})
}

// GetByLogin matches the login exactly; logins are case-sensitive.
func (dao *UserDAO) GetByLogin(ctx context.Context, login string) (model.User, error) {
	return dao.getBy(ctx, "getByLogin", squirrel.Eq{"login": login})
}

func (dao *UserDAO) getBy(ctx context.Context, name string, where squirrel.Eq) (model.User, error) {
	logger := dao.Logger.With("query", name)

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, classify(err)
	}

	logger.Debug("success query execute", "userId", user.ID)

	return user, nil
}

type InsertUserDTO struct {
	Login        string
	Email        *string
	Name         *string
	PasswordHash string
	Role         model.Role
}

func (dto InsertUserDTO) Validate() error {
	if strings.TrimSpace(dto.Login) == "" {
		return model.NewError("user", model.NewValidationError("login", "required"))
	}
	if dto.PasswordHash == "" {
		return model.NewError("user", model.NewValidationError("password", "required"))
	}
	if dto.Role != "" && !dto.Role.Valid() {
		return model.NewError("user", model.NewValidationError("role", "must be user or admin"))
	}
	return nil
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.User, error) {
	logger := dao.Logger.With("query", "insert")

	if err := dto.Validate(); err != nil {
		return model.User{}, err
	}

	role := dto.Role
	if role == "" {
		role = model.RoleUser
	}

	query, args, err := dao.Builder.
		Insert("users").
		Columns("id", "login", "email", "name", "password_hash", "role", "created_at").
		Values(uuid.NewString(), dto.Login, dto.Email, dto.Name, dto.PasswordHash, string(role), time.Now().UTC()).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "login", dto.Login)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return model.User{}, model.NewError("user", model.ErrExists)
		}

		return model.User{}, classify(err)
	}

	logger.Debug("success query execute", "insertId", user.ID)

	return user, nil
}

// SetRole is the only mutation users support.
func (dao *UserDAO) SetRole(ctx context.Context, id model.ID, role model.Role) (model.User, error) {
	logger := dao.Logger.With("query", "setRole")

	if !role.Valid() {
		return model.User{}, model.NewError("user", model.NewValidationError("role", "must be user or admin"))
	}

	query, args, err := dao.Builder.
		Update("users").
		Set("role", string(role)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	ctx, cancel := dao.WithTimeout(ctx)
	defer cancel()

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, classify(err)
	}

	logger.Debug("success query execute", "updateId", id, "role", role)

	return user, nil
}
