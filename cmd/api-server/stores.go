package main

import (
	"context"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
)

// Handlers depend on these rather than on the DAOs directly.

type healthChecker interface {
	Ping(ctx context.Context) error
}

type userStore interface {
	Get(ctx context.Context, id model.ID) (model.User, error)
	GetByLogin(ctx context.Context, login string) (model.User, error)
	Insert(ctx context.Context, dto database.InsertUserDTO) (model.User, error)
	SetRole(ctx context.Context, id model.ID, role model.Role) (model.User, error)
}

type churchStore interface {
	Find(ctx context.Context, opts database.FindOptions) ([]model.Church, error)
	Get(ctx context.Context, id model.ID) (model.Church, error)
	Insert(ctx context.Context, dto database.InsertChurchDTO) (model.Church, error)
	Update(ctx context.Context, id model.ID, dto database.UpdateChurchDTO) (model.Church, error)
	Delete(ctx context.Context, id model.ID) error
}

type preacherStore interface {
	Find(ctx context.Context, filter database.FindPreacherFilter, opts database.FindOptions) ([]model.Preacher, error)
	Get(ctx context.Context, id model.ID) (model.Preacher, error)
	Insert(ctx context.Context, dto database.InsertPreacherDTO) (model.Preacher, error)
	Update(ctx context.Context, id model.ID, dto database.UpdatePreacherDTO) (model.Preacher, error)
	Delete(ctx context.Context, id model.ID) error
}

type badgeStore interface {
	Find(ctx context.Context) ([]model.Badge, error)
	Get(ctx context.Context, id model.ID) (model.Badge, error)
	Insert(ctx context.Context, dto database.InsertBadgeDTO) (model.Badge, error)
	Update(ctx context.Context, id model.ID, dto database.UpdateBadgeDTO) (model.Badge, error)
	Delete(ctx context.Context, id model.ID) error
	Assign(ctx context.Context, preacher, badge model.ID, assignedBy *model.ID) error
	Unassign(ctx context.Context, preacher, badge model.ID) error
	Assignments(ctx context.Context) (map[model.ID][]model.ID, error)
}

var (
	_ healthChecker = (*database.DB)(nil)
	_ userStore     = (*database.UserDAO)(nil)
	_ churchStore   = (*database.ChurchDAO)(nil)
	_ preacherStore = (*database.PreacherDAO)(nil)
	_ badgeStore    = (*database.BadgeDAO)(nil)
)
