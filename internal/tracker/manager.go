// Package tracker drives the session lifecycle: create, start, stop, patch and
// delete, keeping duration_sec consistent with the session bounds.
package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
)

// Store is the persistence the manager needs. Modify must run fn and the
// write-back atomically with respect to other Modify calls on the same id.
type Store interface {
	Insert(ctx context.Context, s model.Session) (model.Session, error)
	Get(ctx context.Context, id model.ID) (model.Session, error)
	Find(ctx context.Context, filter database.FindSessionFilter) ([]model.Session, error)
	Modify(ctx context.Context, id model.ID, fn func(*model.Session) error) (model.Session, error)
	Delete(ctx context.Context, id model.ID) error
}

var _ Store = (*database.SessionDAO)(nil)

type Option func(*Manager)

// WithClock replaces the server clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

type Manager struct {
	logger *slog.Logger
	store  Store
	now    func() time.Time
}

func NewManager(logger *slog.Logger, store Store, opts ...Option) *Manager {
	m := &Manager{
		logger: logger.With("module", "tracker"),
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type CreateInput struct {
	Church      *model.ID
	Preacher    *model.ID
	StartAt     *time.Time
	EndAt       *time.Time
	ServiceType *string
	Notes       *string
}

func (m *Manager) Create(ctx context.Context, in CreateInput) (model.Session, error) {
	s := model.Session{
		Church:      in.Church,
		Preacher:    in.Preacher,
		StartAt:     normalizePtr(in.StartAt),
		EndAt:       normalizePtr(in.EndAt),
		ServiceType: in.ServiceType,
		Notes:       in.Notes,
		CreatedAt:   m.clock(),
	}
	s.Recompute()

	created, err := m.store.Insert(ctx, s)
	if err != nil {
		return model.Session{}, err
	}

	observeTransition("create", created)
	m.logger.Debug("session created", "sessionId", created.ID, "state", created.State().String())

	return created, nil
}

func (m *Manager) Get(ctx context.Context, id model.ID) (model.Session, error) {
	return m.store.Get(ctx, id)
}

// Start sets start_at to now. Calling it again overwrites the previous start;
// on a completed session the duration is re-derived against the old end_at.
func (m *Manager) Start(ctx context.Context, id model.ID) (model.Session, error) {
	now := m.clock()

	s, err := m.store.Modify(ctx, id, func(s *model.Session) error {
		s.StartAt = &now
		s.Recompute()
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}

	observeTransition("start", s)
	m.logger.Debug("session started", "sessionId", s.ID, "startAt", now)

	return s, nil
}

// Stop sets end_at to now. Without a start the duration stays null.
func (m *Manager) Stop(ctx context.Context, id model.ID) (model.Session, error) {
	now := m.clock()

	s, err := m.store.Modify(ctx, id, func(s *model.Session) error {
		s.EndAt = &now
		s.Recompute()
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}

	observeTransition("stop", s)
	m.logger.Debug("session stopped", "sessionId", s.ID, "endAt", now, "durationSec", s.DurationSec)

	return s, nil
}

// Patch holds the fields of a partial update; unset fields are left alone.
type Patch struct {
	Church      model.Opt[model.ID]
	Preacher    model.Opt[model.ID]
	StartAt     model.Opt[time.Time]
	EndAt       model.Opt[time.Time]
	ServiceType model.Opt[string]
	Notes       model.Opt[string]
	DurationSec model.Opt[int64]
}

func (p Patch) TouchesBounds() bool {
	return p.StartAt.Set || p.EndAt.Set
}

func (p Patch) Empty() bool {
	return !p.Church.Set && !p.Preacher.Set &&
		!p.StartAt.Set && !p.EndAt.Set &&
		!p.ServiceType.Set && !p.Notes.Set &&
		!p.DurationSec.Set
}

type UpdateOptions struct {
	// AllowDurationOverride lets the patch write duration_sec directly.
	// Only administrators get it, and only for patches leaving the bounds alone.
	AllowDurationOverride bool
	Actor                 model.ID
}

func (p Patch) validate(opts UpdateOptions) error {
	if !p.DurationSec.Set {
		return nil
	}
	if !opts.AllowDurationOverride {
		return model.NewError("session", model.NewValidationError("duration_sec", "is derived from start_at and end_at"))
	}
	if p.TouchesBounds() {
		return model.NewError("session", model.NewValidationError("duration_sec", "cannot be set together with start_at or end_at"))
	}
	return nil
}

// Update applies p. Touching either bound recomputes duration_sec from the
// resulting bounds, clearing it when one of them is null. Other patches leave
// duration_sec as stored, so an override survives until a bound changes.
func (m *Manager) Update(ctx context.Context, id model.ID, p Patch, opts UpdateOptions) (model.Session, error) {
	if err := p.validate(opts); err != nil {
		return model.Session{}, err
	}
	if p.Empty() {
		return m.store.Get(ctx, id)
	}

	s, err := m.store.Modify(ctx, id, func(s *model.Session) error {
		if p.Church.Set {
			s.Church = p.Church.Value
		}
		if p.Preacher.Set {
			s.Preacher = p.Preacher.Value
		}
		if p.StartAt.Set {
			s.StartAt = normalizePtr(p.StartAt.Value)
		}
		if p.EndAt.Set {
			s.EndAt = normalizePtr(p.EndAt.Value)
		}
		if p.ServiceType.Set {
			s.ServiceType = p.ServiceType.Value
		}
		if p.Notes.Set {
			s.Notes = p.Notes.Value
		}

		switch {
		case p.TouchesBounds():
			s.Recompute()
		case p.DurationSec.Set:
			s.DurationSec = p.DurationSec.Value
		}
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}

	if p.DurationSec.Set {
		m.logger.Warn("session duration overridden",
			"sessionId", s.ID, "actor", opts.Actor, "durationSec", s.DurationSec)
	}

	observeTransition("update", s)

	return s, nil
}

func (m *Manager) Delete(ctx context.Context, id model.ID) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.logger.Debug("session deleted", "sessionId", id)

	return nil
}

type ListFilter = database.FindSessionFilter

// List returns started sessions matching filter, newest created first.
func (m *Manager) List(ctx context.Context, filter ListFilter) ([]model.Session, error) {
	filter.From = normalizePtr(filter.From)
	filter.To = normalizePtr(filter.To)
	return m.store.Find(ctx, filter)
}

func (m *Manager) clock() time.Time {
	return normalize(m.now())
}

// normalize drops what timestamptz cannot hold, so a duration computed here
// matches one recomputed from the stored bounds.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func normalizePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := normalize(*t)
	return &v
}
