package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
)

// Source yields sessions matching a filter.
type Source interface {
	Find(ctx context.Context, filter database.FindSessionFilter) ([]model.Session, error)
}

var _ Source = (*database.SessionDAO)(nil)

type Aggregator struct {
	logger *slog.Logger
	source Source
	loc    *time.Location
}

// NewAggregator buckets days in loc, the store's configured time zone.
func NewAggregator(logger *slog.Logger, source Source, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		logger: logger.With("module", "analytics"),
		source: source,
		loc:    loc,
	}
}

type Range struct {
	Church *model.ID
	From   *time.Time
	To     *time.Time
}

func (r Range) filter() database.FindSessionFilter {
	return database.FindSessionFilter{Church: r.Church, From: r.From, To: r.To}
}

func (a *Aggregator) Summary(ctx context.Context, r Range) ([]PreacherTotal, error) {
	sessions, err := a.load(ctx, "summary", r.filter())
	if err != nil {
		return nil, err
	}
	return Totals(sessions), nil
}

type SeriesQuery struct {
	Range
	Preacher    *model.ID
	Granularity string
}

func (a *Aggregator) TimeSeries(ctx context.Context, q SeriesQuery) ([]Bucket, error) {
	if q.Granularity == "" {
		q.Granularity = GranularityDay
	}
	if q.Granularity != GranularityDay {
		return nil, fmt.Errorf("%w: %q, only %q is supported", model.ErrUnsupportedGranularity, q.Granularity, GranularityDay)
	}

	filter := q.filter()
	filter.Preacher = q.Preacher

	sessions, err := a.load(ctx, "timeSeries", filter)
	if err != nil {
		return nil, err
	}
	return DailySeries(sessions, a.loc), nil
}

func (a *Aggregator) Top(ctx context.Context, r Range, limit int) ([]PreacherTotal, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	sessions, err := a.load(ctx, "top", r.filter())
	if err != nil {
		return nil, err
	}
	return TopN(sessions, limit), nil
}

// Shortest ranks every session with a duration, including unstarted ones
// whose duration was set directly.
func (a *Aggregator) Shortest(ctx context.Context, church *model.ID, limit int) ([]ShortSession, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	sessions, err := a.load(ctx, "shortest", database.FindSessionFilter{Church: church, HasDuration: true})
	if err != nil {
		return nil, err
	}
	return ShortestN(sessions, limit), nil
}

// Overlap only pairs sessions that both belong to church when one is given.
func (a *Aggregator) Overlap(ctx context.Context, church *model.ID, limit int) ([]OverlapPair, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	sessions, err := a.load(ctx, "overlap", database.FindSessionFilter{Church: church})
	if err != nil {
		return nil, err
	}
	return Overlaps(sessions, limit), nil
}

func (a *Aggregator) load(ctx context.Context, op string, filter database.FindSessionFilter) ([]model.Session, error) {
	sessions, err := a.source.Find(ctx, filter)
	if err != nil {
		a.logger.Warn("failed to load sessions", "op", op, "error", err)

		// Any failure to read sessions is reported as the store being unavailable.
		if !errors.Is(err, model.ErrUnavailable) {
			err = fmt.Errorf("%w: %w", model.ErrUnavailable, err)
		}
		return nil, err
	}

	a.logger.Debug("sessions loaded", "op", op, "countSessions", len(sessions))

	return sessions, nil
}

func checkLimit(limit int) error {
	if limit < 1 {
		return model.NewValidationError("limit", "must be a positive integer")
	}
	return nil
}
