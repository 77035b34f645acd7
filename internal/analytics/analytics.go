// Package analytics derives read-only views over sessions: per-preacher
// totals, daily series, leaderboards, shortest sessions and overlaps.
//
// Every function is pure over the slice it is given. Aggregator only loads the
// filtered set of started sessions and hands it over.
package analytics

import (
	"sort"
	"time"

	"github.com/protomem/preach-tracker/internal/model"
)

const (
	GranularityDay = "day"

	DefaultTopLimit      = 10
	DefaultShortestLimit = 10
	DefaultOverlapLimit  = 50

	_dayLayout = "2006-01-02"
)

type PreacherTotal struct {
	Preacher      *model.ID `json:"preacher_id"`
	TotalSec      int64     `json:"total_sec"`
	SessionsCount int64     `json:"sessions_count"`
}

type Bucket struct {
	Day      string `json:"day"`
	TotalSec int64  `json:"total_sec"`
}

type ShortSession struct {
	ID          model.ID   `json:"id"`
	Preacher    *model.ID  `json:"preacher_id"`
	DurationSec int64      `json:"duration_sec"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}

type OverlapPair struct {
	SessionA   model.ID `json:"session_a"`
	SessionB   model.ID `json:"session_b"`
	OverlapSec int64    `json:"overlap_sec"`
}

// Totals groups sessions by preacher, sessions without one forming their own
// group. Null durations count as zero but still count as sessions.
func Totals(sessions []model.Session) []PreacherTotal {
	const noPreacher = "\x00"

	index := make(map[model.ID]int)
	totals := make([]PreacherTotal, 0)

	for _, s := range sessions {
		key := noPreacher
		if s.Preacher != nil {
			key = *s.Preacher
		}

		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, PreacherTotal{Preacher: clonePreacher(s.Preacher)})
		}

		totals[i].SessionsCount++
		if s.DurationSec != nil {
			totals[i].TotalSec += *s.DurationSec
		}
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].TotalSec != totals[j].TotalSec {
			return totals[i].TotalSec > totals[j].TotalSec
		}
		return preacherLess(totals[i].Preacher, totals[j].Preacher)
	})

	return totals
}

// TopN is Totals truncated to limit rows.
func TopN(sessions []model.Session, limit int) []PreacherTotal {
	return truncate(Totals(sessions), limit)
}

// DailySeries sums durations per calendar day of start_at in loc, ascending.
func DailySeries(sessions []model.Session, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.UTC
	}

	sums := make(map[string]int64)
	for _, s := range sessions {
		if s.StartAt == nil {
			continue
		}

		day := s.StartAt.In(loc).Format(_dayLayout)
		total := sums[day]
		if s.DurationSec != nil {
			total += *s.DurationSec
		}
		sums[day] = total
	}

	buckets := make([]Bucket, 0, len(sums))
	for day, total := range sums {
		buckets = append(buckets, Bucket{Day: day, TotalSec: total})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Day < buckets[j].Day
	})

	return buckets
}

// ShortestN returns sessions with a duration, shortest first.
func ShortestN(sessions []model.Session, limit int) []ShortSession {
	short := make([]ShortSession, 0, len(sessions))
	for _, s := range sessions {
		if s.DurationSec == nil {
			continue
		}
		short = append(short, ShortSession{
			ID:          s.ID,
			Preacher:    clonePreacher(s.Preacher),
			DurationSec: *s.DurationSec,
			StartAt:     s.StartAt,
			EndAt:       s.EndAt,
		})
	}

	sort.Slice(short, func(i, j int) bool {
		if short[i].DurationSec != short[j].DurationSec {
			return short[i].DurationSec < short[j].DurationSec
		}
		return short[i].ID < short[j].ID
	})

	return truncate(short, limit)
}

// Overlaps compares every unordered pair of completed sessions once, as
// (a, b) with a.ID < b.ID, keeping pairs whose intervals intersect. The scan
// is quadratic in the number of completed sessions.
func Overlaps(sessions []model.Session, limit int) []OverlapPair {
	completed := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.StartAt != nil && s.EndAt != nil {
			completed = append(completed, s)
		}
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].ID < completed[j].ID
	})

	pairs := make([]OverlapPair, 0)
	for i := 0; i < len(completed); i++ {
		a := completed[i]
		for j := i + 1; j < len(completed); j++ {
			b := completed[j]
			if !a.StartAt.Before(*b.EndAt) || !b.StartAt.Before(*a.EndAt) {
				continue
			}

			pairs = append(pairs, OverlapPair{
				SessionA:   a.ID,
				SessionB:   b.ID,
				OverlapSec: model.OverlapSec(*a.StartAt, *a.EndAt, *b.StartAt, *b.EndAt),
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].OverlapSec > pairs[j].OverlapSec
	})

	return truncate(pairs, limit)
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func clonePreacher(p *model.ID) *model.ID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// preacherLess orders by id with the no-preacher group last.
func preacherLess(a, b *model.ID) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
