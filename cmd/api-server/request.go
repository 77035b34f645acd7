package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/request"
	"golang.org/x/exp/constraints"
)

func sessionIDFromRequest(r *http.Request) model.ID {
	return chi.URLParam(r, "sessionId")
}

func churchIDFromRequest(r *http.Request) model.ID {
	return chi.URLParam(r, "churchId")
}

func preacherIDFromRequest(r *http.Request) model.ID {
	return chi.URLParam(r, "preacherId")
}

func badgeIDFromRequest(r *http.Request) model.ID {
	return chi.URLParam(r, "badgeId")
}

func userIDFromRequest(r *http.Request) model.ID {
	return chi.URLParam(r, "userId")
}

func optionalStringQueryParam(r *http.Request, key string) *string {
	q := r.URL.Query()
	if !q.Has(key) || q.Get(key) == "" {
		return nil
	}
	val := q.Get(key)
	return &val
}

// timeQueryParam reads the first of keys present in the query.
func timeQueryParam(r *http.Request, keys ...string) (*time.Time, error) {
	q := r.URL.Query()
	for _, key := range keys {
		if !q.Has(key) || q.Get(key) == "" {
			continue
		}

		t, err := request.ParseTime(q.Get(key))
		if err != nil {
			return nil, fmt.Errorf("query parameter %s: %w", key, err)
		}
		return &t, nil
	}
	return nil, nil
}

func intQueryParam[T constraints.Integer](r *http.Request, key string, def T) (T, error) {
	q := r.URL.Query()
	if !q.Has(key) || q.Get(key) == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(q.Get(key), 10, 64)
	if err != nil || int64(T(n)) != n {
		return def, fmt.Errorf("query parameter %s must be an integer", key)
	}
	return T(n), nil
}

func findOptionsFromRequest(r *http.Request) (database.FindOptions, error) {
	limit, err := intQueryParam[int64](r, "limit", 0)
	if err != nil {
		return database.FindOptions{}, err
	}
	offset, err := intQueryParam[int64](r, "offset", 0)
	if err != nil {
		return database.FindOptions{}, err
	}
	if limit < 0 || offset < 0 {
		return database.FindOptions{}, fmt.Errorf("limit and offset must not be negative")
	}
	return database.FindOptions{Limit: uint64(limit), Offset: uint64(offset)}, nil
}

// rangeFromRequest reads church_id and the [from, to) window. The lower bound
// is also accepted as from_.
func rangeFromRequest(r *http.Request) (church *model.ID, from, to *time.Time, err error) {
	church = optionalStringQueryParam(r, "church_id")

	from, err = timeQueryParam(r, "from", "from_")
	if err != nil {
		return nil, nil, nil, err
	}
	to, err = timeQueryParam(r, "to")
	if err != nil {
		return nil, nil, nil, err
	}
	return church, from, to, nil
}

func timeOpt(o model.Opt[request.Time]) model.Opt[time.Time] {
	if !o.Set {
		return model.Opt[time.Time]{}
	}
	if o.Value == nil {
		return model.NullOpt[time.Time]()
	}
	return model.NewOpt(o.Value.Time)
}
