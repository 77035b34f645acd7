package testfixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
)

// SessionStore is an in-memory session table with the same visibility and
// ordering rules as database.SessionDAO.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[model.ID]model.Session
	counter  uint64

	// Err, when set, is returned by every call.
	Err error
}

func NewSessionStore(sessions ...model.Session) *SessionStore {
	store := &SessionStore{sessions: make(map[model.ID]model.Session)}
	for _, s := range sessions {
		store.Put(s)
	}
	return store
}

// Put stores s verbatim, bypassing any lifecycle logic.
func (st *SessionStore) Put(s model.Session) model.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s.ID == "" {
		s.ID = st.nextIDLocked()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = referenceTime.Add(time.Duration(len(st.sessions)) * time.Second)
	}
	st.sessions[s.ID] = cloneSession(s)
	return cloneSession(s)
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *SessionStore) Insert(_ context.Context, s model.Session) (model.Session, error) {
	if st.Err != nil {
		return model.Session{}, st.Err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if s.ID == "" {
		s.ID = st.nextIDLocked()
	}
	if _, ok := st.sessions[s.ID]; ok {
		return model.Session{}, model.NewError("session", model.ErrExists)
	}
	st.sessions[s.ID] = cloneSession(s)
	return cloneSession(s), nil
}

func (st *SessionStore) Get(_ context.Context, id model.ID) (model.Session, error) {
	if st.Err != nil {
		return model.Session{}, st.Err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return model.Session{}, model.NewError("session", model.ErrNotFound)
	}
	return cloneSession(s), nil
}

func (st *SessionStore) Find(_ context.Context, filter database.FindSessionFilter) ([]model.Session, error) {
	if st.Err != nil {
		return []model.Session{}, st.Err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]model.Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		if filter.HasDuration && s.DurationSec == nil {
			continue
		}
		if !filter.HasDuration && s.StartAt == nil {
			continue
		}
		if filter.Preacher != nil && (s.Preacher == nil || *s.Preacher != *filter.Preacher) {
			continue
		}
		if filter.Church != nil && (s.Church == nil || *s.Church != *filter.Church) {
			continue
		}
		if filter.From != nil && (s.StartAt == nil || s.StartAt.Before(*filter.From)) {
			continue
		}
		if filter.To != nil && (s.StartAt == nil || !s.StartAt.Before(*filter.To)) {
			continue
		}
		out = append(out, cloneSession(s))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (st *SessionStore) Modify(_ context.Context, id model.ID, fn func(*model.Session) error) (model.Session, error) {
	if st.Err != nil {
		return model.Session{}, st.Err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return model.Session{}, model.NewError("session", model.ErrNotFound)
	}

	working := cloneSession(s)
	if err := fn(&working); err != nil {
		return model.Session{}, err
	}
	working.ID = id
	working.CreatedAt = s.CreatedAt

	st.sessions[id] = cloneSession(working)
	return cloneSession(working), nil
}

func (st *SessionStore) Delete(_ context.Context, id model.ID) error {
	if st.Err != nil {
		return st.Err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return model.NewError("session", model.ErrNotFound)
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) nextIDLocked() model.ID {
	idx := atomic.AddUint64(&st.counter, 1)
	return fmt.Sprintf("session-%03d", idx)
}

func cloneSession(s model.Session) model.Session {
	s.Church = clonePtr(s.Church)
	s.Preacher = clonePtr(s.Preacher)
	s.StartAt = clonePtr(s.StartAt)
	s.EndAt = clonePtr(s.EndAt)
	s.DurationSec = clonePtr(s.DurationSec)
	s.ServiceType = clonePtr(s.ServiceType)
	s.Notes = clonePtr(s.Notes)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Interval builds a completed session for preacher spanning [start, end).
func Interval(id, preacher string, start, end time.Time) model.Session {
	s := model.Session{
		ID:       id,
		Preacher: Ptr(preacher),
		StartAt:  Ptr(start),
		EndAt:    Ptr(end),
	}
	s.Recompute()
	return s
}
