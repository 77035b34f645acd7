package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
)

type fakeHealth struct {
	err error
}

func (f *fakeHealth) Ping(context.Context) error {
	return f.err
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[model.ID]model.User
	seq   int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[model.ID]model.User)}
}

func (f *fakeUsers) Get(_ context.Context, id model.ID) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.NewError("user", model.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Login == login {
			return u, nil
		}
	}
	return model.User{}, model.NewError("user", model.ErrNotFound)
}

func (f *fakeUsers) Insert(_ context.Context, dto database.InsertUserDTO) (model.User, error) {
	if err := dto.Validate(); err != nil {
		return model.User{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Login == dto.Login {
			return model.User{}, model.NewError("user", model.ErrExists)
		}
	}

	role := dto.Role
	if role == "" {
		role = model.RoleUser
	}

	f.seq++
	u := model.User{
		ID:           fmt.Sprintf("user-%d", f.seq),
		CreatedAt:    time.Now().UTC(),
		Login:        dto.Login,
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: dto.PasswordHash,
		Role:         role,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) SetRole(_ context.Context, id model.ID, role model.Role) (model.User, error) {
	if !role.Valid() {
		return model.User{}, model.NewError("user", model.NewValidationError("role", "must be user or admin"))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.NewError("user", model.ErrNotFound)
	}
	u.Role = role
	f.users[id] = u
	return u, nil
}

type fakeChurches struct {
	mu       sync.Mutex
	churches map[model.ID]model.Church
	seq      int
}

func newFakeChurches() *fakeChurches {
	return &fakeChurches{churches: make(map[model.ID]model.Church)}
}

func (f *fakeChurches) Find(_ context.Context, _ database.FindOptions) ([]model.Church, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Church, 0, len(f.churches))
	for _, c := range f.churches {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeChurches) Get(_ context.Context, id model.ID) (model.Church, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.churches[id]
	if !ok {
		return model.Church{}, model.NewError("church", model.ErrNotFound)
	}
	return c, nil
}

func (f *fakeChurches) Insert(_ context.Context, dto database.InsertChurchDTO) (model.Church, error) {
	if err := dto.Validate(); err != nil {
		return model.Church{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	c := model.Church{ID: fmt.Sprintf("church-%d", f.seq), Name: dto.Name, Timezone: dto.Timezone}
	f.churches[c.ID] = c
	return c, nil
}

func (f *fakeChurches) Update(_ context.Context, id model.ID, dto database.UpdateChurchDTO) (model.Church, error) {
	if err := dto.Validate(); err != nil {
		return model.Church{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.churches[id]
	if !ok {
		return model.Church{}, model.NewError("church", model.ErrNotFound)
	}
	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Timezone != nil {
		c.Timezone = *dto.Timezone
	}
	f.churches[id] = c
	return c, nil
}

func (f *fakeChurches) Delete(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.churches[id]; !ok {
		return model.NewError("church", model.ErrNotFound)
	}
	delete(f.churches, id)
	return nil
}

type fakePreachers struct {
	mu        sync.Mutex
	preachers map[model.ID]model.Preacher
	seq       int
}

func newFakePreachers() *fakePreachers {
	return &fakePreachers{preachers: make(map[model.ID]model.Preacher)}
}

func (f *fakePreachers) Find(_ context.Context, filter database.FindPreacherFilter, _ database.FindOptions) ([]model.Preacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Preacher, 0, len(f.preachers))
	for _, p := range f.preachers {
		if filter.Church != nil && (p.Church == nil || *p.Church != *filter.Church) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePreachers) Get(_ context.Context, id model.ID) (model.Preacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.preachers[id]
	if !ok {
		return model.Preacher{}, model.NewError("preacher", model.ErrNotFound)
	}
	return p, nil
}

func (f *fakePreachers) Insert(_ context.Context, dto database.InsertPreacherDTO) (model.Preacher, error) {
	if err := dto.Validate(); err != nil {
		return model.Preacher{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	p := model.Preacher{ID: fmt.Sprintf("preacher-%d", f.seq), Name: dto.Name, Church: dto.Church, AvatarURL: dto.AvatarURL}
	f.preachers[p.ID] = p
	return p, nil
}

func (f *fakePreachers) Update(_ context.Context, id model.ID, dto database.UpdatePreacherDTO) (model.Preacher, error) {
	if err := dto.Validate(); err != nil {
		return model.Preacher{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.preachers[id]
	if !ok {
		return model.Preacher{}, model.NewError("preacher", model.ErrNotFound)
	}
	if dto.Name.Set {
		p.Name = *dto.Name.Value
	}
	if dto.Church.Set {
		p.Church = dto.Church.Value
	}
	if dto.AvatarURL.Set {
		p.AvatarURL = dto.AvatarURL.Value
	}
	f.preachers[id] = p
	return p, nil
}

func (f *fakePreachers) Delete(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.preachers[id]; !ok {
		return model.NewError("preacher", model.ErrNotFound)
	}
	delete(f.preachers, id)
	return nil
}

type fakeBadges struct {
	mu          sync.Mutex
	badges      map[model.ID]model.Badge
	assignments map[[2]model.ID]bool
	seq         int
}

func newFakeBadges() *fakeBadges {
	return &fakeBadges{
		badges:      make(map[model.ID]model.Badge),
		assignments: make(map[[2]model.ID]bool),
	}
}

func (f *fakeBadges) Find(context.Context) ([]model.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Badge, 0, len(f.badges))
	for _, b := range f.badges {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBadges) Get(_ context.Context, id model.ID) (model.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.badges[id]
	if !ok {
		return model.Badge{}, model.NewError("badge", model.ErrNotFound)
	}
	return b, nil
}

func (f *fakeBadges) Insert(_ context.Context, dto database.InsertBadgeDTO) (model.Badge, error) {
	if err := dto.Validate(); err != nil {
		return model.Badge{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	b := model.Badge{ID: fmt.Sprintf("badge-%d", f.seq), Label: dto.Label, Emoji: dto.Emoji, Color: dto.Color}
	f.badges[b.ID] = b
	return b, nil
}

func (f *fakeBadges) Update(_ context.Context, id model.ID, dto database.UpdateBadgeDTO) (model.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.badges[id]
	if !ok {
		return model.Badge{}, model.NewError("badge", model.ErrNotFound)
	}
	if dto.Label != nil {
		b.Label = *dto.Label
	}
	if dto.Emoji != nil {
		b.Emoji = *dto.Emoji
	}
	if dto.Color != nil {
		b.Color = *dto.Color
	}
	f.badges[id] = b
	return b, nil
}

func (f *fakeBadges) Delete(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.badges[id]; !ok {
		return model.NewError("badge", model.ErrNotFound)
	}
	delete(f.badges, id)
	for key := range f.assignments {
		if key[1] == id {
			delete(f.assignments, key)
		}
	}
	return nil
}

func (f *fakeBadges) Assign(_ context.Context, preacher, badge model.ID, _ *model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.badges[badge]; !ok {
		return model.NewError("badge", model.ErrNotFound)
	}
	f.assignments[[2]model.ID{preacher, badge}] = true
	return nil
}

func (f *fakeBadges) Unassign(_ context.Context, preacher, badge model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.assignments, [2]model.ID{preacher, badge})
	return nil
}

func (f *fakeBadges) Assignments(context.Context) (map[model.ID][]model.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[model.ID][]model.ID)
	for key := range f.assignments {
		out[key[0]] = append(out[key[0]], key[1])
	}
	for _, ids := range out {
		sort.Strings(ids)
	}
	return out, nil
}
