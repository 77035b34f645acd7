package model

import "time"

type ID = string

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Login        string  `json:"login" db:"login"`
	Email        *string `json:"email" db:"email"`
	Name         *string `json:"name" db:"name"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Role         Role    `json:"role" db:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const DefaultTimezone = "UTC"

type Church struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Name     string `json:"name" db:"name"`
	Timezone string `json:"timezone" db:"timezone"`
}

type Preacher struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Name      string  `json:"name" db:"name"`
	Church    *ID     `json:"church_id" db:"church_id"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

type Session struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Church   *ID `json:"church_id" db:"church_id"`
	Preacher *ID `json:"preacher_id" db:"preacher_id"`

	StartAt     *time.Time `json:"start_at" db:"start_at"`
	EndAt       *time.Time `json:"end_at" db:"end_at"`
	DurationSec *int64     `json:"duration_sec" db:"duration_sec"`

	ServiceType *string `json:"service_type" db:"service_type"`
	Notes       *string `json:"notes" db:"notes"`
}

type SessionState int

const (
	SessionUnstarted SessionState = iota
	SessionStarted
	SessionCompleted
)

func (s SessionState) String() string {
	switch s {
	case SessionStarted:
		return "started"
	case SessionCompleted:
		return "completed"
	default:
		return "unstarted"
	}
}

// State is derived from the bounds only. A session with an end but no start
// is still unstarted: it is invisible to listings.
func (s Session) State() SessionState {
	switch {
	case s.StartAt == nil:
		return SessionUnstarted
	case s.EndAt == nil:
		return SessionStarted
	default:
		return SessionCompleted
	}
}

// Recompute re-derives DurationSec from the bounds.
func (s *Session) Recompute() {
	s.DurationSec = DurationSec(s.StartAt, s.EndAt)
}

const (
	DefaultBadgeEmoji = "🏅"
	DefaultBadgeColor = "text-yellow-600"
)

type Badge struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Label string `json:"label" db:"label"`
	Emoji string `json:"emoji" db:"emoji"`
	Color string `json:"color" db:"color"`
}

type BadgeAssignment struct {
	Preacher   ID        `json:"preacher_id" db:"preacher_id"`
	Badge      ID        `json:"badge_id" db:"badge_id"`
	AssignedBy *ID       `json:"assigned_by" db:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}
