package models

import (
	"strings"
	"time"
)

// The group whose members are forum admins. Admin status is always derived
// from current group membership; there is no cached flag anywhere.
const AdminGroupName = "admin"

// The group new registrations are placed into, when it exists.
const DefaultGroupName = "user"

type User struct {
	ID int `db:"id"`

	Login        string `db:"login"`
	PasswordHash string `db:"password"`
	Fullname     string `db:"fullname"`
	Email        string `db:"email"`

	Homepage  string `db:"homepage"`
	AvatarUrl string `db:"avatar_url"`
	Profile   string `db:"profile"`

	Registered time.Time `db:"registered"`
	LastSeen   time.Time `db:"last_seen"`

	// Not in DB, filled in by fetch helpers.
	Groups []*Group
}

// Display name; falls back to the login when no full name was set.
func (u *User) Name() string {
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Login
}

func (u *User) IsAdmin() bool {
	return u.InGroup(AdminGroupName)
}

func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// The displayable group of highest rank, used for the user's badge.
// Returns nil when the user has no displayable groups.
func (u *User) RepresentativeGroup() *Group {
	var best *Group
	for _, g := range u.Groups {
		if !g.Display {
			continue
		}
		if best == nil || g.Rank > best.Rank {
			best = g
		}
	}
	return best
}

// Symbol and title of the representative group, e.g. "⚙ Technik".
func (u *User) Title() string {
	group := u.RepresentativeGroup()
	if group == nil {
		return ""
	}
	return strings.TrimSpace(group.Symbol + " " + group.GroupTitle)
}
