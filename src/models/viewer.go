package models

// Viewer is the identity a request acts as: either an authenticated user or
// a guest. Guests are not a "falsy user"; every capability check must go
// through User() and handle the guest case explicitly.
type Viewer struct {
	user *User
}

func GuestViewer() Viewer {
	return Viewer{}
}

func AuthenticatedViewer(u *User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{user: u}
}

// Returns the authenticated user, or (nil, false) for a guest.
func (v Viewer) User() (*User, bool) {
	return v.user, v.user != nil
}

func (v Viewer) IsGuest() bool {
	return v.user == nil
}

func (v Viewer) IsAdmin() bool {
	return v.user != nil && v.user.IsAdmin()
}

func (v Viewer) InGroup(name string) bool {
	return v.user != nil && v.user.InGroup(name)
}

// The groups the viewer holds; empty for guests.
func (v Viewer) Groups() []*Group {
	if v.user == nil {
		return nil
	}
	return v.user.Groups
}
