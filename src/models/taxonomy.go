package models

// A Category is an ordered container of Forums. Positions are zero-based
// and contiguous within the category list. A category may require a group;
// users outside that group cannot see any forum beneath it.
type Category struct {
	ID       int    `db:"id"`
	Name     string `db:"name"`
	Position int    `db:"position"`

	GroupID *int `db:"group_id"`

	// Not in DB, filled in by fetch helpers.
	Group *Group
}

// A Forum is an ordered, named container of Threads. Positions are
// zero-based and contiguous within the forum's category (or within the
// uncategorized list). Exactly one forum is the trash forum; deleted
// content is moved there and only admins may see it.
type Forum struct {
	ID          int    `db:"id"`
	Identifier  string `db:"identifier"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Position    int    `db:"position"`
	Trash       bool   `db:"trash"`

	CategoryID *int `db:"category_id"`

	// Not in DB, filled in by fetch helpers.
	Category *Category
}
