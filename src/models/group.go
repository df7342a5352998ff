package models

type Group struct {
	ID   int    `db:"id"`
	Name string `db:"name"`

	// Badge appearance. Display controls whether the group shows up as a
	// badge at all; among displayable groups the highest Rank wins.
	Symbol     string `db:"symbol"`
	GroupTitle string `db:"title"`
	Rank       int    `db:"rank"`
	Display    bool   `db:"display"`
}

// Join row for the user <-> group many-to-many relationship.
type UserGroup struct {
	UserID  int `db:"user_id"`
	GroupID int `db:"group_id"`
}
