package models

import "time"

type Thread struct {
	ID int `db:"id"`

	ForumID  int `db:"forum_id"`
	AuthorID int `db:"author_id"`

	Name string `db:"name"`

	// Opaque reference to an external wiki article rendered alongside the
	// thread. Fetch failures are non-fatal.
	WikiArticle *string `db:"wiki_article"`

	Timestamp time.Time `db:"timestamp"`

	// Timestamp of the most recent non-deleted post. Maintained on every
	// post creation; drives the default thread ordering.
	Laststamp time.Time `db:"laststamp"`

	Pinned   bool `db:"pinned"`
	Locked   bool `db:"locked"`
	Archived bool `db:"archived"`
}
