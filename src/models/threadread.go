package models

// ThreadRead is a per-(user, thread) checkpoint recording the last post the
// user has seen. Created on first read, updated in place afterwards, never
// deleted. The referenced post id is anchored at a chain root where
// applicable so the checkpoint survives edits (see forumdata.Read).
type ThreadRead struct {
	ID int `db:"id"`

	UserID     int `db:"user_id"`
	ThreadID   int `db:"thread_id"`
	LastPostID int `db:"last_post_id"`
}
