package models

import "time"

// A Post is one revision of one contribution to a thread. Editing never
// mutates a row: it creates a new row carrying the new text, marks the old
// row deleted, and points the new row's OriginalID at the chain root (the
// first-ever revision), so every revision in a chain shares the same root.
type Post struct {
	ID int `db:"id"`

	ThreadID int `db:"thread_id"`
	AuthorID int `db:"author_id"`

	// Original creation time, preserved across edits so the post keeps its
	// position in the thread.
	Timestamp time.Time `db:"timestamp"`

	Text string `db:"text"`

	Deleted bool `db:"deleted"`

	// Set only on edit revisions.
	Editstamp  *time.Time `db:"editstamp"`
	OriginalID *int       `db:"original_id"`
	EditorID   *int       `db:"editor_id"`
}

// The id of the chain root this post belongs to. For unedited posts that is
// the post itself.
func (p *Post) RootID() int {
	if p.OriginalID != nil {
		return *p.OriginalID
	}
	return p.ID
}

func (p *Post) IsRevision() bool {
	return p.OriginalID != nil
}
