package models

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "inprogress"
	TaskDone       TaskStatus = "done"
)

// A Task is a time-boxed reminder or announcement shown to a user (or to
// everybody when UserID is nil). Announcements have no status; tasks do.
type Task struct {
	ID int `db:"id"`

	Text        string      `db:"text"`
	CreatedTime time.Time   `db:"created_time"`
	DueTime     *time.Time  `db:"due_time"`
	Status      *TaskStatus `db:"status"`

	AuthorID *int `db:"author_id"`
	UserID   *int `db:"user_id"`
	ThreadID *int `db:"thread_id"`
}
