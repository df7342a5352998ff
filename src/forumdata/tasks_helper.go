package forumdata

import (
	"context"
	"sort"
	"time"

	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/oops"
)

// Tasks and announcements are internal to the crew; only members of this
// group may see or manage them.
const TasksGroupName = "retroherna"

// Fetches all tasks in display order.
func FetchTasks(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer) ([]*models.Task, error) {
	if !viewer.InGroup(TasksGroupName) {
		return nil, ErrForbidden
	}

	tasks, err := db.Query[models.Task](ctx, dbConn,
		`
		---- Fetch tasks
		SELECT $columns FROM tasks
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch tasks")
	}

	SortTasks(tasks, time.Now())
	return tasks, nil
}

/*
Creates a task or an announcement. A task gets status "todo"; an
announcement has no status and must carry a due time (an announcement
without an end never expires off the board).
*/
func CreateTask(
	ctx context.Context,
	dbConn db.ConnOrTx,
	viewer models.Viewer,
	text string,
	isTask bool,
	dueTime *time.Time,
	targetUserID *int,
) (*models.Task, error) {
	user, ok := viewer.User()
	if !ok || !viewer.InGroup(TasksGroupName) {
		return nil, ErrForbidden
	}
	if text == "" {
		return nil, NewValidationError("task text must not be empty")
	}
	if !isTask && dueTime == nil {
		return nil, NewValidationError("an announcement needs an end time")
	}

	var status *models.TaskStatus
	if isTask {
		todo := models.TaskTodo
		status = &todo
	}

	task, err := db.QueryOne[models.Task](ctx, dbConn,
		`
		---- Create task
		INSERT INTO tasks (text, created_time, due_time, status, author_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING $columns
		`,
		text, time.Now(), dueTime, status, user.ID, targetUserID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create task")
	}
	return task, nil
}

func UpdateTask(
	ctx context.Context,
	dbConn db.ConnOrTx,
	viewer models.Viewer,
	taskID int,
	text string,
	dueTime *time.Time,
	targetUserID *int,
) error {
	if !viewer.InGroup(TasksGroupName) {
		return ErrForbidden
	}
	if text == "" {
		return NewValidationError("task text must not be empty")
	}

	tag, err := dbConn.Exec(ctx,
		`
		---- Update task
		UPDATE tasks SET text = $2, due_time = $3, user_id = $4 WHERE id = $1
		`,
		taskID, text, dueTime, targetUserID,
	)
	if err != nil {
		return oops.New(err, "failed to update task")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

func SetTaskStatus(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, taskID int, status models.TaskStatus) error {
	if !viewer.InGroup(TasksGroupName) {
		return ErrForbidden
	}

	tag, err := dbConn.Exec(ctx,
		`UPDATE tasks SET status = $2 WHERE id = $1`,
		taskID, status,
	)
	if err != nil {
		return oops.New(err, "failed to set task status")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

/*
Sorts tasks in place for the board:

 0. unscheduled announcements and unscheduled open tasks
 1. upcoming announcements and all unfinished tasks
 2. past announcements and finished scheduled tasks
 3. finished unscheduled tasks

Within a bucket, tasks closest to now come first; tasks without a due time
come last.
*/
func SortTasks(tasks []*models.Task, now time.Time) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		aPri, bPri := taskPriority(a, now), taskPriority(b, now)
		if aPri != bPri {
			return aPri < bPri
		}
		if a.DueTime == nil {
			return false
		}
		if b.DueTime == nil {
			return true
		}
		return absDuration(now.Sub(*a.DueTime)) < absDuration(now.Sub(*b.DueTime))
	})
}

func taskPriority(task *models.Task, now time.Time) int {
	switch {
	case task.DueTime == nil && task.Status == nil:
		return 0
	case task.DueTime == nil && *task.Status == models.TaskTodo:
		return 0
	case task.Status == nil && task.DueTime.After(now):
		return 1
	case task.Status != nil && *task.Status == models.TaskTodo:
		return 1
	case task.DueTime == nil && *task.Status == models.TaskDone:
		return 3
	default:
		return 2
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
