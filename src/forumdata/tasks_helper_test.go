package forumdata

import (
	"testing"
	"time"

	"git.retroherna.org/rh/rhforum/src/models"
	"github.com/stretchr/testify/assert"
)

func TestSortTasks(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	hour := func(offset int) *time.Time {
		ts := now.Add(time.Duration(offset) * time.Hour)
		return &ts
	}
	status := func(s models.TaskStatus) *models.TaskStatus { return &s }

	unscheduledTodo := &models.Task{ID: 1, Status: status(models.TaskTodo)}
	unscheduledNote := &models.Task{ID: 2}
	upcomingNote := &models.Task{ID: 3, DueTime: hour(2)}
	scheduledTodo := &models.Task{ID: 4, DueTime: hour(48), Status: status(models.TaskTodo)}
	pastNote := &models.Task{ID: 5, DueTime: hour(-3)}
	doneScheduled := &models.Task{ID: 6, DueTime: hour(-1), Status: status(models.TaskDone)}
	doneUnscheduled := &models.Task{ID: 7, Status: status(models.TaskDone)}

	tasks := []*models.Task{
		doneUnscheduled, doneScheduled, scheduledTodo, pastNote,
		upcomingNote, unscheduledNote, unscheduledTodo,
	}
	SortTasks(tasks, now)

	ids := make([]int, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}

	// Unscheduled open items first, then unfinished/upcoming (closest due
	// time first), then everything past, finished unscheduled tasks last.
	assert.Equal(t, []int{2, 1, 3, 4, 6, 5, 7}, ids)
}

func TestTaskPriority(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	todo := models.TaskTodo
	done := models.TaskDone
	inProgress := models.TaskInProgress

	assert.Equal(t, 0, taskPriority(&models.Task{}, now))
	assert.Equal(t, 0, taskPriority(&models.Task{Status: &todo}, now))
	assert.Equal(t, 1, taskPriority(&models.Task{DueTime: &future}, now))
	assert.Equal(t, 1, taskPriority(&models.Task{DueTime: &past, Status: &todo}, now))
	assert.Equal(t, 2, taskPriority(&models.Task{DueTime: &past}, now))
	assert.Equal(t, 2, taskPriority(&models.Task{DueTime: &past, Status: &done}, now))
	assert.Equal(t, 2, taskPriority(&models.Task{Status: &inProgress}, now))
	assert.Equal(t, 3, taskPriority(&models.Task{Status: &done}, now))
}
