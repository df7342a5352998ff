package website

import (
	"net/http"
	"strings"

	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/notify"
)

func TaskList(c *RequestContext) ResponseData {
	tasks, err := forumdata.FetchTasks(c, c.Conn, c.Viewer())
	if err != nil {
		return c.ForumError(err)
	}

	result := make([]TaskJson, len(tasks))
	for i, t := range tasks {
		result[i] = TaskToJson(t)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"tasks": result,
	}, c.Perf)
	return res
}

func TaskCreate(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	dueTime, err := formOptionalTime(form, "due_time")
	if err != nil {
		return c.ForumError(err)
	}

	isTask := true
	if b := formOptionalBool(form, "announcement"); b != nil && *b {
		isTask = false
	}

	task, err := forumdata.CreateTask(c, c.Conn, c.Viewer(),
		form.Get("text"),
		isTask,
		dueTime,
		formOptionalInt(form, "user_id"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(map[string]any{
		"task": TaskToJson(task),
	}, c.Perf)
	return res
}

func TaskEdit(c *RequestContext) ResponseData {
	taskID, ok := c.PathParamInt("taskid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	dueTime, err := formOptionalTime(form, "due_time")
	if err != nil {
		return c.ForumError(err)
	}

	err = forumdata.UpdateTask(c, c.Conn, c.Viewer(), taskID,
		form.Get("text"),
		dueTime,
		formOptionalInt(form, "user_id"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

func TaskSetStatus(c *RequestContext) ResponseData {
	taskID, ok := c.PathParamInt("taskid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	status := models.TaskStatus(form.Get("status"))
	switch status {
	case models.TaskTodo, models.TaskInProgress, models.TaskDone:
	default:
		return c.RejectRequest(http.StatusBadRequest, "unknown task status")
	}

	err = forumdata.SetTaskStatus(c, c.Conn, c.Viewer(), taskID, status)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

// Lets crew members say things through the board's IRC webhook. The message
// is fire-and-forget; delivery failures are the dispatcher's problem.
func IrcSend(dispatcher *notify.Dispatcher) Handler {
	return func(c *RequestContext) ResponseData {
		if !c.Viewer().InGroup(forumdata.TasksGroupName) {
			return c.ForumError(forumdata.ErrForbidden)
		}
		form, err := c.GetFormValues()
		if err != nil {
			return c.RejectRequest(http.StatusBadRequest, "could not parse form")
		}
		message := strings.TrimSpace(form.Get("message"))
		if message == "" {
			return c.RejectRequest(http.StatusBadRequest, "message must not be empty")
		}

		dispatcher.SendRaw(message)

		var res ResponseData
		res.StatusCode = http.StatusAccepted
		res.WriteJson(map[string]any{
			"queued": true,
		}, c.Perf)
		return res
	}
}
