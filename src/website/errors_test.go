package website

import (
	"errors"
	"net/http"
	"testing"

	"git.retroherna.org/rh/rhforum/src/auth"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/logging"
	"git.retroherna.org/rh/rhforum/src/oops"
	"github.com/stretchr/testify/assert"
)

func testContext() *RequestContext {
	return &RequestContext{Logger: logging.GlobalLogger()}
}

func TestForumErrorStatuses(t *testing.T) {
	c := testContext()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", forumdata.NewValidationError("text must not be empty"), http.StatusBadRequest},
		{"forbidden", forumdata.ErrForbidden, http.StatusForbidden},
		{"locked", forumdata.ErrThreadLocked, http.StatusForbidden},
		{"trash", forumdata.ErrTrashForum, http.StatusForbidden},
		{"legacy credential", auth.ErrLegacyCredential, http.StatusForbidden},
		{"not found", db.NotFound, http.StatusNotFound},
		{"forum not empty", forumdata.ErrForumNotEmpty, http.StatusConflict},
		{"wrapped not found", oops.New(db.NotFound, "while fetching"), http.StatusNotFound},
		{"unknown", errors.New("database on fire"), http.StatusInternalServerError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := c.ForumError(test.err)
			assert.Equal(t, test.status, res.StatusCode)
		})
	}
}

func TestForumErrorAlreadyEdited(t *testing.T) {
	c := testContext()
	res := c.ForumError(forumdata.AlreadyEditedError{CurrentPostID: 117})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Contains(t, res.Body.String(), "117")
	assert.Contains(t, res.Body.String(), "alreadyEdited")
}

func TestValidationMessageIsEchoed(t *testing.T) {
	c := testContext()
	res := c.ForumError(forumdata.NewValidationError("thread title must not be empty"))
	assert.Contains(t, res.Body.String(), "thread title must not be empty")
}

func TestInternalErrorsLeakNothing(t *testing.T) {
	c := testContext()
	res := c.ForumError(errors.New("password=hunter2 dsn=secret"))
	assert.NotContains(t, res.Body.String(), "hunter2")
}
