package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	t.Run("drain empties the queue", func(t *testing.T) {
		var q Queue
		q.Push(NewEvent(EventNewThread))
		q.Push(NewEvent(EventNewPost))

		assert.Len(t, q.Drain(), 2)
		assert.Len(t, q.Drain(), 0)
	})

	t.Run("nil queue ignores pushes", func(t *testing.T) {
		var q *Queue
		q.Push(NewEvent(EventNewThread))
		assert.Nil(t, q.Drain())
	})
}

func TestFormatMessage(t *testing.T) {
	e := NewEvent(EventNewThread)
	e.UserName = "spelunky"
	e.ThreadName = "Amiga 500 restoration"
	e.ForumName = "Hardware"
	e.ThreadID = 42

	t.Run("new thread names the forum and thread", func(t *testing.T) {
		msg := FormatMessage(e)
		assert.Contains(t, msg, "spelunky")
		assert.Contains(t, msg, "Amiga 500 restoration")
		assert.Contains(t, msg, "Hardware")
		assert.Contains(t, msg, "/thread/42")
	})

	t.Run("gated events leak no names", func(t *testing.T) {
		gated := e
		gated.Gated = true
		msg := FormatMessage(gated)
		assert.Contains(t, msg, "spelunky")
		assert.NotContains(t, msg, "Amiga")
		assert.NotContains(t, msg, "Hardware")
	})

	t.Run("replies link to the post", func(t *testing.T) {
		reply := e
		reply.Kind = EventNewPost
		reply.PostID = 117
		msg := FormatMessage(reply)
		assert.Contains(t, msg, "#post-117")
	})

	t.Run("raw passes through verbatim", func(t *testing.T) {
		raw := NewEvent(EventRaw)
		raw.Message = "deploy finished"
		assert.Equal(t, "deploy finished", FormatMessage(raw))
	})
}
