package notify

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventNewThread    EventKind = "new_thread"
	EventNewPost      EventKind = "new_post"
	EventRegistration EventKind = "registration"

	// A preformatted message passed through verbatim.
	EventRaw EventKind = "raw"
)

// An Event describes one notifiable thing that happened. Events are plain
// data; formatting and delivery happen in the dispatcher so that producing
// an event can never fail or block.
type Event struct {
	ID   uuid.UUID
	Kind EventKind
	Time time.Time

	// Who did it, for display.
	UserName string

	// Where it happened. Zero values mean "not applicable" (registrations
	// have no thread).
	ForumName  string
	ThreadID   int
	ThreadName string
	PostID     int

	// Content lives under a group-restricted category. Gated events are
	// announced without names so the notification channel does not leak
	// restricted titles.
	Gated bool

	// Verbatim text for EventRaw.
	Message string
}

func NewEvent(kind EventKind) Event {
	return Event{
		ID:   uuid.New(),
		Kind: kind,
		Time: time.Now(),
	}
}

// Queue collects the events produced while handling one request. The
// website layer drains it exactly once after the response is committed,
// whether the handler succeeded or panicked, and hands the events to the
// dispatcher. A nil queue ignores pushes, which lets CLI code call the
// same forum helpers without wiring notifications.
type Queue struct {
	events []Event
}

func (q *Queue) Push(e Event) {
	if q == nil {
		return
	}
	q.events = append(q.events, e)
}

// Returns the queued events and empties the queue.
func (q *Queue) Drain() []Event {
	if q == nil {
		return nil
	}
	events := q.events
	q.events = nil
	return events
}
