package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"git.retroherna.org/rh/rhforum/src/config"
	"git.retroherna.org/rh/rhforum/src/jobs"
	"git.retroherna.org/rh/rhforum/src/logging"
	"git.retroherna.org/rh/rhforum/src/oops"
	"github.com/jpillora/backoff"
)

const dispatchBufferSize = 256
const maxDeliveryAttempts = 5

// Dispatcher delivers events to the configured webhooks from a background
// job. Handing events over never blocks: when the buffer is full the event
// is dropped and logged, because a slow notification channel must never
// slow down a forum response.
type Dispatcher struct {
	events chan Event
	client *http.Client
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		events: make(chan Event, dispatchBufferSize),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Dispatcher) Post(events ...Event) {
	for _, e := range events {
		select {
		case d.events <- e:
		default:
			logging.Warn().
				Str("kind", string(e.Kind)).
				Stringer("event_id", e.ID).
				Msg("notification buffer full, dropping event")
		}
	}
}

func (d *Dispatcher) Run() *jobs.Job {
	job := jobs.New("notification dispatcher")
	go func() {
		defer job.Finish()
		for {
			select {
			case <-job.Canceled():
				return
			case e := <-d.events:
				d.deliverAll(job.Ctx, e)
			}
		}
	}()
	return job
}

func (d *Dispatcher) deliverAll(ctx context.Context, e Event) {
	message := FormatMessage(e)
	urls := []string{
		config.Config.Notify.TelegramWebhookUrl,
		config.Config.Notify.IRCWebhookUrl,
		config.Config.Notify.DiscordWebhookUrl,
	}
	if e.Kind == EventRaw {
		// Raw passthrough goes to IRC only.
		urls = []string{config.Config.Notify.IRCWebhookUrl}
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		err := d.deliverWithRetry(ctx, url, message)
		if err != nil {
			logging.ExtractLogger(ctx).Error().
				Err(err).
				Stringer("event_id", e.ID).
				Msg("failed to deliver notification")
		}
	}
}

func (d *Dispatcher) deliverWithRetry(ctx context.Context, url string, message string) error {
	b := backoff.Backoff{
		Min: time.Second,
		Max: time.Minute,
	}
	var lastErr error
	for attempt := 0; attempt < maxDeliveryAttempts; attempt++ {
		lastErr = d.deliver(ctx, url, message)
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(b.Duration()):
		}
	}
	return lastErr
}

func (d *Dispatcher) deliver(ctx context.Context, url string, message string) error {
	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return oops.New(err, "failed to marshal notification payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return oops.New(err, "failed to create notification request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		return oops.New(err, "failed to send notification")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return oops.New(nil, "notification webhook returned status %d", res.StatusCode)
	}
	return nil
}

// SendRaw pushes a preformatted message to the IRC webhook, bypassing event
// formatting. Used by the irc passthrough endpoint.
func (d *Dispatcher) SendRaw(message string) {
	e := NewEvent(EventRaw)
	e.Message = message
	d.Post(e)
}

// Renders an event as the single line sent to every channel.
func FormatMessage(e Event) string {
	switch e.Kind {
	case EventNewThread:
		if e.Gated {
			return fmt.Sprintf("%s founded a new thread in a private section", e.UserName)
		}
		return fmt.Sprintf("%s founded the thread \"%s\" in %s: %s",
			e.UserName, e.ThreadName, e.ForumName, threadUrl(e))
	case EventNewPost:
		if e.Gated {
			return fmt.Sprintf("%s replied in a private section", e.UserName)
		}
		return fmt.Sprintf("%s replied in \"%s\": %s",
			e.UserName, e.ThreadName, threadUrl(e))
	case EventRegistration:
		return fmt.Sprintf("%s just registered on the forum", e.UserName)
	default:
		return e.Message
	}
}

func threadUrl(e Event) string {
	url := fmt.Sprintf("%s/thread/%d", config.Config.BaseUrl, e.ThreadID)
	if e.PostID != 0 {
		url = fmt.Sprintf("%s#post-%d", url, e.PostID)
	}
	return url
}
