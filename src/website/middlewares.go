package website

import (
	"errors"
	"fmt"
	"net/http"

	"git.retroherna.org/rh/rhforum/src/auth"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/logging"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/notify"
	"git.retroherna.org/rh/rhforum/src/oops"
	"git.retroherna.org/rh/rhforum/src/perf"
)

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, fmt.Sprintf("Recovered from panic with value: %v", recovered))
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

func trackRequestPerf(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		c.Perf = perf.MakeNewRequestPerf(c.Route, c.Req.Method, c.Req.URL.Path)
		defer func() {
			c.Perf.EndRequest()
			log := logging.Info()
			for i, block := range c.Perf.Blocks {
				log.Str(
					fmt.Sprintf("[%4.d] At %9.2fms", i, c.Perf.MsFromStart(&block)),
					fmt.Sprintf("[%s] %s (%.4fms)", block.Category, block.Description, block.DurationMs()),
				)
			}
			log.Msg(fmt.Sprintf("Served [%s] %s in %.4fms", c.Perf.Method, c.Perf.Path, float64(c.Perf.End.Sub(c.Perf.Start).Nanoseconds())/1000/1000))
		}()

		return h(c)
	}
}

// Hands this request's queued notification events to the dispatcher once
// the handler is done. Runs on panics too; events are only queued after
// their mutation committed, so they are valid regardless of how the rest
// of the request went.
func flushNotifications(dispatcher *notify.Dispatcher) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			defer func() {
				dispatcher.Post(c.Notifications.Drain()...)
			}()
			return h(c)
		}
	}
}

// Resolves the session cookie to a user before any handler runs. A missing
// or expired session simply means a guest; only infrastructure failures
// error out.
func loadCommonData(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		c.Perf.StartBlock("MIDDLEWARE", "Load common website data")
		{
			sessionCookie, err := c.Req.Cookie(auth.SessionCookieName)
			if err == nil {
				user, session, err := getCurrentUserAndSession(c, sessionCookie.Value)
				if err != nil {
					return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to get current user"))
				}

				c.CurrentUser = user
				c.CurrentSession = session
			}
			// http.ErrNoCookie is the only error Cookie ever returns, so no
			// further handling to do here.

			if c.CurrentUser != nil {
				err := forumdata.TouchLastSeen(c, c.Conn, c.CurrentUser.ID)
				if err != nil {
					c.Logger.Error().Err(err).Msg("failed to touch last seen")
				}
			}
		}
		c.Perf.EndBlock()

		return h(c)
	}
}

// Given a session id, fetches user data from the database. Will return nil
// if the user cannot be found, and will only return an error if it's
// serious.
func getCurrentUserAndSession(c *RequestContext, sessionId string) (*models.User, *models.Session, error) {
	session, err := auth.GetSession(c, c.Conn, sessionId)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil, nil, nil
		} else {
			return nil, nil, oops.New(err, "failed to get current session")
		}
	}

	user, err := forumdata.FetchUser(c, c.Conn, session.UserID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			logging.Debug().Int("user id", session.UserID).Msg("returning no current user for this request because the user for the session couldn't be found")
			return nil, nil, nil // user was deleted or something
		} else {
			return nil, nil, oops.New(err, "failed to get user for session")
		}
	}

	return user, session, nil
}

func needsAuth(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentUser == nil {
			return c.ErrorResponse(http.StatusUnauthorized, errors.New("you must be logged in to do that"))
		}

		return h(c)
	}
}

func adminsOnly(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentUser == nil || !c.CurrentUser.IsAdmin() {
			return FourOhFour(c)
		}

		return h(c)
	}
}
