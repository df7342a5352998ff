package website

import (
	"errors"
	"net/http"

	"git.retroherna.org/rh/rhforum/src/auth"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/oops"
)

func Register(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	user, err := forumdata.RegisterUser(c, c.Conn, &c.Notifications,
		form.Get("login"),
		form.Get("fullname"),
		form.Get("email"),
		form.Get("password"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	// Registering logs you in right away.
	session, err := auth.CreateSession(c, c.Conn, user.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create session"))
	}

	var res ResponseData
	res.SetCookie(auth.NewSessionCookie(session))
	res.WriteJson(map[string]any{
		"user": UserToJson(user, true),
	}, c.Perf)
	return res
}

func Login(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}
	login := form.Get("login")
	password := form.Get("password")
	if login == "" || password == "" {
		return c.RejectRequest(http.StatusBadRequest, "you must provide both a login and a password")
	}

	user, err := forumdata.FetchUserByLogin(c, c.Conn, login)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return c.RejectRequest(http.StatusUnauthorized, "wrong login or password")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to look up user by login"))
	}

	ok, err := auth.VerifyPassword(user, password)
	if err != nil {
		return c.ForumError(err)
	}
	if !ok {
		return c.RejectRequest(http.StatusUnauthorized, "wrong login or password")
	}

	session, err := auth.CreateSession(c, c.Conn, user.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create session"))
	}

	var res ResponseData
	res.SetCookie(auth.NewSessionCookie(session))
	res.WriteJson(map[string]any{
		"user": UserToJson(user, true),
	}, c.Perf)
	return res
}

func Logout(c *RequestContext) ResponseData {
	if c.CurrentSession != nil {
		err := auth.DeleteSession(c, c.Conn, c.CurrentSession.ID)
		if err != nil {
			c.Logger.Error().Err(err).Msg("failed to delete session on logout")
		}
	}

	var res ResponseData
	res.SetCookie(auth.DeleteSessionCookie)
	res.WriteJson(map[string]any{
		"loggedOut": true,
	}, c.Perf)
	return res
}
