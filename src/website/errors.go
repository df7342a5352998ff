package website

import (
	"errors"
	"net/http"

	"git.retroherna.org/rh/rhforum/src/auth"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/logging"
)

func (c *RequestContext) ErrorResponse(status int, errs ...error) ResponseData {
	for _, err := range errs {
		logContextError(c, err)
	}

	res := ResponseData{
		StatusCode: status,
		Errors:     errs,
	}
	res.WriteJson(map[string]any{
		"error": http.StatusText(status),
	}, c.Perf)
	return res
}

// Bad input and expected domain conditions get their message echoed back;
// they carry no internals.
func (c *RequestContext) RejectRequest(status int, reason string) ResponseData {
	res := ResponseData{
		StatusCode: status,
	}
	res.WriteJson(map[string]any{
		"error": reason,
	}, c.Perf)
	return res
}

func FourOhFour(c *RequestContext) ResponseData {
	return c.RejectRequest(http.StatusNotFound, "not found")
}

/*
Maps the forum core's error taxonomy onto HTTP statuses. Validation errors
re-prompt the caller (400), authorization and state-blocked actions are
access denied (403), missing entities are 404, and a refused taxonomy
deletion is a conflict with a remediation hint (409). The already-edited
signal is not a failure at all: it redirects to the chain's current
revision. Anything else is an internal error.
*/
func (c *RequestContext) ForumError(err error) ResponseData {
	var validationError forumdata.ValidationError
	var alreadyEdited forumdata.AlreadyEditedError

	switch {
	case errors.As(err, &validationError):
		return c.RejectRequest(http.StatusBadRequest, validationError.Msg)
	case errors.As(err, &alreadyEdited):
		res := ResponseData{StatusCode: http.StatusSeeOther}
		res.WriteJson(map[string]any{
			"alreadyEdited": true,
			"currentPostId": alreadyEdited.CurrentPostID,
		}, c.Perf)
		return res
	case errors.Is(err, forumdata.ErrForbidden),
		errors.Is(err, forumdata.ErrThreadLocked),
		errors.Is(err, forumdata.ErrTrashForum):
		return c.RejectRequest(http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrLegacyCredential):
		return c.RejectRequest(http.StatusForbidden, "please reset your password on the wiki")
	case errors.Is(err, db.NotFound):
		return FourOhFour(c)
	case errors.Is(err, forumdata.ErrForumNotEmpty):
		return c.RejectRequest(http.StatusConflict, "forum still contains threads; designate a replacement forum")
	default:
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
}

func logContextError(c *RequestContext, err error) {
	if err == nil {
		return
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.GlobalLogger()
	}
	logger.Error().Timestamp().Stack().Err(err).Msg("error while handling request")
}
