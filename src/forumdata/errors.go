package forumdata

import (
	"errors"
	"fmt"
)

// Expected, locally-caught conditions at the boundary between the forum
// core and its callers. None of these should ever crash the process; the
// website layer maps them to HTTP statuses.

// Bad input; the caller should re-prompt.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Authorization failure; surfaced as access denied, never retried.
var ErrForbidden = errors.New("you are not allowed to do that")

// Posting into a locked thread (admins are exempt).
var ErrThreadLocked = errors.New("thread is locked")

// Posting into the trash forum is never allowed, not even for admins.
var ErrTrashForum = errors.New("cannot post into the trash forum")

// Deleting a forum that still contains threads without designating a
// replacement forum for them.
var ErrForumNotEmpty = errors.New("forum still contains threads")

// Returned when editing a post whose row was already superseded (the user
// probably hit edit twice). Not a failure: the caller should redirect to
// the chain's current revision.
type AlreadyEditedError struct {
	CurrentPostID int
}

func (e AlreadyEditedError) Error() string {
	return fmt.Sprintf("post was already edited; current revision is %d", e.CurrentPostID)
}
