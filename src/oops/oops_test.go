package oops

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var sampleErrorValue = errors.New("some error occurred that you should handle")

type sampleErrorType struct {
	Message string
}

func (s sampleErrorType) Error() string {
	return s.Message
}

func init() {
	zerolog.ErrorStackMarshaler = ZerologStackMarshaler
}

func TestNew(t *testing.T) {
	t.Run("errors.Is", func(t *testing.T) {
		err := New(sampleErrorValue, "test error")
		assert.True(t, errors.Is(err, sampleErrorValue))
	})
	t.Run("errors.As", func(t *testing.T) {
		err := New(sampleErrorType{Message: "some fancy error type has occurred"}, "test error")
		var sErr sampleErrorType
		assert.True(t, errors.As(err, &sErr))
	})
	t.Run("captures a stack", func(t *testing.T) {
		err := New(nil, "test error")
		var oopsErr *Error
		assert.True(t, errors.As(err, &oopsErr))
		assert.NotEmpty(t, oopsErr.Stack)
	})
}
