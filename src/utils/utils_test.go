package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 5, OrDefault(0, 5))
	assert.Equal(t, 3, OrDefault(3, 5))
	assert.Equal(t, "fallback", OrDefault("", "fallback"))
}

func TestIntClamp(t *testing.T) {
	assert.Equal(t, 1, IntClamp(1, -10, 5))
	assert.Equal(t, 5, IntClamp(1, 10, 5))
	assert.Equal(t, 3, IntClamp(1, 3, 5))
}

func TestRecoverPanicAsError(t *testing.T) {
	boom := errors.New("boom")
	err := func() (err error) {
		defer RecoverPanicAsError(&err)
		panic(boom)
	}()
	assert.True(t, errors.Is(err, boom))
}
