package auth

import (
	"errors"
	"testing"

	"git.retroherna.org/rh/rhforum/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.Equal(t, "$2a", hash[:3], "hashes must use the $2a prefix for wiki compatibility")

	user := &models.User{PasswordHash: hash}

	ok, err := VerifyPassword(user, "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(user, "hunter3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLegacyCredential(t *testing.T) {
	// md5 crypt, as the wiki used to produce
	user := &models.User{PasswordHash: "$1$abcdefgh$0123456789abcdefghijk"}

	_, err := VerifyPassword(user, "whatever")
	assert.True(t, errors.Is(err, ErrLegacyCredential))
}
