package auth

import (
	"errors"
	"strings"

	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/oops"
	"golang.org/x/crypto/bcrypt"
)

// Returned when the stored hash predates the move to bcrypt. The user must
// reset their credential through the wiki; we never verify legacy hashes.
var ErrLegacyCredential = errors.New("credential uses an unsupported legacy hashing scheme")

func hashIsBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a") || strings.HasPrefix(hash, "$2b")
}

// Checks a plaintext password against the user's stored hash. Returns
// ErrLegacyCredential when the stored hash is not bcrypt.
func VerifyPassword(user *models.User, password string) (bool, error) {
	if !hashIsBcrypt(user.PasswordHash) {
		return false, ErrLegacyCredential
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, oops.New(err, "failed to verify password")
	}
	return true, nil
}

// Produces a bcrypt hash for storage. The $2b prefix is rewritten to $2a
// for DokuWiki compatibility; both verify identically.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", oops.New(err, "failed to hash password")
	}

	result := string(hash)
	if strings.HasPrefix(result, "$2b") {
		result = "$2a" + result[3:]
	}
	return result, nil
}
