package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrlFriendly(t *testing.T) {
	assert.Equal(t, "kos", UrlFriendly("Koš"))
	assert.Equal(t, "prilis-zlutoucky-kun", UrlFriendly("Příliš žluťoučký kůň"))
	assert.Equal(t, "amiga-500", UrlFriendly("  Amiga 500! "))
	assert.Equal(t, "", UrlFriendly("???"))
}
