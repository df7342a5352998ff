package forumdata

import (
	"testing"

	"git.retroherna.org/rh/rhforum/src/models"
	"github.com/stretchr/testify/assert"
)

func TestQuotePrefill(t *testing.T) {
	post := &models.Post{ID: 42, Text: "Mám doma SAM Coupé."}
	author := &models.User{Login: "pan_x"}

	assert.Equal(t,
		"[quote=pan_x@42]Mám doma SAM Coupé.[/quote]\n",
		QuotePrefill(post, author),
	)

	// Authors can be missing (deleted accounts); quote anyway.
	assert.Equal(t,
		"[quote=@42]Mám doma SAM Coupé.[/quote]\n",
		QuotePrefill(post, nil),
	)
}

// Edits always anchor at the chain root: editing a revision of P must
// produce a row whose original is P, not the revision.
func TestEditChainRootStaysFixed(t *testing.T) {
	rootID := 1
	root := &models.Post{ID: rootID}
	firstEdit := &models.Post{ID: 2, OriginalID: &rootID}

	// What EditPost stores for the next revision in each case.
	assert.Equal(t, 1, root.RootID())
	assert.Equal(t, 1, firstEdit.RootID())
}
