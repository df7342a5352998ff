package forumdata

import (
	"testing"
	"time"

	"git.retroherna.org/rh/rhforum/src/models"
	"github.com/stretchr/testify/assert"
)

func TestCompareCheckpoint(t *testing.T) {
	post := func(id int) *models.Post {
		return &models.Post{ID: id, ThreadID: 1, Timestamp: time.Now()}
	}

	t.Run("caught up", func(t *testing.T) {
		status := compareCheckpoint(post(5), post(5))
		assert.Equal(t, NothingNew, status.Kind)
		assert.Nil(t, status.ResumeAt)
	})

	t.Run("behind", func(t *testing.T) {
		seen := post(5)
		status := compareCheckpoint(seen, post(9))
		assert.Equal(t, PartlyUnread, status.Kind)
		assert.Equal(t, seen, status.ResumeAt)
	})

	t.Run("every post deleted counts as caught up", func(t *testing.T) {
		status := compareCheckpoint(post(5), nil)
		assert.Equal(t, NothingNew, status.Kind)
	})
}

// Creating a checkpoint anchors at the chain root; the root of an unedited
// post is the post itself.
func TestCheckpointRootAnchoring(t *testing.T) {
	root := &models.Post{ID: 7, ThreadID: 1}
	assert.Equal(t, 7, root.RootID())

	rootID := 7
	revision := &models.Post{ID: 12, ThreadID: 1, OriginalID: &rootID}
	assert.Equal(t, 7, revision.RootID())
	assert.True(t, revision.IsRevision())
}
