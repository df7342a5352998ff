package forumdata

import (
	"testing"

	"git.retroherna.org/rh/rhforum/src/models"
	"github.com/stretchr/testify/assert"
)

// Group ids here start at 500 and must stay clear of the ids that gated
// fixtures use, or an "outsider" viewer would accidentally hold the gate's
// group.
func makeViewer(groups ...string) models.Viewer {
	user := &models.User{ID: 100, Login: "someone"}
	for i, name := range groups {
		user.Groups = append(user.Groups, &models.Group{ID: 500 + i, Name: name})
	}
	return models.AuthenticatedViewer(user)
}

func gatedForum(groupID int) *models.Forum {
	return &models.Forum{
		ID: 1,
		Category: &models.Category{
			ID:      2,
			GroupID: &groupID,
		},
	}
}

func TestForumAccess(t *testing.T) {
	t.Run("missing forum is not found", func(t *testing.T) {
		assert.Equal(t, AccessNotFound, ForumAccess(models.GuestViewer(), nil))
	})

	t.Run("plain forum is visible to everybody", func(t *testing.T) {
		forum := &models.Forum{ID: 1}
		assert.Equal(t, AccessAllowed, ForumAccess(models.GuestViewer(), forum))
		assert.Equal(t, AccessAllowed, ForumAccess(makeViewer(), forum))
	})

	t.Run("group gate", func(t *testing.T) {
		forum := gatedForum(900)
		member := models.AuthenticatedViewer(&models.User{
			ID:     1,
			Groups: []*models.Group{{ID: 900, Name: "retroherna"}},
		})

		assert.Equal(t, AccessForbidden, ForumAccess(models.GuestViewer(), forum))
		assert.Equal(t, AccessForbidden, ForumAccess(makeViewer("user"), forum))
		assert.Equal(t, AccessAllowed, ForumAccess(member, forum))
		assert.Equal(t, AccessAllowed, ForumAccess(makeViewer(models.AdminGroupName), forum),
			"admins pass every group gate")
	})

	t.Run("trash forum is admin-only", func(t *testing.T) {
		trash := &models.Forum{ID: 1, Trash: true}
		assert.Equal(t, AccessForbidden, ForumAccess(models.GuestViewer(), trash))
		assert.Equal(t, AccessForbidden, ForumAccess(makeViewer("user"), trash))
		assert.Equal(t, AccessAllowed, ForumAccess(makeViewer(models.AdminGroupName), trash))
	})
}

func TestCanReply(t *testing.T) {
	forum := &models.Forum{ID: 1}
	thread := &models.Thread{ID: 10, ForumID: 1}

	t.Run("open thread", func(t *testing.T) {
		assert.NoError(t, CanReply(makeViewer("user"), forum, thread))
	})

	t.Run("locked thread blocks non-admins", func(t *testing.T) {
		locked := &models.Thread{ID: 10, ForumID: 1, Locked: true}
		assert.ErrorIs(t, CanReply(makeViewer("user"), forum, locked), ErrThreadLocked)
		assert.NoError(t, CanReply(makeViewer(models.AdminGroupName), forum, locked))
	})

	t.Run("nobody posts into the trash", func(t *testing.T) {
		trash := &models.Forum{ID: 1, Trash: true}
		assert.ErrorIs(t, CanReply(makeViewer("user"), trash, thread), ErrForbidden)
		assert.ErrorIs(t, CanReply(makeViewer(models.AdminGroupName), trash, thread), ErrTrashForum)
	})
}

func TestCanEditPost(t *testing.T) {
	forum := &models.Forum{ID: 1}
	post := &models.Post{ID: 5, AuthorID: 100}

	t.Run("author may edit", func(t *testing.T) {
		assert.NoError(t, CanEditPost(makeViewer("user"), forum, post))
	})

	t.Run("admin may edit", func(t *testing.T) {
		other := models.AuthenticatedViewer(&models.User{
			ID:     999,
			Groups: []*models.Group{{ID: 1, Name: models.AdminGroupName}},
		})
		assert.NoError(t, CanEditPost(other, forum, post))
	})

	t.Run("strangers and guests may not", func(t *testing.T) {
		stranger := models.AuthenticatedViewer(&models.User{ID: 999})
		assert.ErrorIs(t, CanEditPost(stranger, forum, post), ErrForbidden)
		assert.ErrorIs(t, CanEditPost(models.GuestViewer(), forum, post), ErrForbidden)
	})
}
