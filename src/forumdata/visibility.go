package forumdata

import (
	"git.retroherna.org/rh/rhforum/src/models"
)

type Access int

const (
	AccessNotFound Access = iota
	AccessForbidden
	AccessAllowed
)

// Whether the viewer holds the category's required group. Admins pass every
// group gate. A nil category is the uncategorized list, which is ungated.
func categoryGateOpen(viewer models.Viewer, category *models.Category) bool {
	if category == nil || category.GroupID == nil {
		return true
	}
	if viewer.IsAdmin() {
		return true
	}
	for _, g := range viewer.Groups() {
		if g.ID == *category.GroupID {
			return true
		}
	}
	return false
}

func CategoryAccess(viewer models.Viewer, category *models.Category) Access {
	if category == nil {
		return AccessNotFound
	}
	if !categoryGateOpen(viewer, category) {
		return AccessForbidden
	}
	return AccessAllowed
}

// The base visibility decision for a forum and everything beneath it.
// Rules apply in order, first match wins: missing, then the category's
// group gate, then the trash forum (admins only). The forum's Category
// must be populated by the fetch helpers for the gate to be checked.
func ForumAccess(viewer models.Viewer, forum *models.Forum) Access {
	if forum == nil {
		return AccessNotFound
	}
	if !categoryGateOpen(viewer, forum.Category) {
		return AccessForbidden
	}
	if forum.Trash && !viewer.IsAdmin() {
		return AccessForbidden
	}
	return AccessAllowed
}

// Per-action gate for replying in a thread, layered on top of ForumAccess.
// Nobody posts into the trash, not even admins. Locked threads accept posts
// from admins only.
func CanReply(viewer models.Viewer, forum *models.Forum, thread *models.Thread) error {
	if ForumAccess(viewer, forum) != AccessAllowed {
		return ErrForbidden
	}
	if forum.Trash {
		return ErrTrashForum
	}
	if thread.Locked && !viewer.IsAdmin() {
		return ErrThreadLocked
	}
	return nil
}

// Per-action gate for editing or deleting a post: the post's author, or an
// admin.
func CanEditPost(viewer models.Viewer, forum *models.Forum, post *models.Post) error {
	if ForumAccess(viewer, forum) != AccessAllowed {
		return ErrForbidden
	}
	user, ok := viewer.User()
	if !ok {
		return ErrForbidden
	}
	if post.AuthorID != user.ID && !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
