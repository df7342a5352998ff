package website

import (
	"net/http"
	"strconv"
	"strings"

	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/models"
)

func UserList(c *RequestContext) ResponseData {
	users, err := forumdata.FetchUsers(c, c.Conn, forumdata.UsersQuery{})
	if err != nil {
		return c.ForumError(err)
	}

	result := make([]*UserJson, len(users))
	for i, u := range users {
		result[i] = UserToJson(u, true)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"users": result,
	}, c.Perf)
	return res
}

func UserProfile(c *RequestContext) ResponseData {
	userID, ok := c.PathParamInt("userid")
	if !ok {
		return FourOhFour(c)
	}

	user, err := forumdata.FetchUser(c, c.Conn, userID)
	if err != nil {
		return c.ForumError(err)
	}

	numPosts, err := forumdata.CountUserPosts(c, c.Conn, userID)
	if err != nil {
		return c.ForumError(err)
	}

	viewer := c.Viewer()
	includeEmail := viewer.IsAdmin()
	if current, ok := viewer.User(); ok && current.ID == userID {
		includeEmail = true
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"user":     UserToJson(user, includeEmail),
		"numPosts": numPosts,
	}, c.Perf)
	return res
}

// Profile edits by the user themselves or by an admin. Admins may also
// replace the user's group memberships wholesale by passing group_ids.
func UserEdit(c *RequestContext) ResponseData {
	userID, ok := c.PathParamInt("userid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	err = forumdata.UpdateUserProfile(c, c.Conn, c.Viewer(), userID, forumdata.UserProfile{
		Fullname:  form.Get("fullname"),
		Email:     form.Get("email"),
		Homepage:  form.Get("homepage"),
		AvatarUrl: form.Get("avatar_url"),
		Profile:   form.Get("profile"),
	})
	if err != nil {
		return c.ForumError(err)
	}

	if form.Has("group_ids") {
		var groupIDs []int
		for _, raw := range form["group_ids"] {
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return c.RejectRequest(http.StatusBadRequest, "group_ids must be integers")
			}
			groupIDs = append(groupIDs, id)
		}
		err = forumdata.SetUserGroups(c, c.Conn, c.Viewer(), userID, groupIDs)
		if err != nil {
			return c.ForumError(err)
		}
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

func UserThreads(c *RequestContext) ResponseData {
	userID, ok := c.PathParamInt("userid")
	if !ok {
		return FourOhFour(c)
	}

	threads, err := forumdata.FetchThreads(c, c.Conn, c.Viewer(), forumdata.ThreadsQuery{
		AuthorIDs: []int{userID},
	})
	if err != nil {
		return c.ForumError(err)
	}

	result := make([]ThreadJson, len(threads))
	for i := range threads {
		result[i] = ThreadToJson(&threads[i])
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"threads": result,
	}, c.Perf)
	return res
}

func GroupList(c *RequestContext) ResponseData {
	groups, err := forumdata.FetchGroups(c, c.Conn)
	if err != nil {
		return c.ForumError(err)
	}

	result := make([]GroupJson, len(groups))
	for i, g := range groups {
		result[i] = GroupToJson(g)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"groups": result,
	}, c.Perf)
	return res
}

func GroupCreate(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	group, err := forumdata.CreateGroup(c, c.Conn, c.Viewer(), form.Get("name"))
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(map[string]any{
		"group": GroupToJson(group),
	}, c.Perf)
	return res
}

func GroupEdit(c *RequestContext) ResponseData {
	groupID, ok := c.PathParamInt("groupid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	rank, _ := formInt(form, "rank")
	display := false
	if b := formOptionalBool(form, "display"); b != nil {
		display = *b
	}

	err = forumdata.UpdateGroup(c, c.Conn, c.Viewer(), &models.Group{
		ID:         groupID,
		Name:       form.Get("name"),
		Symbol:     form.Get("symbol"),
		GroupTitle: form.Get("title"),
		Rank:       rank,
		Display:    display,
	})
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}
