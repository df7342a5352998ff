package website

import (
	"net/http"

	"git.retroherna.org/rh/rhforum/src/forumdata"
)

/*
Taxonomy management. Everything here is behind adminsOnly; the data layer
checks again anyway so a wiring mistake fails closed.
*/

func ForumCreate(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	forum, err := forumdata.CreateForum(c, c.Conn, c.Viewer(),
		form.Get("name"),
		form.Get("description"),
		formOptionalInt(form, "category_id"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(map[string]any{
		"forum": ForumToJson(forum),
	}, c.Perf)
	return res
}

func ForumEdit(c *RequestContext) ResponseData {
	forumID, ok := c.PathParamInt("forumid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	err = forumdata.UpdateForum(c, c.Conn, c.Viewer(), forumID,
		form.Get("name"),
		form.Get("description"),
		formOptionalInt(form, "category_id"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

// Moves a forum up or down within its sibling list. delta is most commonly
// -1 or 1 but any distance works; moves past the ends clamp.
func ForumMove(c *RequestContext) ResponseData {
	forumID, ok := c.PathParamInt("forumid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}
	delta, ok := formInt(form, "delta")
	if !ok || delta == 0 {
		return c.RejectRequest(http.StatusBadRequest, "delta must be a nonzero integer")
	}

	err = forumdata.MoveForum(c, c.Conn, c.Viewer(), forumID, delta)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

// Deleting a non-empty forum requires a replacement forum to move its
// threads into; without one the request is refused.
func ForumDelete(c *RequestContext) ResponseData {
	forumID, ok := c.PathParamInt("forumid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	err = forumdata.DeleteForum(c, c.Conn, c.Viewer(), forumID, formOptionalInt(form, "replacement_forum_id"))
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

func CategoryCreate(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	category, err := forumdata.CreateCategory(c, c.Conn, c.Viewer(),
		form.Get("name"),
		formOptionalInt(form, "group_id"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(map[string]any{
		"category": CategoryToJson(category),
	}, c.Perf)
	return res
}

func CategoryEdit(c *RequestContext) ResponseData {
	categoryID, ok := c.PathParamInt("categoryid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	err = forumdata.UpdateCategory(c, c.Conn, c.Viewer(), categoryID,
		form.Get("name"),
		formOptionalInt(form, "group_id"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

func CategoryMove(c *RequestContext) ResponseData {
	categoryID, ok := c.PathParamInt("categoryid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}
	delta, ok := formInt(form, "delta")
	if !ok || delta == 0 {
		return c.RejectRequest(http.StatusBadRequest, "delta must be a nonzero integer")
	}

	err = forumdata.MoveCategory(c, c.Conn, c.Viewer(), categoryID, delta)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

// Deleting a category does not delete its forums; they move to the end of
// the uncategorized list.
func CategoryDelete(c *RequestContext) ResponseData {
	categoryID, ok := c.PathParamInt("categoryid")
	if !ok {
		return FourOhFour(c)
	}

	err := forumdata.DeleteCategory(c, c.Conn, c.Viewer(), categoryID)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

func CategoryList(c *RequestContext) ResponseData {
	categories, err := forumdata.FetchCategories(c, c.Conn)
	if err != nil {
		return c.ForumError(err)
	}

	result := make([]*CategoryJson, len(categories))
	for i, cat := range categories {
		result[i] = CategoryToJson(cat)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"categories": result,
	}, c.Perf)
	return res
}
