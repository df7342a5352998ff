package website

import (
	"errors"
	"net/http"

	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/models"
)

const activeThreadsOnIndex = 5

// The landing page: every forum the viewer may see (grouped under their
// categories), the most recently active threads, and the viewer's task
// board if they have one.
func Index(c *RequestContext) ResponseData {
	viewer := c.Viewer()

	forums, err := forumdata.FetchForums(c, c.Conn, viewer)
	if err != nil {
		return c.ForumError(err)
	}

	active, err := forumdata.FetchThreads(c, c.Conn, viewer, forumdata.ThreadsQuery{
		Limit: activeThreadsOnIndex,
	})
	if err != nil {
		return c.ForumError(err)
	}

	var tasks []TaskJson
	if viewer.InGroup(forumdata.TasksGroupName) {
		fetched, err := forumdata.FetchTasks(c, c.Conn, viewer)
		if err != nil {
			return c.ForumError(err)
		}
		for _, t := range fetched {
			tasks = append(tasks, TaskToJson(t))
		}
	}

	forumsJson := make([]ForumJson, len(forums))
	for i, f := range forums {
		forumsJson[i] = ForumToJson(f)
	}
	activeJson := make([]ThreadJson, len(active))
	for i := range active {
		activeJson[i] = ThreadToJson(&active[i])
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"currentUser":   UserToJson(c.CurrentUser, true),
		"forums":        forumsJson,
		"activeThreads": activeJson,
		"tasks":         tasks,
	}, c.Perf)
	return res
}

func ActiveThreads(c *RequestContext) ResponseData {
	limit, ok := formInt(c.URL().Query(), "limit")
	if !ok || limit <= 0 || limit > 100 {
		limit = 25
	}
	offset, _ := formInt(c.URL().Query(), "offset")

	threads, err := forumdata.FetchThreads(c, c.Conn, c.Viewer(), forumdata.ThreadsQuery{
		Limit:  limit,
		Offset: offset,
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

// One forum's thread listing: archived last, pinned first, then most
// recent activity. Logged-in users also get their unread state per thread.
func Forum(c *RequestContext) ResponseData {
	forumID, ok := c.PathParamInt("forumid")
	if !ok {
		return FourOhFour(c)
	}
	viewer := c.Viewer()

	forum, err := forumdata.FetchForum(c, c.Conn, viewer, forumID)
	if err != nil {
		return c.ForumError(err)
	}

	threads, err := forumdata.FetchThreads(c, c.Conn, viewer, forumdata.ThreadsQuery{
		ForumIDs:          []int{forumID},
		ForumDisplayOrder: true,
	})
	if err != nil {
		return c.ForumError(err)
	}

	result := make([]ThreadJson, len(threads))
	for i := range threads {
		result[i] = ThreadToJson(&threads[i])
		if !viewer.IsGuest() {
			status, err := forumdata.Unread(c, c.Conn, viewer, threads[i].Thread.ID)
			if err != nil {
				return c.ForumError(err)
			}
			numUnread, err := forumdata.NumUnread(c, c.Conn, viewer, threads[i].Thread.ID)
			if err != nil {
				return c.ForumError(err)
			}
			result[i].Unread = UnreadToJson(status, numUnread)
		}
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"forum":   ForumToJson(forum),
		"threads": result,
	}, c.Perf)
	return res
}

func NewThread(c *RequestContext) ResponseData {
	forumID, ok := c.PathParamInt("forumid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	thread, err := forumdata.CreateThread(c, c.Conn, c.Viewer(), &c.Notifications,
		forumID,
		form.Get("title"),
		form.Get("text"),
	)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(map[string]any{
		"threadId": thread.ID,
	}, c.Perf)
	return res
}

func MarkAllRead(c *RequestContext) ResponseData {
	err := forumdata.MarkAllRead(c, c.Conn, c.Viewer())
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

/*
One thread with its posts. The unread state is computed before the view is
recorded, so the response can still say where the reader left off; viewing
then checkpoints the thread at its latest post. A ?reply=<postid> query
returns a quote-prefilled reply text, and threads bound to a wiki article
get the article's content when the wiki is reachable (failures there are
never fatal to the page).
*/
func Thread(c *RequestContext) ResponseData {
	threadID, ok := c.PathParamInt("threadid")
	if !ok {
		return FourOhFour(c)
	}
	viewer := c.Viewer()
	query := c.URL().Query()

	row, err := forumdata.FetchThread(c, c.Conn, viewer, threadID)
	if err != nil {
		return c.ForumError(err)
	}

	var unread *UnreadJson
	if !viewer.IsGuest() {
		status, err := forumdata.Unread(c, c.Conn, viewer, threadID)
		if err != nil {
			return c.ForumError(err)
		}
		numUnread, err := forumdata.NumUnread(c, c.Conn, viewer, threadID)
		if err != nil {
			return c.ForumError(err)
		}
		unread = UnreadToJson(status, numUnread)
	}

	posts, numDeleted, err := forumdata.FetchPosts(c, c.Conn, viewer, threadID, query.Get("show_deleted") != "")
	if err != nil {
		return c.ForumError(err)
	}

	// Viewing the thread is what marks it read.
	if !viewer.IsGuest() {
		lastPost, err := forumdata.ThreadLastPost(c, c.Conn, threadID)
		if err != nil {
			return c.ForumError(err)
		}
		err = forumdata.Read(c, c.Conn, viewer, lastPost)
		if err != nil {
			return c.ForumError(err)
		}
	}

	var wikiHtml *string
	if row.Thread.WikiArticle != nil && c.Wiki != nil {
		article, err := c.Wiki.FetchArticle(c, *row.Thread.WikiArticle)
		if err != nil {
			c.Logger.Warn().Err(err).Str("article", *row.Thread.WikiArticle).Msg("failed to fetch wiki article")
		} else {
			wikiHtml = &article.Html
		}
	}

	var replyPrefill *string
	if quotedID, ok := formInt(query, "reply"); ok {
		prefill, err := quotePrefillForPost(c, viewer, threadID, quotedID)
		if err != nil {
			return c.ForumError(err)
		}
		replyPrefill = &prefill
	}

	postsJson := make([]PostJson, len(posts))
	for i := range posts {
		postsJson[i] = PostToJson(&posts[i])
	}

	threadJson := ThreadToJson(row)
	threadJson.Unread = unread

	var res ResponseData
	res.WriteJson(map[string]any{
		"thread":       threadJson,
		"forum":        ForumToJson(row.ForumWithCategory()),
		"posts":        postsJson,
		"numDeleted":   numDeleted,
		"wikiHtml":     wikiHtml,
		"replyPrefill": replyPrefill,
	}, c.Perf)
	return res
}

func quotePrefillForPost(c *RequestContext, viewer models.Viewer, threadID, postID int) (string, error) {
	post, err := forumdata.FetchPost(c, c.Conn, viewer, postID)
	if err != nil {
		return "", err
	}
	if post.ThreadID != threadID {
		return "", forumdata.NewValidationError("post %d is not part of this thread", postID)
	}

	var author *models.User
	author, err = forumdata.FetchUser(c, c.Conn, post.AuthorID)
	if err != nil {
		if !errors.Is(err, db.NotFound) {
			return "", err
		}
		author = nil // quoting a deleted account still works
	}
	return forumdata.QuotePrefill(post, author), nil
}

func ThreadReply(c *RequestContext) ResponseData {
	threadID, ok := c.PathParamInt("threadid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	post, err := forumdata.PostReply(c, c.Conn, c.Viewer(), &c.Notifications, threadID, form.Get("text"))
	if err != nil {
		return c.ForumError(err)
	}

	// Replying means you saw everything up to your own post.
	err = forumdata.Read(c, c.Conn, c.Viewer(), post)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(map[string]any{
		"postId": post.ID,
	}, c.Perf)
	return res
}

// Moderation switches: pinned, locked, archived.
func ThreadSetFlags(c *RequestContext) ResponseData {
	threadID, ok := c.PathParamInt("threadid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	pinned := formOptionalBool(form, "pinned")
	locked := formOptionalBool(form, "locked")
	archived := formOptionalBool(form, "archived")
	if pinned == nil && locked == nil && archived == nil {
		return c.RejectRequest(http.StatusBadRequest, "nothing to set")
	}

	err = forumdata.SetThreadFlags(c, c.Conn, c.Viewer(), threadID, pinned, locked, archived)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}

func PostEdit(c *RequestContext) ResponseData {
	postID, ok := c.PathParamInt("postid")
	if !ok {
		return FourOhFour(c)
	}
	form, err := c.GetFormValues()
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "could not parse form")
	}

	post, err := forumdata.EditPost(c, c.Conn, c.Viewer(), forumdata.EditPostArgs{
		PostID:      postID,
		NewText:     form.Get("text"),
		ThreadName:  formOptionalString(form, "thread_name"),
		ForumID:     formOptionalInt(form, "forum_id"),
		WikiArticle: formOptionalString(form, "wiki_article"),
	})
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"postId": post.ID,
	}, c.Perf)
	return res
}

func PostDelete(c *RequestContext) ResponseData {
	postID, ok := c.PathParamInt("postid")
	if !ok {
		return FourOhFour(c)
	}

	err := forumdata.DeletePost(c, c.Conn, c.Viewer(), postID)
	if err != nil {
		return c.ForumError(err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"ok": true,
	}, c.Perf)
	return res
}
