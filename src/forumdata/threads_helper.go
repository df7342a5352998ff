package forumdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/notify"
	"git.retroherna.org/rh/rhforum/src/oops"
	"git.retroherna.org/rh/rhforum/src/perf"
)

type ThreadsQuery struct {
	ForumIDs  []int // if empty, all forums
	AuthorIDs []int // if empty, all authors

	// Ignored when using FetchThread.
	ThreadIDs []int

	Limit, Offset int // if empty, no pagination

	// Sort archived threads last and pinned threads first, the order a
	// forum page wants. Defaults to plain laststamp descending (the
	// "active threads" order).
	ForumDisplayOrder bool
}

type ThreadAndStuff struct {
	Thread        models.Thread    `db:"thread"`
	Forum         models.Forum     `db:"forum"`
	Category      *models.Category `db:"category"`
	CategoryGroup *models.Group    `db:"category_group"`
	Author        *models.User     `db:"author"`
}

// The forum with its category attached, as the visibility filter wants it.
func (row *ThreadAndStuff) ForumWithCategory() *models.Forum {
	forum := row.Forum
	if row.Category != nil {
		category := *row.Category
		category.Group = row.CategoryGroup
		forum.Category = &category
	}
	return &forum
}

/*
Fetches threads the viewer may see, newest activity first. Visibility is
enforced in SQL (category group gates, the trash forum) so that pagination
stays correct.
*/
func FetchThreads(
	ctx context.Context,
	dbConn db.ConnOrTx,
	viewer models.Viewer,
	q ThreadsQuery,
) ([]ThreadAndStuff, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch threads")
	defer p.EndBlock()

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch threads
		SELECT $columns
		FROM
			threads AS thread
			JOIN fora AS forum ON forum.id = thread.forum_id
			LEFT JOIN categories AS category ON category.id = forum.category_id
			LEFT JOIN groups AS category_group ON category_group.id = category.group_id
			LEFT JOIN users AS author ON author.id = thread.author_id
		WHERE
			TRUE
		`,
	)
	if !viewer.IsAdmin() {
		var groupIDs []int
		for _, g := range viewer.Groups() {
			groupIDs = append(groupIDs, g.ID)
		}
		qb.Add(`AND NOT forum.trash`)
		qb.Add(
			`AND (forum.category_id IS NULL OR category.group_id IS NULL OR category.group_id = ANY ($?))`,
			groupIDs,
		)
	}
	if len(q.ForumIDs) > 0 {
		qb.Add(`AND forum.id = ANY ($?)`, q.ForumIDs)
	}
	if len(q.AuthorIDs) > 0 {
		qb.Add(`AND thread.author_id = ANY ($?)`, q.AuthorIDs)
	}
	if len(q.ThreadIDs) > 0 {
		qb.Add(`AND thread.id = ANY ($?)`, q.ThreadIDs)
	}
	if q.ForumDisplayOrder {
		qb.Add(`ORDER BY thread.archived ASC, thread.pinned DESC, thread.laststamp DESC`)
	} else {
		qb.Add(`ORDER BY thread.laststamp DESC`)
	}
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	rows, err := db.Query[ThreadAndStuff](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch threads")
	}

	result := make([]ThreadAndStuff, len(rows))
	for i, row := range rows {
		result[i] = *row
	}
	return result, nil
}

// Fetches a single thread, applying the visibility rules. Returns
// db.NotFound or ErrForbidden accordingly.
func FetchThread(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, threadID int) (*ThreadAndStuff, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch thread")
	defer p.EndBlock()

	row, err := db.QueryOne[ThreadAndStuff](ctx, dbConn,
		`
		---- Fetch thread
		SELECT $columns
		FROM
			threads AS thread
			JOIN fora AS forum ON forum.id = thread.forum_id
			LEFT JOIN categories AS category ON category.id = forum.category_id
			LEFT JOIN groups AS category_group ON category_group.id = category.group_id
			LEFT JOIN users AS author ON author.id = thread.author_id
		WHERE thread.id = $1
		`,
		threadID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch thread")
	}

	switch ForumAccess(viewer, row.ForumWithCategory()) {
	case AccessAllowed:
		return row, nil
	case AccessForbidden:
		return nil, ErrForbidden
	default:
		return nil, db.NotFound
	}
}

/*
Creates a thread with its root post. The thread starts with timestamp =
laststamp = now and the root post has no original (it is its own chain
root). Queues a new-thread notification after the commit.
*/
func CreateThread(
	ctx context.Context,
	dbConn db.ConnOrTx,
	viewer models.Viewer,
	nq *notify.Queue,
	forumID int,
	title string,
	body string,
) (*models.Thread, error) {
	user, ok := viewer.User()
	if !ok {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("thread title must not be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, NewValidationError("post text must not be empty")
	}

	forum, err := FetchForum(ctx, dbConn, viewer, forumID)
	if err != nil {
		return nil, err
	}
	if forum.Trash {
		return nil, ErrTrashForum
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	thread, err := db.QueryOne[models.Thread](ctx, tx,
		`
		---- Create thread
		INSERT INTO threads (forum_id, author_id, name, timestamp, laststamp)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING $columns
		`,
		forumID, user.ID, title, now,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create thread")
	}

	_, err = tx.Exec(ctx,
		`
		---- Create root post
		INSERT INTO posts (thread_id, author_id, timestamp, text, deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		`,
		thread.ID, user.ID, now, body,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create root post")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit new thread")
	}

	e := notify.NewEvent(notify.EventNewThread)
	e.UserName = user.Name()
	e.ForumName = forum.Name
	e.ThreadID = thread.ID
	e.ThreadName = thread.Name
	e.Gated = forum.Category != nil && forum.Category.GroupID != nil
	nq.Push(e)

	return thread, nil
}

/*
Appends a post to a thread and bumps the thread's laststamp. The two writes
are one transaction; a request that dies mid-way leaves no half-applied
state. Queues a new-post notification after the commit.
*/
func PostReply(
	ctx context.Context,
	dbConn db.ConnOrTx,
	viewer models.Viewer,
	nq *notify.Queue,
	threadID int,
	body string,
) (*models.Post, error) {
	user, ok := viewer.User()
	if !ok {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(body) == "" {
		return nil, NewValidationError("post text must not be empty")
	}

	row, err := FetchThread(ctx, dbConn, viewer, threadID)
	if err != nil {
		return nil, err
	}
	err = CanReply(viewer, row.ForumWithCategory(), &row.Thread)
	if err != nil {
		return nil, err
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	post, err := db.QueryOne[models.Post](ctx, tx,
		`
		---- Create post
		INSERT INTO posts (thread_id, author_id, timestamp, text, deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING $columns
		`,
		threadID, user.ID, now, body,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create post")
	}

	// GREATEST keeps laststamp from moving backward when concurrent posts
	// commit out of order.
	_, err = tx.Exec(ctx,
		`UPDATE threads SET laststamp = GREATEST(laststamp, $2) WHERE id = $1`,
		threadID, now,
	)
	if err != nil {
		return nil, oops.New(err, "failed to update thread laststamp")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit new post")
	}

	e := notify.NewEvent(notify.EventNewPost)
	e.UserName = user.Name()
	e.ForumName = row.Forum.Name
	e.ThreadID = threadID
	e.ThreadName = row.Thread.Name
	e.PostID = post.ID
	e.Gated = row.Forum.CategoryID != nil && row.Category != nil && row.Category.GroupID != nil
	nq.Push(e)

	return post, nil
}

type EditPostArgs struct {
	PostID  int
	NewText string

	// Thread-level fields, honored only when an admin edits the thread's
	// root post. Nil pointers leave the corresponding field unchanged.
	ThreadName  *string
	ForumID     *int
	WikiArticle *string // pointer to empty string clears the reference
}

/*
Replaces a post's text by creating a new revision row. The old row is
marked deleted, the new row points its original at the chain root and
preserves the original author and creation timestamp so the post keeps its
place in the thread. When an admin edits the thread's root post, the thread
itself may be renamed, retargeted to another forum, or re-pointed at a
different wiki article, atomically with the post edit. Retargeting does not
recompute laststamp.

Editing an already-superseded row is not an error: it returns
AlreadyEditedError carrying the chain's current revision so the caller can
redirect.
*/
func EditPost(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, args EditPostArgs) (*models.Post, error) {
	if strings.TrimSpace(args.NewText) == "" {
		return nil, NewValidationError("post text must not be empty")
	}

	user, ok := viewer.User()
	if !ok {
		return nil, ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	post, err := db.QueryOne[models.Post](ctx, tx,
		`SELECT $columns FROM posts WHERE id = $1 FOR UPDATE`,
		args.PostID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch post")
	}

	row, err := FetchThread(ctx, tx, viewer, post.ThreadID)
	if err != nil {
		return nil, err
	}
	err = CanEditPost(viewer, row.ForumWithCategory(), post)
	if err != nil {
		return nil, err
	}

	if post.Deleted {
		// The user probably hit edit multiple times. Just be helpful.
		current, err := ResolveCurrent(ctx, tx, post)
		if err != nil {
			return nil, err
		}
		return nil, AlreadyEditedError{CurrentPostID: current.ID}
	}

	wantsThreadEdit := args.ThreadName != nil || args.ForumID != nil || args.WikiArticle != nil
	if wantsThreadEdit {
		if !user.IsAdmin() {
			return nil, ErrForbidden
		}
		// Check against the root post before superseding the row below, or
		// the check would never match.
		rootPost, err := ThreadRootPost(ctx, tx, post.ThreadID)
		if err != nil {
			return nil, err
		}
		if rootPost == nil || rootPost.ID != post.ID {
			return nil, NewValidationError("thread fields can only be changed through the thread's first post")
		}
	}

	now := time.Now()
	newPost, err := db.QueryOne[models.Post](ctx, tx,
		`
		---- Create post revision
		INSERT INTO posts (thread_id, author_id, timestamp, text, deleted, editstamp, original_id, editor_id)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7)
		RETURNING $columns
		`,
		post.ThreadID, post.AuthorID, post.Timestamp, args.NewText, now, post.RootID(), user.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create post revision")
	}

	_, err = tx.Exec(ctx,
		`UPDATE posts SET deleted = TRUE WHERE id = $1`,
		post.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to supersede post")
	}

	if wantsThreadEdit {
		thread := row.Thread
		if args.ThreadName != nil {
			if strings.TrimSpace(*args.ThreadName) == "" {
				return nil, NewValidationError("thread title must not be empty")
			}
			thread.Name = *args.ThreadName
		}
		if args.ForumID != nil {
			thread.ForumID = *args.ForumID
		}
		if args.WikiArticle != nil {
			if *args.WikiArticle == "" {
				thread.WikiArticle = nil
			} else {
				thread.WikiArticle = args.WikiArticle
			}
		}

		_, err = tx.Exec(ctx,
			`
			---- Update thread fields
			UPDATE threads SET name = $2, forum_id = $3, wiki_article = $4 WHERE id = $1
			`,
			thread.ID, thread.Name, thread.ForumID, thread.WikiArticle,
		)
		if err != nil {
			return nil, oops.New(err, "failed to update thread")
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit post edit")
	}
	return newPost, nil
}

// Soft-deletes a post. No replacement row is created; the chain simply ends
// here until someone edits another revision.
func DeletePost(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, postID int) error {
	post, err := db.QueryOne[models.Post](ctx, dbConn,
		`SELECT $columns FROM posts WHERE id = $1`,
		postID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return db.NotFound
		}
		return oops.New(err, "failed to fetch post")
	}

	row, err := FetchThread(ctx, dbConn, viewer, post.ThreadID)
	if err != nil {
		return err
	}
	err = CanEditPost(viewer, row.ForumWithCategory(), post)
	if err != nil {
		return err
	}

	_, err = dbConn.Exec(ctx,
		`UPDATE posts SET deleted = TRUE WHERE id = $1`,
		postID,
	)
	if err != nil {
		return oops.New(err, "failed to delete post")
	}
	return nil
}

type PostAndStuff struct {
	Post   models.Post  `db:"post"`
	Author *models.User `db:"author"`
	Editor *models.User `db:"editor"`
}

/*
Fetches a thread's posts for display: non-deleted revisions ordered by
original creation timestamp, so edited posts keep their place. Admins may
request deleted rows too (the moderation view); the count of deleted rows
is always reported separately.
*/
func FetchPosts(
	ctx context.Context,
	dbConn db.ConnOrTx,
	viewer models.Viewer,
	threadID int,
	includeDeleted bool,
) (posts []PostAndStuff, numDeleted int, err error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch posts")
	defer p.EndBlock()

	includeDeleted = includeDeleted && viewer.IsAdmin()

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch posts
		SELECT $columns
		FROM
			posts AS post
			LEFT JOIN users AS author ON author.id = post.author_id
			LEFT JOIN users AS editor ON editor.id = post.editor_id
		WHERE post.thread_id = $?
		`,
		threadID,
	)
	if !includeDeleted {
		qb.Add(`AND NOT post.deleted`)
	}
	qb.Add(`ORDER BY post.timestamp, post.id`)

	rows, err := db.Query[PostAndStuff](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, 0, oops.New(err, "failed to fetch posts")
	}

	numDeleted, err = db.QueryOneScalar[int](ctx, dbConn,
		`SELECT COUNT(*) FROM posts WHERE thread_id = $1 AND deleted`,
		threadID,
	)
	if err != nil {
		return nil, 0, oops.New(err, "failed to count deleted posts")
	}

	posts = make([]PostAndStuff, len(rows))
	for i, row := range rows {
		posts[i] = *row
	}
	return posts, numDeleted, nil
}

func FetchPost(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, postID int) (*models.Post, error) {
	post, err := db.QueryOne[models.Post](ctx, dbConn,
		`SELECT $columns FROM posts WHERE id = $1`,
		postID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch post")
	}

	// Visibility follows the thread.
	_, err = FetchThread(ctx, dbConn, viewer, post.ThreadID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

/*
Resolves the current revision of a post's chain: the revision with the
latest editstamp among rows sharing the post's root, or the post itself if
nothing superseded it. Pure query, no side effects.
*/
func ResolveCurrent(ctx context.Context, dbConn db.ConnOrTx, post *models.Post) (*models.Post, error) {
	current, err := db.QueryOne[models.Post](ctx, dbConn,
		`
		---- Resolve current revision
		SELECT $columns
		FROM posts
		WHERE original_id = $1
		ORDER BY editstamp DESC
		LIMIT 1
		`,
		post.RootID(),
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return post, nil
		}
		return nil, oops.New(err, "failed to resolve current revision")
	}
	return current, nil
}

// Admin moderation switches for a thread. Nil pointers leave the
// corresponding flag unchanged.
func SetThreadFlags(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, threadID int, pinned, locked, archived *bool) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	tag, err := dbConn.Exec(ctx,
		`
		---- Set thread flags
		UPDATE threads SET
			pinned = COALESCE($2, pinned),
			locked = COALESCE($3, locked),
			archived = COALESCE($4, archived)
		WHERE id = $1
		`,
		threadID, pinned, locked, archived,
	)
	if err != nil {
		return oops.New(err, "failed to set thread flags")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

// The latest non-deleted post of a thread by creation timestamp, or nil
// when every post was deleted.
func ThreadLastPost(ctx context.Context, dbConn db.ConnOrTx, threadID int) (*models.Post, error) {
	post, err := db.QueryOne[models.Post](ctx, dbConn,
		`
		---- Fetch thread last post
		SELECT $columns
		FROM posts
		WHERE thread_id = $1 AND NOT deleted
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
		`,
		threadID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, nil
		}
		return nil, oops.New(err, "failed to fetch thread last post")
	}
	return post, nil
}

// The first non-deleted post of a thread by creation timestamp. Editing
// this post is how thread-level edits happen.
func ThreadRootPost(ctx context.Context, dbConn db.ConnOrTx, threadID int) (*models.Post, error) {
	post, err := db.QueryOne[models.Post](ctx, dbConn,
		`
		---- Fetch thread root post
		SELECT $columns
		FROM posts
		WHERE thread_id = $1 AND NOT deleted
		ORDER BY timestamp, id
		LIMIT 1
		`,
		threadID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, nil
		}
		return nil, oops.New(err, "failed to fetch thread root post")
	}
	return post, nil
}

// The prefilled reply text when quoting an existing post.
func QuotePrefill(post *models.Post, author *models.User) string {
	login := ""
	if author != nil {
		login = author.Login
	}
	return fmt.Sprintf("[quote=%s@%d]%s[/quote]\n", login, post.ID, post.Text)
}
