package forumdata

import (
	"context"
	"errors"

	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/logging"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/oops"
	"git.retroherna.org/rh/rhforum/src/perf"
)

/*
Records that the viewer has seen a thread up to the given post. A no-op for
guests and for nil posts. The first read creates the checkpoint anchored at
the post's chain root, so that the checkpoint stays meaningful when that
post is later edited; subsequent reads update the existing row in place
with the given post id. The write commits before returning, because unread
queries later in the same request must see it.
*/
func Read(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, post *models.Post) error {
	user, ok := viewer.User()
	if !ok || post == nil {
		return nil
	}

	// Insert and update store different ids on purpose: creation anchors at
	// the chain root, updates keep whatever they were given.
	_, err := dbConn.Exec(ctx,
		`
		---- Record thread read
		INSERT INTO threads_read (user_id, thread_id, last_post_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, thread_id) DO UPDATE SET last_post_id = $4
		`,
		user.ID, post.ThreadID, post.RootID(), post.ID,
	)
	if err != nil {
		return oops.New(err, "failed to record thread read")
	}
	return nil
}

type UnreadKind int

const (
	// The viewer has seen everything (or is a guest and tracks nothing).
	NothingNew UnreadKind = iota
	// The viewer never opened the thread; show it as fully unread.
	AllUnread
	// The viewer read part of the thread; resume at ResumeAt.
	PartlyUnread
)

type UnreadStatus struct {
	Kind UnreadKind

	// The current revision of the last post the viewer saw. Set only for
	// PartlyUnread.
	ResumeAt *models.Post
}

/*
Computes the viewer's unread state for a thread. The stored checkpoint is
resolved to its chain's current revision before comparing against the
thread's last post, which is what makes checkpoints survive edits.
*/
func Unread(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, threadID int) (UnreadStatus, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Compute unread")
	defer p.EndBlock()

	user, ok := viewer.User()
	if !ok {
		return UnreadStatus{Kind: NothingNew}, nil
	}

	checkpointPost, err := db.QueryOne[models.Post](ctx, dbConn,
		`
		---- Fetch checkpoint post
		SELECT $columns
		FROM posts
		WHERE id = (
			SELECT last_post_id FROM threads_read
			WHERE user_id = $1 AND thread_id = $2
		)
		`,
		user.ID, threadID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return UnreadStatus{Kind: AllUnread}, nil
		}
		return UnreadStatus{}, oops.New(err, "failed to fetch read checkpoint")
	}

	current, err := ResolveCurrent(ctx, dbConn, checkpointPost)
	if err != nil {
		return UnreadStatus{}, err
	}

	lastPost, err := ThreadLastPost(ctx, dbConn, threadID)
	if err != nil {
		return UnreadStatus{}, err
	}

	return compareCheckpoint(current, lastPost), nil
}

// The pure comparison at the heart of Unread.
func compareCheckpoint(current *models.Post, lastPost *models.Post) UnreadStatus {
	if lastPost == nil || current.ID == lastPost.ID {
		return UnreadStatus{Kind: NothingNew}
	}
	return UnreadStatus{Kind: PartlyUnread, ResumeAt: current}
}

/*
Counts the posts the viewer has not seen in a thread. A thread the viewer
never opened counts every non-deleted post; otherwise posts newer than the
checkpoint's current revision.
*/
func NumUnread(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, threadID int) (int, error) {
	status, err := Unread(ctx, dbConn, viewer, threadID)
	if err != nil {
		return 0, err
	}

	switch status.Kind {
	case NothingNew:
		return 0, nil
	case AllUnread:
		count, err := db.QueryOneScalar[int](ctx, dbConn,
			`SELECT COUNT(*) FROM posts WHERE thread_id = $1 AND NOT deleted`,
			threadID,
		)
		if err != nil {
			return 0, oops.New(err, "failed to count posts")
		}
		return count, nil
	default:
		count, err := db.QueryOneScalar[int](ctx, dbConn,
			`
			---- Count unread posts
			SELECT COUNT(*)
			FROM posts
			WHERE thread_id = $1 AND NOT deleted AND timestamp > $2
			`,
			threadID, status.ResumeAt.Timestamp,
		)
		if err != nil {
			return 0, oops.New(err, "failed to count unread posts")
		}
		return count, nil
	}
}

/*
Checkpoints every thread in the system at its last post. Each thread
commits independently; this is deliberately not one big transaction, so an
interrupted run leaves valid partial progress and can simply be rerun.
*/
func MarkAllRead(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer) error {
	user, ok := viewer.User()
	if !ok {
		return nil
	}

	threadIDs, err := db.QueryScalar[int](ctx, dbConn, `SELECT id FROM threads`)
	if err != nil {
		return oops.New(err, "failed to list threads")
	}

	logger := logging.ExtractLogger(ctx)
	for _, threadID := range threadIDs {
		lastPost, err := ThreadLastPost(ctx, dbConn, threadID)
		if err != nil {
			return err
		}
		err = Read(ctx, dbConn, viewer, lastPost)
		if err != nil {
			return err
		}
		logger.Debug().Int("thread", threadID).Int("user", user.ID).Msg("marked thread read")
	}
	return nil
}
