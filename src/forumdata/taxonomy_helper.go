package forumdata

import (
	"context"
	"errors"

	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/oops"
	"git.retroherna.org/rh/rhforum/src/perf"
	"git.retroherna.org/rh/rhforum/src/utils"
)

// The trash forum is created lazily the first time something needs it.
const trashForumIdentifier = "kos"
const trashForumName = "Koš"
const trashForumDescription = "Smazané posty."
const trashForumPosition = 255

type forumRow struct {
	Forum    models.Forum     `db:"forum"`
	Category *models.Category `db:"category"`
	Group    *models.Group    `db:"category_group"`
}

func (row *forumRow) assemble() *models.Forum {
	forum := row.Forum
	if row.Category != nil {
		category := *row.Category
		category.Group = row.Group
		forum.Category = &category
	}
	return &forum
}

const forumSelect = `
	SELECT $columns
	FROM
		fora AS forum
		LEFT JOIN categories AS category ON category.id = forum.category_id
		LEFT JOIN groups AS category_group ON category_group.id = category.group_id
`

// Fetches all categories in display order, with their required groups
// attached.
func FetchCategories(ctx context.Context, dbConn db.ConnOrTx) ([]*models.Category, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch categories")
	defer p.EndBlock()

	type categoryRow struct {
		Category models.Category `db:"category"`
		Group    *models.Group   `db:"category_group"`
	}

	rows, err := db.Query[categoryRow](ctx, dbConn,
		`
		---- Fetch categories
		SELECT $columns
		FROM
			categories AS category
			LEFT JOIN groups AS category_group ON category_group.id = category.group_id
		ORDER BY category.position
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch categories")
	}

	categories := make([]*models.Category, len(rows))
	for i, row := range rows {
		category := row.Category
		category.Group = row.Group
		categories[i] = &category
	}
	return categories, nil
}

func FetchCategory(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, categoryID int) (*models.Category, error) {
	categories, err := FetchCategories(ctx, dbConn)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		if category.ID == categoryID {
			switch CategoryAccess(viewer, category) {
			case AccessAllowed:
				return category, nil
			case AccessForbidden:
				return nil, ErrForbidden
			}
		}
	}
	return nil, db.NotFound
}

// Fetches every forum the viewer may see, in display order (category
// position, then forum position). The trash forum is included for admins
// only.
func FetchForums(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer) ([]*models.Forum, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch forums")
	defer p.EndBlock()

	rows, err := db.Query[forumRow](ctx, dbConn,
		`
		---- Fetch forums
		`+forumSelect+`
		ORDER BY category.position NULLS LAST, forum.position
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch forums")
	}

	var forums []*models.Forum
	for _, row := range rows {
		forum := row.assemble()
		if ForumAccess(viewer, forum) == AccessAllowed {
			forums = append(forums, forum)
		}
	}
	return forums, nil
}

// Fetches one forum with its category attached, applying the visibility
// rules. Returns db.NotFound for missing forums and ErrForbidden for forums
// the viewer must not see.
func FetchForum(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, forumID int) (*models.Forum, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch forum")
	defer p.EndBlock()

	row, err := db.QueryOne[forumRow](ctx, dbConn,
		`
		---- Fetch forum
		`+forumSelect+`
		WHERE forum.id = $1
		`,
		forumID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch forum")
	}

	forum := row.assemble()
	switch ForumAccess(viewer, forum) {
	case AccessAllowed:
		return forum, nil
	case AccessForbidden:
		return nil, ErrForbidden
	default:
		return nil, db.NotFound
	}
}

// Returns the trash forum, creating it if it does not exist yet. There is
// exactly one; deleted content is re-parented into it rather than being
// removed.
func EnsureTrashForum(ctx context.Context, dbConn db.ConnOrTx) (*models.Forum, error) {
	forum, err := db.QueryOne[models.Forum](ctx, dbConn,
		`
		---- Fetch trash forum
		SELECT $columns FROM fora WHERE trash
		`,
	)
	if err == nil {
		return forum, nil
	} else if !errors.Is(err, db.NotFound) {
		return nil, oops.New(err, "failed to fetch trash forum")
	}

	forum, err = db.QueryOne[models.Forum](ctx, dbConn,
		`
		---- Create trash forum
		INSERT INTO fora (name, identifier, description, trash, position)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING $columns
		`,
		trashForumName, trashForumIdentifier, trashForumDescription, trashForumPosition,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create trash forum")
	}
	return forum, nil
}

// Appends a forum at the end of its category's sublist (or of the
// uncategorized list).
func CreateForum(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, name, description string, categoryID *int) (*models.Forum, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	if name == "" {
		return nil, NewValidationError("forum name must not be empty")
	}

	forum, err := db.QueryOne[models.Forum](ctx, dbConn,
		`
		---- Create forum
		INSERT INTO fora (name, identifier, description, category_id, trash, position)
		VALUES (
			$1, $2, $3, $4, FALSE,
			(
				SELECT COALESCE(MAX(position) + 1, 0)
				FROM fora
				WHERE category_id IS NOT DISTINCT FROM $4 AND NOT trash
			)
		)
		RETURNING $columns
		`,
		name, models.UrlFriendly(name), description, categoryID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create forum")
	}
	return forum, nil
}

func UpdateForum(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, forumID int, name, description string, categoryID *int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}
	if name == "" {
		return NewValidationError("forum name must not be empty")
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	forum, err := db.QueryOne[models.Forum](ctx, tx,
		`SELECT $columns FROM fora WHERE id = $1 FOR UPDATE`,
		forumID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return db.NotFound
		}
		return oops.New(err, "failed to fetch forum")
	}

	position := forum.Position
	if !intPtrEqual(forum.CategoryID, categoryID) {
		// Moving between categories appends at the end of the new sublist
		// and leaves a gap behind; renumber the old sublist.
		position, err = db.QueryOneScalar[int](ctx, tx,
			`
			SELECT COALESCE(MAX(position) + 1, 0)
			FROM fora
			WHERE category_id IS NOT DISTINCT FROM $1 AND NOT trash
			`,
			categoryID,
		)
		if err != nil {
			return oops.New(err, "failed to compute new forum position")
		}
	}

	_, err = tx.Exec(ctx,
		`
		---- Update forum
		UPDATE fora
		SET name = $2, identifier = $3, description = $4, category_id = $5, position = $6
		WHERE id = $1
		`,
		forumID, name, models.UrlFriendly(name), description, categoryID, position,
	)
	if err != nil {
		return oops.New(err, "failed to update forum")
	}

	if !intPtrEqual(forum.CategoryID, categoryID) {
		err = renumberForums(ctx, tx, forum.CategoryID)
		if err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit forum update")
	}
	return nil
}

// Moves a forum one step up (delta -1) or down (delta +1) within its
// category's list, then renumbers the list densely. The sibling rows are
// locked for the duration so concurrent reorders cannot produce duplicate
// or gapped positions.
func MoveForum(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, forumID int, delta int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	forum, err := db.QueryOne[models.Forum](ctx, tx,
		`SELECT $columns FROM fora WHERE id = $1 FOR UPDATE`,
		forumID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return db.NotFound
		}
		return oops.New(err, "failed to fetch forum")
	}

	siblingIDs, err := db.QueryScalar[int](ctx, tx,
		`
		---- Lock forum sublist
		SELECT id FROM fora
		WHERE category_id IS NOT DISTINCT FROM $1 AND NOT trash
		ORDER BY position
		FOR UPDATE
		`,
		forum.CategoryID,
	)
	if err != nil {
		return oops.New(err, "failed to fetch sibling forums")
	}

	reordered := MoveWithin(siblingIDs, forumID, delta)
	err = persistPositions(ctx, tx, "fora", reordered)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit forum reorder")
	}
	return nil
}

// Deletes a forum. When the forum still has threads, a replacement forum
// must be designated; every thread is re-parented to it first (laststamps
// untouched). Refuses with ErrForumNotEmpty otherwise.
func DeleteForum(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, forumID int, replacementForumID *int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	forum, err := db.QueryOne[models.Forum](ctx, tx,
		`SELECT $columns FROM fora WHERE id = $1 FOR UPDATE`,
		forumID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return db.NotFound
		}
		return oops.New(err, "failed to fetch forum")
	}

	numThreads, err := db.QueryOneScalar[int](ctx, tx,
		`SELECT COUNT(*) FROM threads WHERE forum_id = $1`,
		forumID,
	)
	if err != nil {
		return oops.New(err, "failed to count threads")
	}

	if numThreads > 0 {
		if replacementForumID == nil {
			return ErrForumNotEmpty
		}
		if *replacementForumID == forumID {
			return NewValidationError("cannot move threads into the forum being deleted")
		}
		_, err = tx.Exec(ctx,
			`UPDATE threads SET forum_id = $2 WHERE forum_id = $1`,
			forumID, *replacementForumID,
		)
		if err != nil {
			return oops.New(err, "failed to re-parent threads")
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM fora WHERE id = $1`, forumID)
	if err != nil {
		return oops.New(err, "failed to delete forum")
	}

	err = renumberForums(ctx, tx, forum.CategoryID)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit forum deletion")
	}
	return nil
}

// Appends a category at the end of the category list.
func CreateCategory(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, name string, groupID *int) (*models.Category, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	if name == "" {
		return nil, NewValidationError("category name must not be empty")
	}

	category, err := db.QueryOne[models.Category](ctx, dbConn,
		`
		---- Create category
		INSERT INTO categories (name, group_id, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM categories))
		RETURNING $columns
		`,
		name, groupID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create category")
	}
	return category, nil
}

func UpdateCategory(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, categoryID int, name string, groupID *int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}
	if name == "" {
		return NewValidationError("category name must not be empty")
	}

	tag, err := dbConn.Exec(ctx,
		`UPDATE categories SET name = $2, group_id = $3 WHERE id = $1`,
		categoryID, name, groupID,
	)
	if err != nil {
		return oops.New(err, "failed to update category")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

func MoveCategory(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, categoryID int, delta int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	categoryIDs, err := db.QueryScalar[int](ctx, tx,
		`
		---- Lock category list
		SELECT id FROM categories ORDER BY position FOR UPDATE
		`,
	)
	if err != nil {
		return oops.New(err, "failed to fetch categories")
	}
	if !containsInt(categoryIDs, categoryID) {
		return db.NotFound
	}

	reordered := MoveWithin(categoryIDs, categoryID, delta)
	err = persistPositions(ctx, tx, "categories", reordered)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit category reorder")
	}
	return nil
}

// Deletes a category. Its forums become uncategorized, appended after the
// existing uncategorized forums in their current order.
func DeleteCategory(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, categoryID int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`
		---- Uncategorize forums
		UPDATE fora
		SET category_id = NULL,
			position = position + (
				SELECT COALESCE(MAX(position) + 1, 0)
				FROM fora
				WHERE category_id IS NULL AND NOT trash
			)
		WHERE category_id = $1
		`,
		categoryID,
	)
	if err != nil {
		return oops.New(err, "failed to uncategorize forums")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return oops.New(err, "failed to delete category")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}

	err = renumberForums(ctx, tx, nil)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit category deletion")
	}
	return nil
}

// Removes id from the ordered list and reinserts it delta positions away,
// clamped to the list bounds. The result is the new dense order; the index
// of each element is its new position.
func MoveWithin(ids []int, id int, delta int) []int {
	index := -1
	for i, other := range ids {
		if other == id {
			index = i
			break
		}
	}
	if index < 0 {
		return ids
	}

	without := make([]int, 0, len(ids)-1)
	without = append(without, ids[:index]...)
	without = append(without, ids[index+1:]...)

	newIndex := utils.IntClamp(0, index+delta, len(without))

	result := make([]int, 0, len(ids))
	result = append(result, without[:newIndex]...)
	result = append(result, id)
	result = append(result, without[newIndex:]...)
	return result
}

// Writes positions 0..n-1 for the given ids, in order.
func persistPositions(ctx context.Context, dbConn db.ConnOrTx, table string, orderedIDs []int) error {
	for position, id := range orderedIDs {
		_, err := dbConn.Exec(ctx,
			`UPDATE `+table+` SET position = $2 WHERE id = $1`,
			id, position,
		)
		if err != nil {
			return oops.New(err, "failed to persist positions")
		}
	}
	return nil
}

// Renumbers one forum sublist (a category's, or the uncategorized list)
// densely in its current order.
func renumberForums(ctx context.Context, dbConn db.ConnOrTx, categoryID *int) error {
	ids, err := db.QueryScalar[int](ctx, dbConn,
		`
		SELECT id FROM fora
		WHERE category_id IS NOT DISTINCT FROM $1 AND NOT trash
		ORDER BY position
		`,
		categoryID,
	)
	if err != nil {
		return oops.New(err, "failed to fetch forums for renumbering")
	}
	return persistPositions(ctx, dbConn, "fora", ids)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func containsInt(haystack []int, needle int) bool {
	for _, x := range haystack {
		if x == needle {
			return true
		}
	}
	return false
}
