package forumdata

import (
	"context"
	"errors"
	"strings"
	"time"

	"git.retroherna.org/rh/rhforum/src/auth"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/models"
	"git.retroherna.org/rh/rhforum/src/notify"
	"git.retroherna.org/rh/rhforum/src/oops"
	"git.retroherna.org/rh/rhforum/src/perf"
)

type UsersQuery struct {
	UserIDs []int    // if empty, all users
	Logins  []string // if empty, all logins
}

/*
Fetches users with their group memberships attached, ordered by full name.
Group membership is always loaded because nearly every capability check
needs it (admin status is group membership, nothing else).
*/
func FetchUsers(ctx context.Context, dbConn db.ConnOrTx, q UsersQuery) ([]*models.User, error) {
	p := perf.ExtractPerf(ctx)
	p.StartBlock("SQL", "Fetch users")
	defer p.EndBlock()

	var qb db.QueryBuilder
	qb.Add(
		`
		---- Fetch users
		SELECT $columns
		FROM users
		WHERE TRUE
		`,
	)
	if len(q.UserIDs) > 0 {
		qb.Add(`AND id = ANY ($?)`, q.UserIDs)
	}
	if len(q.Logins) > 0 {
		qb.Add(`AND login = ANY ($?)`, q.Logins)
	}
	qb.Add(`ORDER BY fullname, login`)

	users, err := db.Query[models.User](ctx, dbConn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch users")
	}
	if len(users) == 0 {
		return nil, nil
	}

	userIDs := make([]int, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	type membershipRow struct {
		UserID int          `db:"user_id"`
		Group  models.Group `db:"g"`
	}
	memberships, err := db.Query[membershipRow](ctx, dbConn,
		`
		---- Fetch group memberships
		SELECT $columns
		FROM
			usergroup
			JOIN groups AS g ON g.id = usergroup.group_id
		WHERE usergroup.user_id = ANY ($1)
		`,
		userIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch group memberships")
	}

	byID := make(map[int]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, m := range memberships {
		user := byID[m.UserID]
		group := m.Group
		user.Groups = append(user.Groups, &group)
	}

	return users, nil
}

func FetchUser(ctx context.Context, dbConn db.ConnOrTx, userID int) (*models.User, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{UserIDs: []int{userID}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, db.NotFound
	}
	return users[0], nil
}

// Logins are stored lowercase; lookup is case-insensitive by lowering the
// argument.
func FetchUserByLogin(ctx context.Context, dbConn db.ConnOrTx, login string) (*models.User, error) {
	users, err := FetchUsers(ctx, dbConn, UsersQuery{Logins: []string{strings.ToLower(login)}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, db.NotFound
	}
	return users[0], nil
}

/*
Registers a new user: lowercases the login, rejects taken logins, hashes
the password, and puts the user into the default "user" group when that
group exists. The new account starts with every existing thread marked
read (a fresh user has nothing historical to catch up on), and a
registration notification is queued.
*/
func RegisterUser(
	ctx context.Context,
	dbConn db.ConnOrTx,
	nq *notify.Queue,
	login string,
	fullname string,
	email string,
	password string,
) (*models.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return nil, NewValidationError("login must not be empty")
	}
	if fullname == "" {
		return nil, NewValidationError("name must not be empty")
	}
	if email == "" {
		return nil, NewValidationError("email must not be empty")
	}
	if password == "" {
		return nil, NewValidationError("password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	taken, err := db.QueryOneScalar[bool](ctx, tx,
		`SELECT COUNT(*) > 0 FROM users WHERE login = $1`,
		login,
	)
	if err != nil {
		return nil, oops.New(err, "failed to check login availability")
	}
	if taken {
		return nil, NewValidationError("login %q is already taken", login)
	}

	now := time.Now()
	user, err := db.QueryOne[models.User](ctx, tx,
		`
		---- Create user
		INSERT INTO users (login, password, fullname, email, homepage, avatar_url, profile, registered, last_seen)
		VALUES ($1, $2, $3, $4, '', '', '', $5, $5)
		RETURNING $columns
		`,
		login, hash, fullname, email, now,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create user")
	}

	defaultGroup, err := db.QueryOne[models.Group](ctx, tx,
		`SELECT $columns FROM groups WHERE name = $1`,
		models.DefaultGroupName,
	)
	if err == nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO usergroup (user_id, group_id) VALUES ($1, $2)`,
			user.ID, defaultGroup.ID,
		)
		if err != nil {
			return nil, oops.New(err, "failed to add user to default group")
		}
		user.Groups = append(user.Groups, defaultGroup)
	} else if !errors.Is(err, db.NotFound) {
		return nil, oops.New(err, "failed to fetch default group")
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, oops.New(err, "failed to commit registration")
	}

	err = MarkAllRead(ctx, dbConn, models.AuthenticatedViewer(user))
	if err != nil {
		return nil, err
	}

	e := notify.NewEvent(notify.EventRegistration)
	e.UserName = user.Name()
	nq.Push(e)

	return user, nil
}

// Profile fields a user may change about themselves (or an admin about
// anyone).
type UserProfile struct {
	Fullname  string
	Email     string
	Homepage  string
	AvatarUrl string
	Profile   string
}

func UpdateUserProfile(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, userID int, profile UserProfile) error {
	current, ok := viewer.User()
	if !ok {
		return ErrForbidden
	}
	if current.ID != userID && !current.IsAdmin() {
		return ErrForbidden
	}
	if profile.Fullname == "" {
		return NewValidationError("name must not be empty")
	}

	tag, err := dbConn.Exec(ctx,
		`
		---- Update user profile
		UPDATE users
		SET fullname = $2, email = $3, homepage = $4, avatar_url = $5, profile = $6
		WHERE id = $1
		`,
		userID, profile.Fullname, profile.Email, profile.Homepage, profile.AvatarUrl, profile.Profile,
	)
	if err != nil {
		return oops.New(err, "failed to update user")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

// Replaces a user's group memberships wholesale. Admin only; this is the
// only way admin status itself changes.
func SetUserGroups(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, userID int, groupIDs []int) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM usergroup WHERE user_id = $1`, userID)
	if err != nil {
		return oops.New(err, "failed to clear group memberships")
	}
	for _, groupID := range groupIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO usergroup (user_id, group_id) VALUES ($1, $2)`,
			userID, groupID,
		)
		if err != nil {
			return oops.New(err, "failed to add group membership")
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit group memberships")
	}
	return nil
}

func FetchGroups(ctx context.Context, dbConn db.ConnOrTx) ([]*models.Group, error) {
	groups, err := db.Query[models.Group](ctx, dbConn,
		`
		---- Fetch groups
		SELECT $columns FROM groups ORDER BY rank DESC, name
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch groups")
	}
	return groups, nil
}

func CreateGroup(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, name string) (*models.Group, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	group, err := db.QueryOne[models.Group](ctx, dbConn,
		`
		---- Create group
		INSERT INTO groups (name, symbol, title, rank, display)
		VALUES ($1, '', '', 0, FALSE)
		RETURNING $columns
		`,
		name,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create group")
	}
	return group, nil
}

func UpdateGroup(ctx context.Context, dbConn db.ConnOrTx, viewer models.Viewer, group *models.Group) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}
	if group.Name == "" {
		return NewValidationError("group name must not be empty")
	}

	tag, err := dbConn.Exec(ctx,
		`
		---- Update group
		UPDATE groups
		SET name = $2, symbol = $3, title = $4, rank = $5, display = $6
		WHERE id = $1
		`,
		group.ID, group.Name, group.Symbol, group.GroupTitle, group.Rank, group.Display,
	)
	if err != nil {
		return oops.New(err, "failed to update group")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

// Non-deleted posts only, so edit revisions do not inflate the count.
func CountUserPosts(ctx context.Context, dbConn db.ConnOrTx, userID int) (int, error) {
	count, err := db.QueryOneScalar[int](ctx, dbConn,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1 AND NOT deleted`,
		userID,
	)
	if err != nil {
		return 0, oops.New(err, "failed to count posts")
	}
	return count, nil
}

func TouchLastSeen(ctx context.Context, dbConn db.ConnOrTx, userID int) error {
	_, err := dbConn.Exec(ctx,
		`UPDATE users SET last_seen = CURRENT_TIMESTAMP WHERE id = $1`,
		userID,
	)
	if err != nil {
		return oops.New(err, "failed to update last seen time")
	}
	return nil
}
