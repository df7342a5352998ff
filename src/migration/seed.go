package migration

import (
	"context"
	"fmt"

	"git.retroherna.org/rh/rhforum/src/auth"
	"git.retroherna.org/rh/rhforum/src/db"
	"git.retroherna.org/rh/rhforum/src/forumdata"
)

// Runs all migrations and creates enough sample content to click around:
// the standard groups, two accounts (admin and uzivatel, both with password
// "test"), a couple of forums and a first thread. The trash forum is
// created the same lazy way the live site creates it.
func Seed() {
	Migrate(LatestVersion())

	ctx := context.Background()
	conn := db.NewConn()
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		panic(err)
	}
	defer tx.Rollback(ctx)

	fmt.Println("Creating groups...")
	var groupIDs = make(map[string]int)
	for _, g := range []struct {
		name, symbol, title string
		rank                int
		display             bool
	}{
		{"admin", "⚙", "Admin", 100, true},
		{"retroherna", "", "RetroHerna", 50, false},
		{"user", "", "", 0, false},
	} {
		id, err := db.QueryOneScalar[int](ctx, tx,
			`
			INSERT INTO groups (name, symbol, title, rank, display)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
			`,
			g.name, g.symbol, g.title, g.rank, g.display,
		)
		if err != nil {
			panic(err)
		}
		groupIDs[g.name] = id
	}

	fmt.Println("Creating users...")
	hash, err := auth.HashPassword("test")
	if err != nil {
		panic(err)
	}
	adminID, err := db.QueryOneScalar[int](ctx, tx,
		`
		INSERT INTO users (login, password, fullname, email)
		VALUES ('admin', $1, 'Admin', 'admin@example.com')
		RETURNING id
		`,
		hash,
	)
	if err != nil {
		panic(err)
	}
	userID, err := db.QueryOneScalar[int](ctx, tx,
		`
		INSERT INTO users (login, password, fullname, email)
		VALUES ('uzivatel', $1, 'Uživatel', 'uzivatel@example.com')
		RETURNING id
		`,
		hash,
	)
	if err != nil {
		panic(err)
	}
	memberships := []struct{ userID, groupID int }{
		{adminID, groupIDs["admin"]},
		{adminID, groupIDs["retroherna"]},
		{adminID, groupIDs["user"]},
		{userID, groupIDs["retroherna"]},
		{userID, groupIDs["user"]},
	}
	for _, m := range memberships {
		_, err = tx.Exec(ctx,
			`INSERT INTO usergroup (user_id, group_id) VALUES ($1, $2)`,
			m.userID, m.groupID,
		)
		if err != nil {
			panic(err)
		}
	}

	fmt.Println("Creating categories and forums...")
	categoryID, err := db.QueryOneScalar[int](ctx, tx,
		`INSERT INTO categories (name, position) VALUES ('Kategorie 1', 0) RETURNING id`,
	)
	if err != nil {
		panic(err)
	}
	forums := []struct {
		name, identifier, description string
		position                      int
		categoryID                    *int
	}{
		{"Novinky", "novinky", "Novinky ve světě RH", 0, &categoryID},
		{"Obecné", "obecne", "Posty o čemkoli", 1, &categoryID},
		{"Ostatní", "ostatni", "Popisek", 0, nil},
	}
	var firstForumID int
	for i, f := range forums {
		id, err := db.QueryOneScalar[int](ctx, tx,
			`
			INSERT INTO fora (name, identifier, description, position, category_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
			`,
			f.name, f.identifier, f.description, f.position, f.categoryID,
		)
		if err != nil {
			panic(err)
		}
		if i == 0 {
			firstForumID = id
		}
	}

	fmt.Println("Creating the first thread...")
	threadID, err := db.QueryOneScalar[int](ctx, tx,
		`
		INSERT INTO threads (forum_id, author_id, name, timestamp, laststamp)
		VALUES ($1, $2, 'První téma na fóru', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id
		`,
		firstForumID, adminID,
	)
	if err != nil {
		panic(err)
	}
	_, err = tx.Exec(ctx,
		`
		INSERT INTO posts (thread_id, author_id, timestamp, text)
		VALUES ($1, $2, CURRENT_TIMESTAMP, 'First post!')
		`,
		threadID, adminID,
	)
	if err != nil {
		panic(err)
	}

	_, err = forumdata.EnsureTrashForum(ctx, tx)
	if err != nil {
		panic(err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Println("Done.")
}
