package migrations

import (
	"context"
	"time"

	"git.retroherna.org/rh/rhforum/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(InitialTables{})
}

type InitialTables struct{}

func (m InitialTables) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 8, 20, 9, 45, 0, 0, time.UTC))
}

func (m InitialTables) Name() string {
	return "InitialTables"
}

func (m InitialTables) Description() string {
	return "Creates the forum tables"
}

func (m InitialTables) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE users (
			id SERIAL PRIMARY KEY,
			login VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			fullname VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			homepage VARCHAR(255) NOT NULL DEFAULT '',
			avatar_url VARCHAR(255) NOT NULL DEFAULT '',
			profile TEXT NOT NULL DEFAULT '',
			registered TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE groups (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			symbol VARCHAR(255) NOT NULL DEFAULT '',
			title VARCHAR(255) NOT NULL DEFAULT '',
			rank INT NOT NULL DEFAULT 0,
			display BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE TABLE usergroup (
			user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			group_id INT NOT NULL REFERENCES groups (id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, group_id)
		);

		CREATE TABLE categories (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			position INT NOT NULL DEFAULT 0,
			group_id INT REFERENCES groups (id) ON DELETE SET NULL
		);

		CREATE TABLE fora (
			id SERIAL PRIMARY KEY,
			identifier VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(255) NOT NULL DEFAULT '',
			position INT NOT NULL DEFAULT 0,
			trash BOOLEAN NOT NULL DEFAULT FALSE,
			category_id INT REFERENCES categories (id) ON DELETE SET NULL
		);

		CREATE TABLE threads (
			id SERIAL PRIMARY KEY,
			forum_id INT NOT NULL REFERENCES fora (id),
			author_id INT NOT NULL REFERENCES users (id),
			name VARCHAR(255) NOT NULL,
			wiki_article VARCHAR(255),
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			laststamp TIMESTAMP WITH TIME ZONE NOT NULL,
			pinned BOOLEAN NOT NULL DEFAULT FALSE,
			locked BOOLEAN NOT NULL DEFAULT FALSE,
			archived BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX threads_by_forum ON threads (forum_id, laststamp DESC);

		CREATE TABLE posts (
			id SERIAL PRIMARY KEY,
			thread_id INT NOT NULL REFERENCES threads (id),
			author_id INT NOT NULL REFERENCES users (id),
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
			text TEXT NOT NULL,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			editstamp TIMESTAMP WITH TIME ZONE,
			original_id INT REFERENCES posts (id),
			editor_id INT REFERENCES users (id)
		);
		CREATE INDEX posts_by_thread ON posts (thread_id, timestamp);
		CREATE INDEX posts_by_original ON posts (original_id);

		CREATE TABLE threads_read (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users (id),
			thread_id INT NOT NULL REFERENCES threads (id),
			last_post_id INT NOT NULL REFERENCES posts (id),
			UNIQUE (user_id, thread_id)
		);

		CREATE TABLE tasks (
			id SERIAL PRIMARY KEY,
			text TEXT NOT NULL,
			created_time TIMESTAMP WITH TIME ZONE NOT NULL,
			due_time TIMESTAMP WITH TIME ZONE,
			status VARCHAR(32),
			author_id INT REFERENCES users (id),
			user_id INT REFERENCES users (id),
			thread_id INT REFERENCES threads (id)
		);

		CREATE TABLE sessions (
			id VARCHAR(40) PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`)
	return err
}

func (m InitialTables) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE sessions;
		DROP TABLE tasks;
		DROP TABLE threads_read;
		DROP TABLE posts;
		DROP TABLE threads;
		DROP TABLE fora;
		DROP TABLE categories;
		DROP TABLE usergroup;
		DROP TABLE groups;
		DROP TABLE users;
	`)
	return err
}
