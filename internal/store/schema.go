package store

import (
	"database/sql"
	"fmt"
)

//nolint:gochecknoglobals
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0,
		user_login TEXT    UNIQUE NOT NULL,
		first_name TEXT    NOT NULL,
		last_name  TEXT    NOT NULL,
		userpic    TEXT    NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS albums (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at        INTEGER NOT NULL,
		updated_at        INTEGER NOT NULL DEFAULT 0,
		user_id           INTEGER NOT NULL REFERENCES users (id),
		is_locked         INTEGER NOT NULL DEFAULT 0,
		album_name        TEXT    NOT NULL,
		album_description TEXT    NOT NULL DEFAULT '',
		mediafiles_count  INTEGER NOT NULL DEFAULT 0,
		mediafiles_size   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_albums_user_id ON albums (user_id)`,

	`CREATE TABLE IF NOT EXISTS mediafiles (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at            INTEGER NOT NULL,
		updated_at            INTEGER NOT NULL DEFAULT 0,
		user_id               INTEGER NOT NULL REFERENCES users (id),
		album_id              INTEGER NOT NULL REFERENCES albums (id),
		mimetype              TEXT    NOT NULL,
		filesize              INTEGER NOT NULL,
		width                 INTEGER NOT NULL,
		height                INTEGER NOT NULL,
		format                TEXT    NOT NULL,
		mode                  TEXT    NOT NULL,
		original_filename     TEXT    NOT NULL,
		mediafile_filename    TEXT    UNIQUE NOT NULL,
		thumbnail_filename    TEXT    UNIQUE NOT NULL,
		mediafile_description TEXT    NOT NULL DEFAULT '',
		comments_count        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mediafiles_user_id ON mediafiles (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_mediafiles_album_id ON mediafiles (album_id)`,

	`CREATE TABLE IF NOT EXISTS mediafiles_metadata (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL DEFAULT 0,
		mediafile_id INTEGER NOT NULL REFERENCES mediafiles (id),
		meta_key     TEXT    NOT NULL,
		meta_value   TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_metadata_mediafile_id ON mediafiles_metadata (mediafile_id)`,

	`CREATE TABLE IF NOT EXISTS mediafiles_colorsets (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL DEFAULT 0,
		mediafile_id INTEGER NOT NULL REFERENCES mediafiles (id),
		maroon  REAL NOT NULL DEFAULT 0,
		red     REAL NOT NULL DEFAULT 0,
		orange  REAL NOT NULL DEFAULT 0,
		yellow  REAL NOT NULL DEFAULT 0,
		olive   REAL NOT NULL DEFAULT 0,
		green   REAL NOT NULL DEFAULT 0,
		lime    REAL NOT NULL DEFAULT 0,
		teal    REAL NOT NULL DEFAULT 0,
		aqua    REAL NOT NULL DEFAULT 0,
		blue    REAL NOT NULL DEFAULT 0,
		navy    REAL NOT NULL DEFAULT 0,
		fuchsia REAL NOT NULL DEFAULT 0,
		purple  REAL NOT NULL DEFAULT 0,
		black   REAL NOT NULL DEFAULT 0,
		gray    REAL NOT NULL DEFAULT 0,
		silver  REAL NOT NULL DEFAULT 0,
		white   REAL NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_colorsets_mediafile_id ON mediafiles_colorsets (mediafile_id)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0,
		tag_value  TEXT    UNIQUE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS mediafiles_tags (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL DEFAULT 0,
		mediafile_id INTEGER NOT NULL REFERENCES mediafiles (id),
		tag_id       INTEGER NOT NULL REFERENCES tags (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mediafiles_tags_mediafile_id ON mediafiles_tags (mediafile_id)`,
	`CREATE INDEX IF NOT EXISTS idx_mediafiles_tags_tag_id ON mediafiles_tags (tag_id)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL DEFAULT 0,
		user_id         INTEGER NOT NULL REFERENCES users (id),
		mediafile_id    INTEGER NOT NULL REFERENCES mediafiles (id),
		comment_content TEXT    NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_mediafile_id ON comments (mediafile_id)`,

	`CREATE TABLE IF NOT EXISTS favorites (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL DEFAULT 0,
		user_id      INTEGER NOT NULL REFERENCES users (id),
		mediafile_id INTEGER NOT NULL REFERENCES mediafiles (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_mediafile_id ON favorites (mediafile_id)`,
}

func initializeDB(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}
