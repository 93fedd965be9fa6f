package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"

	"github.com/iamwavecut/tool"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/kindwatch/wardenbot/internal/db"
	"github.com/kindwatch/wardenbot/resources"
)

type Client struct {
	db *sqlx.DB
}

func NewSQLiteClient(ctx context.Context, dir, name string) (*Client, error) {
	dbx, err := sqlx.Open("sqlite", filepath.Join(dir, name))
	if err != nil {
		return nil, errors.WithMessage(err, "cant open db")
	}
	dbx.SetMaxOpenConns(1)

	migrationsSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}
	n, err := migrate.ExecContext(ctx, dbx.DB, "sqlite3", migrationsSource, migrate.Up)
	if err != nil {
		return nil, errors.WithMessage(err, "migrate up failed")
	}
	if n > 0 {
		log.Infof("applied %d migrations", n)
	}

	return &Client{db: dbx}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) GetSettings(ctx context.Context, chatID int64) (*db.Settings, error) {
	res := &db.Settings{}
	err := c.db.GetContext(ctx, res, "SELECT id, enabled, language FROM chats WHERE id=?", chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) SetSettings(ctx context.Context, settings *db.Settings) error {
	query := `
		INSERT INTO chats (id, enabled, language)
		VALUES (:id, :enabled, :language)
		ON CONFLICT(id) DO UPDATE SET
		enabled=excluded.enabled,
		language=excluded.language;
	`
	return tool.Err(c.db.NamedExecContext(ctx, query, settings))
}
