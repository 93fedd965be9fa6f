package db

import "context"

// Client is the persistence surface for per-chat moderation settings.
// Warning counts are deliberately not here: the tracker is in-memory only.
type Client interface {
	Close() error
	GetSettings(ctx context.Context, chatID int64) (*Settings, error)
	SetSettings(ctx context.Context, settings *Settings) error
}
