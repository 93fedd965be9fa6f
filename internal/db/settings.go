package db

import "errors"

var ErrNotFound = errors.New("not found")

type Settings struct {
	ID       int64  `db:"id"`
	Enabled  bool   `db:"enabled"`
	Language string `db:"language"`
}

func DefaultSettings(chatID int64) *Settings {
	return &Settings{
		ID:       chatID,
		Enabled:  true,
		Language: "en",
	}
}
