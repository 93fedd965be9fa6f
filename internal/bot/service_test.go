package bot_test

import (
	"context"
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/kindwatch/wardenbot/internal/bot"
	"github.com/kindwatch/wardenbot/internal/db"
	"github.com/kindwatch/wardenbot/internal/db/sqlite"
)

func TestServiceGetSettingsCreatesDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbClient, err := sqlite.NewSQLiteClient(ctx, t.TempDir(), "test.db")
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = dbClient.Close() })

	service := bot.NewService(&api.BotAPI{}, dbClient, log.NewEntry(log.New()))
	settings, err := service.GetSettings(ctx, -1001234567890)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings == nil {
		t.Fatalf("settings is nil")
	}

	expected := db.DefaultSettings(-1001234567890)
	if settings.ID != expected.ID {
		t.Fatalf("unexpected settings ID: got %d want %d", settings.ID, expected.ID)
	}
	if !settings.Enabled {
		t.Fatalf("moderation must be enabled by default")
	}
	if settings.Language != expected.Language {
		t.Fatalf("unexpected language: got %q want %q", settings.Language, expected.Language)
	}

	// second read comes from storage, not the default path
	again, err := service.GetSettings(ctx, -1001234567890)
	if err != nil {
		t.Fatalf("get settings again: %v", err)
	}
	if again.ID != settings.ID || again.Language != settings.Language {
		t.Fatalf("settings not persisted: %#v", again)
	}
}

func TestServiceGetLanguageFallsBackToUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbClient, err := sqlite.NewSQLiteClient(ctx, t.TempDir(), "test.db")
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = dbClient.Close() })

	service := bot.NewService(&api.BotAPI{}, dbClient, log.NewEntry(log.New()))
	if err := service.SetSettings(ctx, &db.Settings{ID: -1, Enabled: true, Language: "ru"}); err != nil {
		t.Fatalf("set settings: %v", err)
	}

	lang := service.GetLanguage(ctx, -1, &api.User{LanguageCode: "de"})
	if lang != "ru" {
		t.Fatalf("chat language must win: got %q", lang)
	}
}
