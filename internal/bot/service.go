package bot

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kindwatch/wardenbot/internal/config"
	"github.com/kindwatch/wardenbot/internal/db"
)

// ServiceBot defines bot-specific operations
type ServiceBot interface {
	GetBot() *api.BotAPI
}

// ServiceDB defines database-specific operations
type ServiceDB interface {
	GetDB() db.Client
}

// Service defines the core bot service interface
type Service interface {
	ServiceBot
	ServiceDB
	GetSettings(ctx context.Context, chatID int64) (*db.Settings, error)
	SetSettings(ctx context.Context, settings *db.Settings) error
	GetLanguage(ctx context.Context, chatID int64, user *api.User) string
}

type service struct {
	bot    *api.BotAPI
	db     db.Client
	logger *log.Entry
}

func NewService(bot *api.BotAPI, dbClient db.Client, logger *log.Entry) *service {
	return &service{
		bot:    bot,
		db:     dbClient,
		logger: logger,
	}
}

func (s *service) GetBot() *api.BotAPI {
	return s.bot
}

func (s *service) GetDB() db.Client {
	return s.db
}

// GetSettings returns the chat settings, creating defaults on first contact.
func (s *service) GetSettings(ctx context.Context, chatID int64) (*db.Settings, error) {
	settings, err := s.db.GetSettings(ctx, chatID)
	if errors.Is(err, db.ErrNotFound) {
		settings = db.DefaultSettings(chatID)
		if lang := config.Get().DefaultLanguage; lang != "" {
			settings.Language = lang
		}
		if err := s.db.SetSettings(ctx, settings); err != nil {
			return nil, errors.WithMessage(err, "cant store default settings")
		}
		return settings, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *service) SetSettings(ctx context.Context, settings *db.Settings) error {
	return s.db.SetSettings(ctx, settings)
}

func (s *service) GetLanguage(ctx context.Context, chatID int64, user *api.User) string {
	settings, err := s.GetSettings(ctx, chatID)
	if err == nil && settings != nil && settings.Language != "" {
		return settings.Language
	}
	if user != nil && user.LanguageCode != "" {
		return user.LanguageCode
	}
	return config.Get().DefaultLanguage
}
