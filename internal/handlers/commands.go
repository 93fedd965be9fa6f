package handlers

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/kindwatch/wardenbot/internal/bot"
	"github.com/kindwatch/wardenbot/internal/i18n"
)

const (
	startText = "👋 Hello! I help keep this group respectful.\n\nI watch for offensive messages, warn their authors privately and alert the administrators when warnings pile up.\n\nCommands:\n/start - this message\n/help - help"
	helpText  = "🤖 I am a bot that helps prevent bullying:\n\n• I detect offensive content\n• I send private warnings\n• I notify administrators when needed\n\nThe goal is a safe and pleasant environment for everyone."
)

// Commands answers the static /start and /help commands and stops command
// messages from reaching the moderation pipeline.
type Commands struct {
	s      bot.Service
	logger *log.Entry
}

func NewCommands(s bot.Service) *Commands {
	return &Commands{
		s:      s,
		logger: log.WithField("handler", "commands"),
	}
}

func (c *Commands) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	msg := u.Message
	if msg == nil || chat == nil || !msg.IsCommand() {
		return true, nil
	}

	lang := c.s.GetLanguage(ctx, chat.ID, user)
	var text string
	switch msg.Command() {
	case "start":
		text = i18n.Get(startText, lang)
	case "help":
		text = i18n.Get(helpText, lang)
	default:
		return false, nil
	}

	reply := api.NewMessage(chat.ID, text)
	reply.ReplyParameters = api.ReplyParameters{
		ChatID:                   chat.ID,
		MessageID:                msg.MessageID,
		AllowSendingWithoutReply: true,
	}
	reply.DisableNotification = true
	if _, err := c.s.GetBot().Send(reply); err != nil {
		c.logger.WithField("error", err.Error()).Error("cant send command reply")
	}
	return false, nil
}
