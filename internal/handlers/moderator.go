package handlers

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kindwatch/wardenbot/internal/bot"
	"github.com/kindwatch/wardenbot/internal/config"
	"github.com/kindwatch/wardenbot/internal/i18n"
	"github.com/kindwatch/wardenbot/internal/moderation"
)

const (
	warningTemplate = "⚠️ Hello,\n\nWe detected offensive content in your message:\n%s\n\nPlease keep in mind:\n• Words can hurt\n• Everyone has feelings\n• Opinions can be voiced respectfully\n\nPlease avoid offensive language."
	alertTemplate   = "⚠️ Admin alert:\n\nUser %d received %d warnings for offensive content.\n\nRecommendation: %s"
)

// Moderator feeds group text messages through the moderation pipeline and
// delivers its notification intents back through the bot API.
type Moderator struct {
	s        bot.Service
	pipeline *moderation.Pipeline
	logger   *log.Entry
}

func NewModerator(s bot.Service, cfg config.Moderation, classifier moderation.Classifier) *Moderator {
	logger := log.WithField("handler", "moderator")
	m := &Moderator{
		s:      s,
		logger: logger,
	}
	m.pipeline = moderation.NewPipeline(
		classifier,
		moderation.NewWarningTracker(cfg.WarningWindow),
		moderation.NewEscalationPolicy(cfg.WarningThreshold),
		m,
		cfg.ClassifyTimeout,
		cfg.NotifyTimeout,
		logger.WithField("object", "Pipeline"),
	)
	return m
}

func (m *Moderator) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	msg := u.Message
	if msg == nil || chat == nil || user == nil {
		return true, nil
	}
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		return true, nil
	}
	if msg.Text == "" || msg.IsCommand() {
		return true, nil
	}

	settings, err := m.s.GetSettings(ctx, chat.ID)
	if err != nil {
		m.logger.WithField("error", err.Error()).Error("cant load chat settings")
	}
	if settings != nil && !settings.Enabled {
		return true, nil
	}

	message := moderation.Message{
		Text:     msg.Text,
		SenderID: user.ID,
		ChatID:   chat.ID,
	}
	// the pipeline blocks on the classifier, keep the update loop moving
	go m.pipeline.HandleMessage(context.WithoutCancel(ctx), message)

	return true, nil
}

// SendWarning implements moderation.Notifier.
func (m *Moderator) SendWarning(ctx context.Context, warning moderation.PrivateWarning) error {
	lang := config.Get().DefaultLanguage
	text := fmt.Sprintf(i18n.Get(warningTemplate, lang), warning.Explanation)
	return bot.SendDirectMessage(ctx, m.s.GetBot(), warning.UserID, text)
}

// AlertAdmins implements moderation.Notifier. Every admin gets their own
// delivery attempt, one unreachable admin does not silence the rest.
func (m *Moderator) AlertAdmins(ctx context.Context, alert moderation.AdminAlert) error {
	admins, err := bot.GetChatAdmins(ctx, m.s.GetBot(), alert.ChatID)
	if err != nil {
		return err
	}

	lang := m.s.GetLanguage(ctx, alert.ChatID, nil)
	text := fmt.Sprintf(
		i18n.Get(alertTemplate, lang),
		alert.UserID,
		alert.WarningCount,
		i18n.Get(alert.Recommendation, lang),
	)

	var g errgroup.Group
	for _, admin := range admins {
		adminID := admin.User.ID
		g.Go(func() error {
			if err := bot.SendDirectMessage(ctx, m.s.GetBot(), adminID, text); err != nil {
				m.logger.WithFields(log.Fields{
					"admin_id": adminID,
					"error":    err.Error(),
				}).Error("cant deliver admin alert")
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
