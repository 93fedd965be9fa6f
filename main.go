package main

import (
	"context"
	"os"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/kindwatch/wardenbot/internal/adapters"
	"github.com/kindwatch/wardenbot/internal/adapters/llm/gemini"
	"github.com/kindwatch/wardenbot/internal/adapters/llm/openai"
	"github.com/kindwatch/wardenbot/internal/bot"
	"github.com/kindwatch/wardenbot/internal/config"
	"github.com/kindwatch/wardenbot/internal/db/sqlite"
	"github.com/kindwatch/wardenbot/internal/handlers"
	"github.com/kindwatch/wardenbot/internal/infra"
	"github.com/kindwatch/wardenbot/internal/moderation"
	"github.com/kindwatch/wardenbot/internal/observability"
)

func main() {
	cfg := config.Get()
	log.SetFormatter(&config.WbFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))

	infra.GoRecoverable(-1, "update_loop", func() {
		ctx, cancelFunc := context.WithCancel(context.Background())
		defer cancelFunc()

		if err := observability.Init(ctx, cfg.MetricsAddr); err != nil {
			log.WithError(err).Errorln("cant initialize observability")
		}

		botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			log.WithError(err).Errorln("cant initialize bot api")
			time.Sleep(1 * time.Second)
			log.Fatalln("exiting")
		}
		if log.Level(cfg.LogLevel) == log.TraceLevel {
			botAPI.Debug = true
		}
		defer botAPI.StopReceivingUpdates()

		dbClient, err := sqlite.NewSQLiteClient(ctx, infra.GetWorkDir(), "wardenbot.db")
		if err != nil {
			log.WithError(err).Fatalln("cant open db")
		}
		defer func() { _ = dbClient.Close() }()

		service := bot.NewService(botAPI, dbClient, log.WithField("object", "Service"))
		classifier := moderation.NewLLMClassifier(newLLM(cfg.LLM), log.WithField("object", "LLMClassifier"))

		bot.RegisterUpdateHandler("commands", handlers.NewCommands(service))
		bot.RegisterUpdateHandler("moderator", handlers.NewModerator(service, cfg.Moderation, classifier))

		updateConfig := api.NewUpdate(0)
		updateConfig.Timeout = 60
		updateProcessor := bot.NewUpdateProcessor(service)

		updateChan, errorChan := bot.GetUpdatesChans(ctx, botAPI, updateConfig)

		log.Infoln("wardenbot is up")
		for {
			select {
			case err := <-errorChan:
				log.WithError(err).Fatalln("bot api get updates error")
			case update := <-updateChan:
				if err := updateProcessor.Process(ctx, &update); err != nil {
					log.WithError(err).Errorln("cant process update")
				}
			case <-ctx.Done():
				log.WithError(ctx.Err()).Errorln("no more updates")
				return
			}
		}
	})

	select {
	case <-infra.MonitorExecutable(context.Background()):
		log.Errorln("executable file was modified")
	}
	os.Exit(0)
}

func newLLM(cfg config.LLM) adapters.LLM {
	switch cfg.Type {
	case "gemini":
		return gemini.NewGemini(cfg.APIKey, cfg.Model, log.WithField("object", "Gemini"))
	default:
		return openai.NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL, log.WithField("object", "OpenAI"))
	}
}
