package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		TelegramAPIToken string   `env:"TOKEN,required"`
		DefaultLanguage  string   `env:"LANG,default=en"`
		EnabledHandlers  []string `env:"HANDLERS,default=commands,moderator"`
		LogLevel         int      `env:"LOG_LEVEL,default=4"`
		DotPath          string   `env:"DOT_PATH,default=~/.wardenbot"`
		MetricsAddr      string   `env:"METRICS_ADDR,default=:2112"`
		LLM              LLM
		Moderation       Moderation
	}

	LLM struct {
		APIKey  string `env:"LLM_API_KEY,required"`
		Model   string `env:"LLM_API_MODEL,default=gpt-4o-mini"`
		BaseURL string `env:"LLM_API_URL,default=https://api.openai.com/v1"`
		Type    string `env:"LLM_API_TYPE,default=openai"`
	}

	Moderation struct {
		WarningThreshold int           `env:"WARNING_THRESHOLD,default=3"`
		WarningWindow    time.Duration `env:"WARNING_WINDOW,default=24h"`
		ClassifyTimeout  time.Duration `env:"CLASSIFY_TIMEOUT,default=5s"`
		NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT,default=5s"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("WB_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		if strings.HasPrefix(cfg.DotPath, "~") {
			expanded, err := homedir.Expand(cfg.DotPath)
			if err != nil {
				globalErr = fmt.Errorf("expand dot path: %w", err)
				return
			}
			cfg.DotPath = expanded
		}
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}
