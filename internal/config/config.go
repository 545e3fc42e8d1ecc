package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config is built once at startup and handed to every component constructor.
// Nothing reads the environment after Parse.
type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	OwnerName string `env:"OWNER_NAME" envDefault:"User"`

	// Azure OpenAI
	AzureEndpoint          string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIKey            string `env:"AZURE_OPENAI_API_KEY"`
	AzureAPIVersion        string `env:"AZURE_API_VERSION" envDefault:"2024-12-01-preview"`
	AzureGPTDeployment     string `env:"AZURE_GPT_DEPLOYMENT" envDefault:"gpt-4o"`
	AzureWhisperDeployment string `env:"AZURE_WHISPER_DEPLOYMENT" envDefault:"whisper"`
	AzureTTSModel          string `env:"AZURE_TTS_MODEL" envDefault:"tts-1-hd"`
	AzureTTSVoice          string `env:"AZURE_TTS_VOICE" envDefault:"alloy"`

	// Bot behavior
	ResponseDelay     time.Duration `env:"RESPONSE_DELAY" envDefault:"2s"`
	MaxHistoryLength  int           `env:"MAX_HISTORY_LENGTH" envDefault:"8"`
	MaxResponseTokens int           `env:"MAX_RESPONSE_TOKENS" envDefault:"150"`
	AutoRespond       bool          `env:"AUTO_RESPOND" envDefault:"true"`
	RespondToGroups   bool          `env:"RESPOND_TO_GROUPS" envDefault:"false"`

	// Budget for every outbound call (LLM, transcription, synthesis).
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	// The keyword classifier historically inspects the generated reply.
	// Set to true to classify the incoming message instead.
	ClassifyFromRequest bool `env:"CLASSIFY_FROM_REQUEST" envDefault:"false"`

	// Files and storage
	ProductsFile      string `env:"PRODUCTS_FILE" envDefault:"products.json"`
	LogFile           string `env:"LOG_FILE" envDefault:"telegram_bot.log"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL       string `env:"DATABASE_URL"`
	CatalogReloadCron string `env:"CATALOG_RELOAD_CRON" envDefault:"@every 1h"`
	DailyReportCron   string `env:"DAILY_REPORT_CRON" envDefault:"0 21 * * *"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing required setting in a single error so a
// misconfigured deployment fails once with the full list.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"TELEGRAM_BOT_TOKEN", c.TelegramBotToken},
		{"AZURE_OPENAI_ENDPOINT", c.AzureEndpoint},
		{"AZURE_OPENAI_API_KEY", c.AzureAPIKey},
		{"DATABASE_URL", c.DatabaseURL},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
