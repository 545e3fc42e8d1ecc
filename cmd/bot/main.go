package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"auto-responder/internal/analytics"
	"auto-responder/internal/catalog"
	"auto-responder/internal/config"
	"auto-responder/internal/llm"
	"auto-responder/internal/logging"
	"auto-responder/internal/responder"
	"auto-responder/internal/scheduler"
	"auto-responder/internal/speech"
	"auto-responder/internal/storage"
	"auto-responder/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := storage.NewPostgres(pool)
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	products, err := catalog.Load(cfg.ProductsFile)
	if err != nil {
		log.Fatalf("Failed to load product catalog: %v", err)
	}
	log.WithField("products", products.Len()).Info("product catalog loaded")

	client := llm.NewAzure(llm.Options{
		Endpoint:   cfg.AzureEndpoint,
		APIKey:     cfg.AzureAPIKey,
		APIVersion: cfg.AzureAPIVersion,
		Deployment: cfg.AzureGPTDeployment,
		MaxTokens:  cfg.MaxResponseTokens,
	})
	stt := speech.NewTranscriber(client.Raw(), cfg.AzureWhisperDeployment)
	tts := speech.NewSynthesizer(client.Raw(), cfg.AzureTTSModel, cfg.AzureTTSVoice)
	rsp := responder.New(client, products, cfg.OwnerName, cfg.ClassifyFromRequest)

	log.WithFields(log.Fields{
		"owner":          cfg.OwnerName,
		"auto_respond":   cfg.AutoRespond,
		"groups":         cfg.RespondToGroups,
		"voice_enabled":  stt.Available(),
		"history_length": cfg.MaxHistoryLength,
	}).Info("configuration applied")

	bot, err := telegram.New(cfg, store, rsp, stt, tts)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	sched := scheduler.New(
		cfg.CatalogReloadCron, products.Reload,
		cfg.DailyReportCron, func(ctx context.Context) error {
			return reportDaily(ctx, store)
		},
	)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	go bot.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	bot.Stop()
	sched.Stop()
}

// reportDaily logs an aggregate of the day's handled conversations.
func reportDaily(ctx context.Context, store storage.Store) error {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := store.ConversationsSince(ctx, startOfDay)
	if err != nil {
		return err
	}
	log.WithField("report", analytics.Summarize(rows, now).Format()).Info("daily conversation report")
	return nil
}
