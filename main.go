package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/dskvich/atlas-telegram-bot/pkg/api"
	"github.com/dskvich/atlas-telegram-bot/pkg/auth"
	"github.com/dskvich/atlas-telegram-bot/pkg/generation"
	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
	"github.com/dskvich/atlas-telegram-bot/pkg/prompt"
	"github.com/dskvich/atlas-telegram-bot/pkg/telegram"
	"github.com/dskvich/atlas-telegram-bot/pkg/telegram/handler"
	"github.com/dskvich/atlas-telegram-bot/pkg/workers"
)

type Config struct {
	TelegramToken             string        `env:"TELEGRAM_TOKEN,required"`
	TelegramAuthorizedUserIDs []int64       `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`
	TelegramPollTimeout       int           `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"60"`
	Port                      string        `env:"PORT" envDefault:"8000"`
	GenerationBaseURL         string        `env:"GENERATION_BASE_URL" envDefault:"http://localhost:8080/v1"`
	GenerationAPIKey          string        `env:"GENERATION_API_KEY"`
	GenerationModel           string        `env:"GENERATION_MODEL" envDefault:"aubmindlab/aragpt2-base"`
	GenerationFallbackModel   string        `env:"GENERATION_FALLBACK_MODEL" envDefault:"distilgpt2"`
	GenerationMaxLength       int           `env:"GENERATION_MAX_LENGTH" envDefault:"400"`
	GenerationEchoPrompt      bool          `env:"GENERATION_ECHO_PROMPT" envDefault:"true"`
	GenerationLoadTimeout     time.Duration `env:"GENERATION_LOAD_TIMEOUT" envDefault:"30s"`
	PromptIncludeInstruction  bool          `env:"PROMPT_INCLUDE_INSTRUCTION" envDefault:"true"`
	LogLevel                  slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	LogNoColor                bool          `env:"LOG_NO_COLOR"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

type setupFunc func(ctx context.Context, cfg Config) (workers.Group, error)

func runMain() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env file: %w", err)
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return run(ctx, nil, setupWorkers)
}

// run validates the configuration before setup builds any client or worker.
func run(ctx context.Context, environment map[string]string, setup setupFunc) error {
	cfg, err := parseConfig(environment)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &logger.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.DateTime,
		NoColor:    cfg.LogNoColor,
	})))

	workerGroup, err := setup(ctx, cfg)
	if err != nil {
		return err
	}

	return workerGroup.Start(ctx)
}

// parseConfig reads the process environment when environment is nil.
func parseConfig(environment map[string]string) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

func setupWorkers(ctx context.Context, cfg Config) (workers.Group, error) {
	telegramClient, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramPollTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}

	generator, err := generation.Load(ctx, generation.Config{
		BaseURL:       cfg.GenerationBaseURL,
		APIKey:        cfg.GenerationAPIKey,
		Model:         cfg.GenerationModel,
		FallbackModel: cfg.GenerationFallbackModel,
		EchoPrompt:    cfg.GenerationEchoPrompt,
		LoadTimeout:   cfg.GenerationLoadTimeout,
	})
	if err != nil {
		telegramClient.StopUpdates()
		return nil, fmt.Errorf("loading generation model: %w", err)
	}

	registry := telegram.NewRegistry(
		handler.NewShowWelcome(telegramClient),
		handler.NewRejectAttachment(telegramClient),
		handler.NewGenerateResponse(
			telegramClient,
			generator,
			prompt.NewBuilder(cfg.PromptIncludeInstruction),
			cfg.GenerationMaxLength,
		),
	)

	slog.Info("Professor Atlas is running", "model", generator.Model(), "port", cfg.Port)

	return workers.Group{
		workers.NewHTTPServer(cfg.Port, api.NewRouter()),
		workers.NewTelegramUpdateListener(
			telegramClient,
			auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs),
			registry,
		),
	}, nil
}
