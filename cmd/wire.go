package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bnema/dragon-hoard/internal/adapters/generator/gemini"
	personayaml "github.com/bnema/dragon-hoard/internal/adapters/persona/yaml"
	sessionrender "github.com/bnema/dragon-hoard/internal/adapters/render/session"
	tomlrepo "github.com/bnema/dragon-hoard/internal/adapters/repo/toml"
	sqlitescores "github.com/bnema/dragon-hoard/internal/adapters/scores/sqlite"
	chainstore "github.com/bnema/dragon-hoard/internal/adapters/secrets/chain"
	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/config"
	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	cfg           *viper.Viper
	logger        *zap.Logger
	logLevel      zap.AtomicLevel
	sessions      *tomlrepo.Repository
	scores        *sqlitescores.ScoreBoard
	credentials   *application.Credentials
	engineConfig  application.EngineConfig
	renderSession func(application.SessionView, sessionrender.RenderOptions) (string, error)
	renderScores  func([]ports.ScoreEntry) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := config.Load(envOrDefault("HOARD_CONFIG", ""))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := config.LogLevel(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := zap.NewAtomicLevelAt(level)
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.GetString(config.KeySecretsDir), logger.Named("secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	persona, err := personayaml.Load(cfg.GetString(config.KeyPersonaPath))
	if err != nil {
		return nil, fmt.Errorf("load persona: %w", err)
	}

	engineConfig, err := config.EngineConfig(cfg, persona)
	if err != nil {
		return nil, err
	}

	scores, err := sqlitescores.Open(cfg.GetString(config.KeyScoresPath), logger.Named("scores"))
	if err != nil {
		return nil, fmt.Errorf("wire score board: %w", err)
	}

	return &app{
		cfg:           cfg,
		logger:        logger,
		logLevel:      logLevel,
		sessions:      repo,
		scores:        scores,
		credentials:   application.NewCredentials(secretStore),
		engineConfig:  engineConfig,
		renderSession: sessionrender.Render,
		renderScores:  sessionrender.RenderScores,
	}, nil
}

func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// newEngine binds an engine to the configured model, stores and logger.
func (a *app) newEngine(opts ...application.EngineOption) (*application.Engine, error) {
	base := []application.EngineOption{
		application.WithLogger(a.logger.Named("engine")),
		application.WithSessionRepository(a.sessions),
		application.WithScoreBoard(a.scores),
	}

	return application.NewEngine(&lazyGenerator{build: a.buildGenerator}, a.engineConfig, append(base, opts...)...)
}

func (a *app) buildGenerator(ctx context.Context) (ports.Generator, error) {
	apiKey, err := a.credentials.APIKey(ctx)
	if err != nil {
		return nil, err
	}

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:  apiKey,
		Model:   a.cfg.GetString(config.KeyModelName),
		BaseURL: a.cfg.GetString(config.KeyModelBaseURL),
	}, a.logger.Named("gemini"))
}

func (a *app) close() error {
	_ = a.logger.Sync()
	return a.scores.Close()
}

// lazyGenerator resolves credentials on the first request so commands that
// never reach the model work without an API key. Only a successful build is
// kept; a failed one is retried on the next request.
type lazyGenerator struct {
	build func(context.Context) (ports.Generator, error)

	mu  sync.Mutex
	gen ports.Generator
}

func (g *lazyGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	gen, err := g.generator(ctx)
	if err != nil {
		return "", err
	}

	return gen.Generate(ctx, prompt, opts)
}

func (g *lazyGenerator) generator(ctx context.Context) (ports.Generator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen != nil {
		return g.gen, nil
	}

	gen, err := g.build(ctx)
	if err != nil {
		return nil, err
	}
	g.gen = gen
	return gen, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

var errNoSavedSession = errors.New("no saved session; run `hoard play` first")
