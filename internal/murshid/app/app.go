// Package app wires the Murshid tutoring service together: conversation
// memory, the intent classifier, the generative model client, the
// morphology and meaning service clients, the audit store, and the chat
// HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/malakhossam/murshid/common/version"
	"github.com/malakhossam/murshid/internal/murshid/llm"
	"github.com/malakhossam/murshid/internal/murshid/memory"
	"github.com/malakhossam/murshid/internal/murshid/nlp"
	"github.com/malakhossam/murshid/internal/murshid/server"
	"github.com/malakhossam/murshid/internal/murshid/services"
	"github.com/malakhossam/murshid/internal/murshid/store"
	"github.com/malakhossam/murshid/internal/murshid/tutor"
)

// Config holds the complete application configuration, loaded from the
// environment by cmd/murshid.
type Config struct {
	// Addr is the listen address for the chat HTTP server.
	Addr string

	// GeminiAPIKey authenticates against the generative model API. Required.
	GeminiAPIKey string
	// GeminiBaseURL overrides the model API endpoint (proxies, tests).
	GeminiBaseURL string
	// GeminiModel is the generative model name.
	GeminiModel string

	// MorphologyURL is the base URL of the morphological analysis service.
	MorphologyURL string
	// MeaningURL is the base URL of the meaning (synonym/antonym/plural)
	// lookup service.
	MeaningURL string
	// ServiceTimeout applies to each analysis-service HTTP request.
	ServiceTimeout time.Duration

	// DBPath is the SQLite audit database path. Empty disables auditing.
	DBPath string

	// PhrasesPath points to an optional YAML file overriding the built-in
	// greeting / unknown-answer / general-help phrase sets.
	PhrasesPath string

	// MaxTurns bounds the per-user conversation history.
	MaxTurns int
	// RateLimit is the per-user classification budget per minute.
	RateLimit int
}

// App is the assembled Murshid application.
type App struct {
	config *Config
	store  *memory.Store
	audit  *store.Store // nil when auditing is disabled
	tutor  *tutor.Tutor
	server *server.Server
}

// New builds the application from config. It opens the audit database and
// loads phrase overrides but does not start listening; call Run.
func New(config *Config) (*App, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("app: gemini api key is required")
	}

	phrases := nlp.DefaultPhraseSets()
	if config.PhrasesPath != "" {
		loaded, err := nlp.LoadPhraseSets(config.PhrasesPath)
		if err != nil {
			return nil, fmt.Errorf("app: load phrase sets: %w", err)
		}
		phrases = loaded
		slog.Info("phrase overrides loaded", "path", config.PhrasesPath)
	}

	gen := llm.New(llm.Config{
		APIKey:  config.GeminiAPIKey,
		BaseURL: config.GeminiBaseURL,
		Model:   config.GeminiModel,
	})

	limiter := nlp.NewRateLimiter(config.RateLimit, time.Minute)
	classifier := nlp.NewClassifier(gen, phrases, limiter)

	conversations := memory.NewStore(memory.StoreConfig{MaxTurns: config.MaxTurns})

	morphology := services.NewMorphology(config.MorphologyURL, config.ServiceTimeout)
	meaning := services.NewMeaning(config.MeaningURL, config.ServiceTimeout)

	var audit *store.Store
	var auditor tutor.Auditor
	if config.DBPath != "" {
		s, err := store.New(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("app: open audit store: %w", err)
		}
		audit = s
		auditor = s
		slog.Info("audit store opened", "path", config.DBPath)
	}

	t := tutor.New(gen, classifier, conversations, morphology, meaning, auditor)

	a := &App{
		config: config,
		store:  conversations,
		audit:  audit,
		tutor:  t,
	}
	a.server = server.New(config.Addr, version.Version, t)
	return a, nil
}

// Run starts the HTTP server and blocks until an interrupt signal.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("app: start chat server: %w", err)
	}

	slog.Info("murshid is running; press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	return nil
}

// Stop shuts down the server and closes the audit database.
func (a *App) Stop() {
	slog.Info("stopping chat server")
	a.server.Stop()

	if a.audit != nil {
		slog.Info("closing audit store")
		a.audit.Close()
	}
}
