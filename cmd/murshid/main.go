package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/malakhossam/murshid/common/environment"
	"github.com/malakhossam/murshid/common/version"
	"github.com/malakhossam/murshid/internal/murshid/app"
	"github.com/malakhossam/murshid/internal/murshid/nlp"
	"github.com/malakhossam/murshid/internal/murshid/observability"
)

func main() {
	fmt.Printf("Murshid Arabic Tutor\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	// A missing .env file is fine; the environment may be set directly.
	godotenv.Load()

	observability.Setup(
		environment.StringOr("LOG_LEVEL", "info"),
		environment.StringOr("LOG_FORMAT", "text"),
	)

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	murshid, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize Murshid: %v\n", err)
		os.Exit(1)
	}
	defer murshid.Stop()

	if err := murshid.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running Murshid: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration from environment variables.
func loadConfig() (*app.Config, error) {
	apiKey, err := environment.RequiredString("GEMINI_API_KEY")
	if err != nil {
		return nil, err
	}

	return &app.Config{
		Addr:           environment.StringOr("MURSHID_ADDR", ":8080"),
		GeminiAPIKey:   apiKey,
		GeminiBaseURL:  environment.StringOr("GEMINI_BASE_URL", ""),
		GeminiModel:    environment.StringOr("GEMINI_MODEL", ""),
		MorphologyURL:  environment.StringOr("MORPHOLOGY_URL", "http://localhost:5001"),
		MeaningURL:     environment.StringOr("MEANING_URL", "http://localhost:5002"),
		ServiceTimeout: environment.DurationOr("MURSHID_SERVICE_TIMEOUT", 15*time.Second),
		DBPath:         environment.StringOr("MURSHID_DB_PATH", ""),
		PhrasesPath:    environment.StringOr("MURSHID_PHRASES_PATH", ""),
		MaxTurns:       environment.IntOr("MURSHID_MAX_TURNS", 50),
		RateLimit:      environment.IntOr("MURSHID_NLP_RATE_LIMIT", nlp.DefaultRateLimit),
	}, nil
}
