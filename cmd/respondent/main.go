// Команда respondent - прохождение теста в терминале через HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yourusername/spatial-quiz-api/internal/apiclient"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/quizflow"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("api", envOr("QUIZ_API_URL", "http://localhost:8080"), "адрес API")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "warn"), "уровень логирования")
	flag.Parse()

	if err := run(*baseURL, *logLevel); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "respondent: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(baseURL, logLevel string) error {
	log, err := logger.New("development", logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	api, err := apiclient.New(baseURL, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := &driver{
		m:   quizflow.New(nil),
		api: api,
		ui:  newTerminal(os.Stdin, os.Stdout),
		log: log.Component("Respondent"),
	}
	return d.run(ctx)
}
