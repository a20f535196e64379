package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yourusername/spatial-quiz-api/internal/config"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	pgRepo "github.com/yourusername/spatial-quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/spatial-quiz-api/internal/repository/redis"
	"github.com/yourusername/spatial-quiz-api/internal/service"
	"github.com/yourusername/spatial-quiz-api/internal/storage"
	"github.com/yourusername/spatial-quiz-api/pkg/database"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "путь к config.yaml")
	fixturesPath := flag.String("fixtures", "fixtures/questions.yaml", "YAML с вопросами")
	flag.Parse()

	if err := run(*configPath, *fixturesPath); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, fixturesPath string) error {
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(fixturesPath)
	if err != nil {
		return err
	}
	defer f.Close()
	fixtures, err := parseFixtures(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), database.NewGormLogger(log, false))
	if err != nil {
		return err
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath, log); err != nil {
		return err
	}
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient, "spatial_quiz:")
	if err != nil {
		return err
	}
	blobs, err := storage.NewFSStore(cfg.Storage.Dir, cfg.Storage.PublicPrefix)
	if err != nil {
		return err
	}

	questions := service.NewQuestionService(
		pgRepo.NewQuestionRepo(db), cacheRepo, blobs,
		service.NewImageProcessor(cfg.Storage.MaxImageSide, cfg.Storage.MaxUploadMB), log,
	)

	baseDir := filepath.Dir(fixturesPath)
	for i, fx := range fixtures {
		in, err := fx.input()
		if err != nil {
			return fmt.Errorf("fixture #%d: %w", i+1, err)
		}
		image, err := fixtureImage(questions, fx, in, baseDir)
		if err != nil {
			return fmt.Errorf("fixture #%d image: %w", i+1, err)
		}
		q, err := questions.Create(ctx, in, image)
		if err != nil {
			return fmt.Errorf("fixture #%d: %w", i+1, err)
		}
		log.Info("Вопрос добавлен", "question_id", q.ID, "active", q.IsActive)
	}
	log.Info("Начальные данные загружены", "questions", len(fixtures))
	return nil
}

func fixtureImage(questions *service.QuestionService, fx questionFixture, in service.QuestionInput, baseDir string) (io.Reader, error) {
	if fx.Image == "" {
		png, err := questions.Preview(in.Coords, 512)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(png), nil
	}
	path := fx.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
