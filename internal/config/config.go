package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Quiz      QuizConfig
	Ticket    TicketConfig
	Events    EventsConfig
	WebSocket WebSocketConfig
	Tracing   TracingConfig
	Log       LogConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // debug, release, test
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	// MigrationsPath - источник миграций golang-migrate
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Для 'single' используется первый адрес.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// StorageConfig содержит настройки хранения изображений вопросов
type StorageConfig struct {
	Dir          string `mapstructure:"dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	MaxUploadMB  int    `mapstructure:"max_upload_mb"`
	// MaxImageSide - максимальная сторона изображения после нормализации, px
	MaxImageSide int `mapstructure:"max_image_side"`
}

// QuizConfig содержит настройки прохождения теста
type QuizConfig struct {
	QuestionCacheTTL time.Duration `mapstructure:"question_cache_ttl"`
	AnswerLockTTL    time.Duration `mapstructure:"answer_lock_ttl"`
	// Seed > 0 делает порядок направлений и вариантов воспроизводимым
	Seed int64 `mapstructure:"seed"`
}

// TicketConfig содержит настройки тикета сессии респондента
type TicketConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// EventsConfig содержит настройки публикации событий сессий
type EventsConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Publisher    string   `mapstructure:"publisher"` // gochannel или kafka
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	Topic        string   `mapstructure:"topic"`
}

// WebSocketConfig содержит настройки монитора сессий
type WebSocketConfig struct {
	SendBuffer     int           `mapstructure:"send_buffer"`
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

// TracingConfig содержит настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"` // пусто - вывод в stdout
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения (для golang-migrate и lib/pq)
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// IsRelease сообщает, запущен ли сервер в production-режиме
func (s *ServerConfig) IsRelease() bool {
	return s.Mode == "release"
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.mode", "debug")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_path", "file://migrations")

	vip.SetDefault("redis.mode", "single")

	vip.SetDefault("storage.dir", "./static/uploads")
	vip.SetDefault("storage.public_prefix", "/static/uploads")
	vip.SetDefault("storage.max_upload_mb", 10)
	vip.SetDefault("storage.max_image_side", 1024)

	vip.SetDefault("quiz.question_cache_ttl", 10*time.Minute)
	vip.SetDefault("quiz.answer_lock_ttl", 10*time.Second)

	vip.SetDefault("ticket.ttl", 3*time.Hour)

	vip.SetDefault("events.enabled", true)
	vip.SetDefault("events.publisher", "gochannel")
	vip.SetDefault("events.topic", "quiz.sessions")

	vip.SetDefault("websocket.send_buffer", 64)
	vip.SetDefault("websocket.ping_interval", 27*time.Second)
	vip.SetDefault("websocket.pong_wait", 30*time.Second)
	vip.SetDefault("websocket.write_wait", 10*time.Second)
	vip.SetDefault("websocket.max_message_size", 512)

	vip.SetDefault("tracing.service_name", "spatial-quiz-api")
	vip.SetDefault("tracing.sample_ratio", 0.1)

	vip.SetDefault("log.mode", "debug")
	vip.SetDefault("log.level", "info")
}

// Load загружает конфигурацию: .env, файл конфигурации, переменные окружения
func Load(configPath string) (*Config, error) {
	// .env не обязателен; уже заданные переменные окружения он не перезаписывает
	_ = godotenv.Load()

	vip := viper.New() // Новый экземпляр Viper, без глобального состояния
	setDefaults(vip)

	// Привязываем переменные окружения ЯВНО
	bindings := map[string]string{
		"server.port":            "SERVER_PORT",
		"server.mode":            "GIN_MODE",
		"server.allowed_origins": "SERVER_ALLOWED_ORIGINS",

		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.user":            "DATABASE_USER",
		"database.password":        "DATABASE_PASSWORD",
		"database.dbname":          "DATABASE_DBNAME",
		"database.sslmode":         "DATABASE_SSLMODE",
		"database.migrations_path": "DATABASE_MIGRATIONS_PATH",

		"redis.mode":        "REDIS_MODE",
		"redis.addrs":       "REDIS_ADDRS",
		"redis.addr":        "REDIS_ADDR",
		"redis.password":    "REDIS_PASSWORD",
		"redis.db":          "REDIS_DB",
		"redis.master_name": "REDIS_MASTER_NAME",

		"storage.dir":           "STORAGE_DIR",
		"storage.public_prefix": "STORAGE_PUBLIC_PREFIX",

		"quiz.seed": "QUIZ_SEED",

		"ticket.secret": "TICKET_SECRET",
		"ticket.ttl":    "TICKET_TTL",

		"events.enabled":       "EVENTS_ENABLED",
		"events.publisher":     "EVENTS_PUBLISHER",
		"events.kafka_brokers": "KAFKA_BROKERS",
		"events.topic":         "EVENTS_TOPIC",

		"tracing.enabled":      "OTEL_ENABLED",
		"tracing.endpoint":     "OTEL_EXPORTER_OTLP_ENDPOINT",
		"tracing.insecure":     "OTEL_EXPORTER_OTLP_INSECURE",
		"tracing.sample_ratio": "OTEL_SAMPLER_RATIO",

		"log.mode":  "LOG_MODE",
		"log.level": "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файл не обязателен: значения могут прийти из окружения
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Ticket.Secret == "" {
		return fmt.Errorf("ticket secret is required (check TICKET_SECRET env var)")
	}
	if c.Server.IsRelease() {
		if len(c.Ticket.Secret) < 32 {
			return fmt.Errorf("ticket secret must be at least 32 bytes in release mode")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database password is required in release mode (check DATABASE_PASSWORD env var)")
		}
	}
	if c.Events.Enabled && c.Events.Publisher == "kafka" && len(c.Events.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka publisher requires KAFKA_BROKERS")
	}
	if c.Storage.MaxImageSide <= 0 {
		return fmt.Errorf("storage.max_image_side must be positive")
	}
	return nil
}

// Summary возвращает безопасные для логирования значения конфигурации
func (c *Config) Summary() []interface{} {
	return []interface{}{
		"server_port", c.Server.Port,
		"server_mode", c.Server.Mode,
		"database_host", c.Database.Host,
		"database_name", c.Database.DBName,
		"redis_mode", c.Redis.Mode,
		"storage_dir", c.Storage.Dir,
		"events_publisher", c.Events.Publisher,
		"events_enabled", c.Events.Enabled,
		"tracing_enabled", c.Tracing.Enabled,
		"ticket_secret_set", c.Ticket.Secret != "",
	}
}
