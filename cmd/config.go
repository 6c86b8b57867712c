package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	AutoMigrate bool

	AMQPURL      string
	AMQPExchange string

	BadgerPath     string
	WorkerPoolSize int
	Schedule       string
	LayoutFile     string

	ServiceName  string
	LogLevel     string
	OTLPEndpoint string
}

// UsesPostgres reports whether a database is configured. Without DB_HOST the
// service runs on the in-memory store.
func (c Config) UsesPostgres() bool {
	return c.DBHost != ""
}

// DSN is the libpq keyword/value connection string of the database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

var defaults = map[string]any{
	"HTTP_PORT":        "8080",
	"DB_HOST":          "",
	"DB_PORT":          "5432",
	"DB_USER":          "postgres",
	"DB_PASSWORD":      "",
	"DB_NAME":          "fulfillment",
	"DB_SSLMODE":       "disable",
	"DB_AUTO_MIGRATE":  true,
	"AMQP_URL":         "",
	"AMQP_EXCHANGE":    "fulfillment_topic",
	"BADGER_PATH":      "",
	"WORKER_POOL_SIZE": 4,
	"SCHEDULE":         "*/5 * * * * *",
	"LAYOUT_FILE":      "",
	"SERVICE_NAME":     "pickingpacking",
	"LOG_LEVEL":        "info",
	"OTLP_ENDPOINT":    "",
}

// LoadConfig reads the environment, after loading envFile into it when the
// file exists. Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := Config{
		HTTPPort:       v.GetString("HTTP_PORT"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSslMode:      v.GetString("DB_SSLMODE"),
		AutoMigrate:    v.GetBool("DB_AUTO_MIGRATE"),
		AMQPURL:        v.GetString("AMQP_URL"),
		AMQPExchange:   v.GetString("AMQP_EXCHANGE"),
		BadgerPath:     v.GetString("BADGER_PATH"),
		WorkerPoolSize: v.GetInt("WORKER_POOL_SIZE"),
		Schedule:       v.GetString("SCHEDULE"),
		LayoutFile:     v.GetString("LAYOUT_FILE"),
		ServiceName:    v.GetString("SERVICE_NAME"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		OTLPEndpoint:   v.GetString("OTLP_ENDPOINT"),
	}
	if cfg.WorkerPoolSize < 1 {
		return Config{}, fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", cfg.WorkerPoolSize)
	}
	return cfg, nil
}
