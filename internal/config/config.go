package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "data/config.yaml"

	configFileEnv       = "CONFIG_FILE"
	postgresPasswordEnv = "LEDGER_POSTGRES_PASSWORD"
	telegramTokenEnv    = "LEDGER_TELEGRAM_TOKEN"
)

type config struct {
	App       AppConfig       `yaml:"app"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type Service struct {
	config config
}

// New reads the yaml config. A .env file in the working directory, when
// present, is loaded first so its variables can override secrets.
func New() (*Service, error) {
	_ = godotenv.Load()

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = defaultConfigFile
	}
	return FromFile(path)
}

func FromFile(path string) (*Service, error) {
	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return Parse(rawYAML)
}

func Parse(rawYAML []byte) (*Service, error) {
	s := &Service{config: defaults()}

	err := yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	if _, err := time.LoadLocation(s.config.App.TimeZone); err != nil {
		return nil, errors.Wrapf(err, "app.time-zone %q", s.config.App.TimeZone)
	}

	if v := os.Getenv(postgresPasswordEnv); v != "" {
		s.config.Postgres.Pswd = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		s.config.Telegram.ApiToken = v
	}
	return s, nil
}

func defaults() config {
	return config{
		App: AppConfig{
			DisplayCurrencyCode: "BRL",
			TimeZone:            "UTC",
			BcryptCost:          10,
		},
		Storage: StorageConfig{
			DriverName: "memory",
			SQLiteFile: "data/ledger.db",
		},
		Jaeger: JaegerConfig{
			Service: "personal-ledger",
		},
	}
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Jaeger() *JaegerConfig {
	return &s.config.Jaeger
}

func (s *Service) Metrics() *MetricsConfig {
	return &s.config.Metrics
}
