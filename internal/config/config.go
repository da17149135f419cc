// Package config собирает настройки сервиса из значений по умолчанию,
// флагов командной строки и переменных окружения.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultRunAddr         = ":3000"
	defaultFileStoragePath = "data.json"
	defaultLogLevel        = "info"
	defaultLinkTTL         = 72 * time.Hour
	defaultSaveDebounce    = 500 * time.Millisecond
	defaultSweepInterval   = time.Hour
)

// Config содержит настройки приложения
type Config struct {
	RunAddr         string
	BaseURL         string
	FileStoragePath string
	DatabaseDSN     string
	GRPCAddr        string
	TrustedSubnet   string
	LogLevel        string
	LinkTTL         time.Duration
	SaveDebounce    time.Duration
	SweepInterval   time.Duration
}

// envConfig переменные окружения. Указатель остаётся nil, если переменная не задана.
type envConfig struct {
	ServerAddress   *string        `envconfig:"SERVER_ADDRESS"`
	Port            *string        `envconfig:"PORT"`
	BaseURL         *string        `envconfig:"BASE_URL"`
	FileStoragePath *string        `envconfig:"FILE_STORAGE_PATH"`
	DatabaseDSN     *string        `envconfig:"DATABASE_DSN"`
	GRPCAddress     *string        `envconfig:"GRPC_ADDRESS"`
	TrustedSubnet   *string        `envconfig:"TRUSTED_SUBNET"`
	LogLevel        *string        `envconfig:"LOG_LEVEL"`
	LinkTTL         *time.Duration `envconfig:"LINK_TTL"`
	SaveDebounce    *time.Duration `envconfig:"SAVE_DEBOUNCE"`
	SweepInterval   *time.Duration `envconfig:"SWEEP_INTERVAL"`
}

// NewConfig загружает .env (если есть) и собирает конфигурацию из os.Args
func NewConfig() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return Load(os.Args[1:])
}

// LoadDotEnv загружает переменные из файлов .env.
// Отсутствующие файлы пропускаются, уже заданные переменные не перезаписываются.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load собирает конфигурацию: значения по умолчанию, затем флаги, затем переменные окружения
func Load(args []string) (*Config, error) {
	cfg := &Config{
		RunAddr:         defaultRunAddr,
		FileStoragePath: defaultFileStoragePath,
		LogLevel:        defaultLogLevel,
		LinkTTL:         defaultLinkTTL,
		SaveDebounce:    defaultSaveDebounce,
		SweepInterval:   defaultSweepInterval,
	}

	fs := flag.NewFlagSet("shortener", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "address and port to run server")
	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "base URL for shortened links")
	fs.StringVar(&cfg.FileStoragePath, "f", cfg.FileStoragePath, "path to file for storing links (empty keeps links in memory)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (sqlite:path or postgres://...)")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "address and port to run gRPC server")
	fs.StringVar(&cfg.TrustedSubnet, "t", cfg.TrustedSubnet, "trusted subnet in CIDR notation")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	env.apply(cfg)

	cfg.RunAddr = validateAddress(cfg.RunAddr)
	if cfg.GRPCAddr != "" {
		cfg.GRPCAddr = validateAddress(cfg.GRPCAddr)
	}
	if cfg.BaseURL != "" {
		cfg.BaseURL = validateBaseURL(cfg.BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e envConfig) apply(cfg *Config) {
	switch {
	case e.ServerAddress != nil && *e.ServerAddress != "":
		cfg.RunAddr = *e.ServerAddress
	case e.Port != nil && *e.Port != "":
		cfg.RunAddr = ":" + *e.Port
	}
	setString(&cfg.BaseURL, e.BaseURL)
	// Пустой FILE_STORAGE_PATH отключает файловое хранилище
	if e.FileStoragePath != nil {
		cfg.FileStoragePath = *e.FileStoragePath
	}
	setString(&cfg.DatabaseDSN, e.DatabaseDSN)
	setString(&cfg.GRPCAddr, e.GRPCAddress)
	setString(&cfg.TrustedSubnet, e.TrustedSubnet)
	setString(&cfg.LogLevel, e.LogLevel)
	if e.LinkTTL != nil {
		cfg.LinkTTL = *e.LinkTTL
	}
	if e.SaveDebounce != nil {
		cfg.SaveDebounce = *e.SaveDebounce
	}
	if e.SweepInterval != nil {
		cfg.SweepInterval = *e.SweepInterval
	}
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// Validate проверяет корректность значений
func (c *Config) Validate() error {
	if c.LinkTTL <= 0 {
		return fmt.Errorf("link ttl must be positive, got %s", c.LinkTTL)
	}
	if c.SaveDebounce <= 0 {
		return fmt.Errorf("save debounce must be positive, got %s", c.SaveDebounce)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	if c.TrustedSubnet != "" {
		if _, _, err := net.ParseCIDR(c.TrustedSubnet); err != nil {
			return fmt.Errorf("invalid trusted subnet %q: %w", c.TrustedSubnet, err)
		}
	}
	return nil
}

// validateAddress дополняет адрес двоеточием, если указан только порт
func validateAddress(addr string) string {
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

// validateBaseURL добавляет схему и убирает завершающий слэш
func validateBaseURL(u string) string {
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return strings.TrimRight(u, "/")
}
