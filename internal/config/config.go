package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Режимы хранения.
const (
	ModeDatabase = "database"
	ModeFile     = "file"
	ModeMemory   = "memory"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress         string        `json:"server_address"`
	BaseURL               string        `json:"base_url"`
	FileStoragePath       string        `json:"file_storage_path"`
	DatabaseDSN           string        `json:"database_dsn"`
	CodeLength            int           `json:"code_length"`
	MaxCodeAttempts       int           `json:"max_code_attempts"`
	ResponseCacheDuration time.Duration `json:"response_cache_duration"`
	RedisAddr             string        `json:"redis_addr"`
	CacheTTL              time.Duration `json:"cache_ttl"`
	GRPCAddress           string        `json:"grpc_address"`
	EnableHTTPS           bool          `json:"enable_https"`
	TLSCertPath           string        `json:"tls_cert_path"`
	TLSKeyPath            string        `json:"tls_key_path"`
	CORSAllowedOrigins    []string      `json:"cors_allowed_origins"`
	ShutdownTimeout       time.Duration `json:"shutdown_timeout"`
	Mode                  string        `json:"-"`
}

// flagKeys сопоставляет флаги командной строки ключам конфигурации.
var flagKeys = map[string]string{
	"a":      "server_address",
	"b":      "base_url",
	"f":      "file_storage_path",
	"d":      "database_dsn",
	"l":      "code_length",
	"m":      "max_code_attempts",
	"r":      "redis_addr",
	"g":      "grpc_address",
	"s":      "enable_https",
	"cert":   "tls_cert_path",
	"key":    "tls_key_path",
	"c":      "",
	"config": "",
}

// NewConfig инициализирует конфигурацию на основе аргументов командной строки
func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load собирает конфигурацию. Приоритет по возрастанию: значения по умолчанию,
// JSON-файл (-c / CONFIG), файл .env, переменные окружения, флаги.
func Load(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_address", "localhost:8080") // Значения по умолчанию
	v.SetDefault("base_url", "")
	v.SetDefault("file_storage_path", "")
	v.SetDefault("database_dsn", "")
	v.SetDefault("code_length", 6)
	v.SetDefault("max_code_attempts", 10)
	v.SetDefault("response_cache_duration", 60*time.Second)
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", 24*time.Hour)
	v.SetDefault("grpc_address", "")
	v.SetDefault("enable_https", false)
	v.SetDefault("tls_cert_path", "cert.pem")
	v.SetDefault("tls_key_path", "key.pem")
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("shutdown_timeout", 10*time.Second)

	fs := flag.NewFlagSet("shortener", flag.ContinueOnError)
	fs.String("a", "", "server address")
	fs.String("b", "", "base URL for short links")
	fs.String("f", "", "file storage path (JSON lines)")
	fs.String("d", "", "PostgreSQL DSN")
	fs.Int("l", 0, "short code length")
	fs.Int("m", 0, "max attempts to generate a unique code")
	fs.String("r", "", "Redis address for the link cache")
	fs.String("g", "", "gRPC server address")
	fs.Bool("s", false, "enable HTTPS")
	fs.String("cert", "", "path to TLS certificate")
	fs.String("key", "", "path to TLS key")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", *configPath, err)
		}
	}

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	dotenv := viper.New()
	dotenv.SetConfigFile(".env")
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err == nil {
		if err := v.MergeConfigMap(dotenv.AllSettings()); err != nil {
			return nil, fmt.Errorf("merge .env: %w", err)
		}
	}

	v.AutomaticEnv()

	// Флаги, переданные явно, имеют наивысший приоритет
	fs.Visit(func(f *flag.Flag) {
		if key := flagKeys[f.Name]; key != "" {
			v.Set(key, f.Value.String())
		}
	})

	cfg := &Config{
		ServerAddress:         v.GetString("server_address"),
		BaseURL:               strings.TrimSpace(v.GetString("base_url")),
		FileStoragePath:       v.GetString("file_storage_path"),
		DatabaseDSN:           v.GetString("database_dsn"),
		CodeLength:            v.GetInt("code_length"),
		MaxCodeAttempts:       v.GetInt("max_code_attempts"),
		ResponseCacheDuration: v.GetDuration("response_cache_duration"),
		RedisAddr:             v.GetString("redis_addr"),
		CacheTTL:              v.GetDuration("cache_ttl"),
		GRPCAddress:           v.GetString("grpc_address"),
		EnableHTTPS:           v.GetBool("enable_https"),
		TLSCertPath:           v.GetString("tls_cert_path"),
		TLSKeyPath:            v.GetString("tls_key_path"),
		CORSAllowedOrigins:    splitList(v.GetStringSlice("cors_allowed_origins")),
		ShutdownTimeout:       v.GetDuration("shutdown_timeout"),
	}

	// Определяем режим работы
	switch {
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}

	// Проверка корректности конфигурации
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return errors.New("адрес сервера не может быть пустым")
	}
	if cfg.CodeLength < 3 || cfg.CodeLength > 128 {
		return fmt.Errorf("длина кода должна быть от 3 до 128, получено %d", cfg.CodeLength)
	}
	if cfg.MaxCodeAttempts < 1 {
		return fmt.Errorf("число попыток генерации кода должно быть положительным, получено %d", cfg.MaxCodeAttempts)
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("некорректный базовый URL %q", cfg.BaseURL)
		}
	}
	if cfg.EnableHTTPS && (cfg.TLSCertPath == "" || cfg.TLSKeyPath == "") {
		return errors.New("для HTTPS нужны пути к сертификату и ключу")
	}
	return nil
}

// splitList разбивает элементы вида "a,b" (так приходят списки из окружения).
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
