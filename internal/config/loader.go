package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PLANNING"

// Config captures the settings of the planning server and operator CLI.
type Config struct {
	HTTPPort           int
	SQLitePath         string
	SessionSecret      string
	SessionTTL         time.Duration
	SessionPurgeCron   string
	LogLevel           slog.Level
	LogFormat          string
	CookieSecure       bool
	BaseURL            string
	ShutdownTimeout    time.Duration
	RequestBodyMaxSize int64
}

// Load reads configuration from the environment. A dotenv file named by
// PLANNING_ENV_FILE (default ".env") is loaded first when it exists, without
// overriding variables already set. PLANNING_CONFIG_FILE may point to a
// YAML or TOML file whose keys sit below the environment.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("http_port", "8080")
	v.SetDefault("sqlite_path", "data/planning.db")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_purge_cron", "@every 1h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cookie_secure", "false")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("request_body_max_size", "65536")

	if file := strings.TrimSpace(v.GetString("config_file")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("lecture du fichier de configuration %s: %w", file, err)
		}
	}

	cfg := Config{
		SQLitePath: strings.TrimSpace(v.GetString("sqlite_path")),
		BaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString("base_url")), "/"),
	}
	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)
	key := func(name string) string { return EnvPrefix + "_" + strings.ToUpper(name) }

	if port, err := strconv.Atoi(strings.TrimSpace(v.GetString("http_port"))); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, key("http_port"))
	} else {
		cfg.HTTPPort = port
	}

	if cfg.SQLitePath == "" {
		invalid = append(invalid, key("sqlite_path"))
	}

	if secret := strings.TrimSpace(v.GetString("session_secret")); secret == "" {
		missing = append(missing, key("session_secret"))
	} else {
		cfg.SessionSecret = secret
	}

	if ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("session_ttl"))); err != nil || ttl <= 0 {
		invalid = append(invalid, key("session_ttl"))
	} else {
		cfg.SessionTTL = ttl
	}

	purge := strings.TrimSpace(v.GetString("session_purge_cron"))
	if _, err := cron.ParseStandard(purge); err != nil {
		invalid = append(invalid, key("session_purge_cron"))
	} else {
		cfg.SessionPurgeCron = purge
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v.GetString("log_level")))); err != nil {
		invalid = append(invalid, key("log_level"))
	}

	switch format := strings.ToLower(strings.TrimSpace(v.GetString("log_format"))); format {
	case "text", "json":
		cfg.LogFormat = format
	default:
		invalid = append(invalid, key("log_format"))
	}

	if secure, err := strconv.ParseBool(strings.TrimSpace(v.GetString("cookie_secure"))); err != nil {
		invalid = append(invalid, key("cookie_secure"))
	} else {
		cfg.CookieSecure = secure
	}

	if timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("shutdown_timeout"))); err != nil || timeout <= 0 {
		invalid = append(invalid, key("shutdown_timeout"))
	} else {
		cfg.ShutdownTimeout = timeout
	}

	if size, err := strconv.ParseInt(strings.TrimSpace(v.GetString("request_body_max_size")), 10, 64); err != nil || size <= 0 {
		invalid = append(invalid, key("request_body_max_size"))
	} else {
		cfg.RequestBodyMaxSize = size
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("variables d'environnement obligatoires manquantes: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("valeurs de configuration invalides: %s", strings.Join(invalid, ", ")))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// LoadClient reads only the settings used by the operator CLI, which does
// not need the session secret.
func LoadClient() (baseURL string, err error) {
	if err := loadDotEnv(); err != nil {
		return "", err
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("base_url", "http://localhost:8080")
	return strings.TrimRight(strings.TrimSpace(v.GetString("base_url")), "/"), nil
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv(EnvPrefix + "_ENV_FILE"))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("fichier d'environnement %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("fichier d'environnement %s: %w", path, err)
	}
	return nil
}
