package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional YAML file. Environment variables win over it.
const ConfigFileEnv = "HRPORTAL_CONFIG"

type Config struct {
	Addr                         string
	DatabaseURL                  string
	JWTSecret                    string
	Environment                  string
	SeedAdminEmail               string
	SeedAdminPassword            string
	RunMigrations                bool
	RunSeed                      bool
	MigrationsDir                string
	MaxBodyBytes                 int64
	RateLimitPerMinute           int
	TokenTTL                     time.Duration
	PerformanceBroadcastInterval time.Duration
	WSPingInterval               time.Duration
	WSWriteTimeout               time.Duration
	WSAllowedOrigins             []string
	DispatchBudget               time.Duration
	MetricsEnabled               bool
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("app_env", "development")
	v.SetDefault("seed_admin_email", "")
	v.SetDefault("seed_admin_password", "")
	v.SetDefault("run_migrations", true)
	v.SetDefault("run_seed", true)
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("max_body_bytes", 1048576)
	v.SetDefault("rate_limit_per_minute", 60)
	v.SetDefault("token_ttl", 12*time.Hour)
	v.SetDefault("performance_broadcast_interval", time.Minute)
	v.SetDefault("ws_ping_interval", 30*time.Second)
	v.SetDefault("ws_write_timeout", 10*time.Second)
	v.SetDefault("ws_allowed_origins", "")
	v.SetDefault("dispatch_budget", 2*time.Second)
	v.SetDefault("metrics_enabled", true)
}

// Load reads defaults, then the optional config file, then the environment.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *os.PathError
			if !errors.As(err, &pathErr) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	return Config{
		Addr:                         v.GetString("app_addr"),
		DatabaseURL:                  v.GetString("database_url"),
		JWTSecret:                    v.GetString("jwt_secret"),
		Environment:                  v.GetString("app_env"),
		SeedAdminEmail:               v.GetString("seed_admin_email"),
		SeedAdminPassword:            v.GetString("seed_admin_password"),
		RunMigrations:                v.GetBool("run_migrations"),
		RunSeed:                      v.GetBool("run_seed"),
		MigrationsDir:                v.GetString("migrations_dir"),
		MaxBodyBytes:                 v.GetInt64("max_body_bytes"),
		RateLimitPerMinute:           v.GetInt("rate_limit_per_minute"),
		TokenTTL:                     v.GetDuration("token_ttl"),
		PerformanceBroadcastInterval: v.GetDuration("performance_broadcast_interval"),
		WSPingInterval:               v.GetDuration("ws_ping_interval"),
		WSWriteTimeout:               v.GetDuration("ws_write_timeout"),
		WSAllowedOrigins:             splitList(v.GetString("ws_allowed_origins")),
		DispatchBudget:               v.GetDuration("dispatch_budget"),
		MetricsEnabled:               v.GetBool("metrics_enabled"),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.WSPingInterval <= 0 || c.WSWriteTimeout <= 0 {
		return fmt.Errorf("WS_PING_INTERVAL and WS_WRITE_TIMEOUT must be positive")
	}
	if c.PerformanceBroadcastInterval < 0 {
		return fmt.Errorf("PERFORMANCE_BROADCAST_INTERVAL must not be negative")
	}
	return nil
}
