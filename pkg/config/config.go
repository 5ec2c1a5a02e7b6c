package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Inventory InventoryConfig
	Password  PasswordConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOCKPOS_APP_ENV" default:"prod"`
	ListenAddr   string   `envconfig:"STOCKPOS_LISTEN_ADDR" default:"127.0.0.1:7421"`
	LogLevel     string   `envconfig:"STOCKPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STOCKPOS_LOG_WARN_STACK" default:"false"`
	// CORSOrigins lists the local client origins allowed to call the facade.
	CORSOrigins  []string `envconfig:"STOCKPOS_CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the embedded sqlite store. MaxOpenConns stays at 1 so every
// write is serialized through a single connection.
type DBConfig struct {
	Path         string        `envconfig:"STOCKPOS_DB_PATH" default:"data/inventory.db"`
	BusyTimeout  time.Duration `envconfig:"STOCKPOS_DB_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns int           `envconfig:"STOCKPOS_DB_MAX_OPEN_CONNS" default:"1"`
	AutoMigrate  bool          `envconfig:"STOCKPOS_DB_AUTO_MIGRATE" default:"true"`
}

// DSN renders the sqlite connection string with foreign keys enforced.
func (db DBConfig) DSN() string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	if db.BusyTimeout > 0 {
		q.Set("_busy_timeout", fmt.Sprintf("%d", db.BusyTimeout.Milliseconds()))
	}
	return "file:" + filepath.ToSlash(db.Path) + "?" + q.Encode()
}

type InventoryConfig struct {
	LowStockThreshold int  `envconfig:"STOCKPOS_LOW_STOCK_THRESHOLD" default:"10"`
	DefaultMinStock   int  `envconfig:"STOCKPOS_DEFAULT_MIN_STOCK" default:"0"`
	SeedSampleItems   bool `envconfig:"STOCKPOS_SEED_SAMPLE_ITEMS" default:"true"`
}

type PasswordConfig struct {
	Iterations int `envconfig:"STOCKPOS_PBKDF2_ITERATIONS" default:"100000"`
	SaltLen    int `envconfig:"STOCKPOS_PBKDF2_SALT_LEN" default:"32"`
	KeyLen     int `envconfig:"STOCKPOS_PBKDF2_KEY_LEN" default:"64"`
}

// JWTConfig signs facade session tokens. An empty secret is replaced with a
// random per-process secret at boot.
type JWTConfig struct {
	Secret            string `envconfig:"STOCKPOS_JWT_SECRET"`
	Issuer            string `envconfig:"STOCKPOS_JWT_ISSUER" default:"stockpos"`
	ExpirationMinutes int    `envconfig:"STOCKPOS_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthConfig struct {
	AdminUsername string `envconfig:"STOCKPOS_ADMIN_USERNAME" default:"admin"`
	AdminEmail    string `envconfig:"STOCKPOS_ADMIN_EMAIL" default:"admin@stockpos.local"`
	AdminPassword string `envconfig:"STOCKPOS_ADMIN_PASSWORD" default:"changeme123"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"STOCKPOS_METRICS_ENABLED" default:"true"`
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("%s is required", EnvDBPath)
	}
	if c.DB.MaxOpenConns != 1 {
		return fmt.Errorf("STOCKPOS_DB_MAX_OPEN_CONNS must be 1 (single writer), got %d", c.DB.MaxOpenConns)
	}
	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("%s must not be negative", EnvLowStockDefault)
	}
	if c.Inventory.DefaultMinStock < 0 {
		return fmt.Errorf("%s must not be negative", EnvDefaultMinStock)
	}
	if c.Password.Iterations <= 0 {
		return fmt.Errorf("%s must be positive", EnvPBKDF2Iter)
	}
	if c.JWT.ExpirationMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvJWTExpMins)
	}
	return nil
}
