package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// EnvPrefix prefixes every application environment variable.
const EnvPrefix = "TRIBGO"

// AppConfig holds runtime settings for the command line tools.
type AppConfig struct {
	FiscalParams string `envconfig:"FISCAL_PARAMS" default:"configs/fiscal_params.yaml"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"24h"`

	NegligibleDifference decimal.Decimal `envconfig:"NEGLIGIBLE_DIFFERENCE" default:"100000"`
	GrowthRate           decimal.Decimal `envconfig:"GROWTH_RATE" default:"0.05"`

	// DefaultYear is used when no --year flag is given; zero selects the latest table.
	DefaultYear int `envconfig:"DEFAULT_YEAR" default:"0"`
}

// LoadAppConfig loads optional dotenv files, then reads TRIBGO_* variables.
// Variables already present in the environment win over dotenv values.
func LoadAppConfig(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg AppConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.LogFormat)
	}
	if c.CacheTTL < 0 {
		return errors.New("cache ttl must not be negative")
	}
	if c.NegligibleDifference.IsNegative() {
		return errors.New("negligible difference must not be negative")
	}
	if c.GrowthRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return errors.New("growth rate must be greater than -1")
	}
	if c.DefaultYear < 0 {
		return errors.New("default year must not be negative")
	}
	return nil
}

// CacheEnabled reports whether a Redis address is configured.
func (c *AppConfig) CacheEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
