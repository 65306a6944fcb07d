package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	Redis      RedisConfig
	Backend    BackendConfig
	Catalog    CatalogConfig
	Media      MediaConfig
	Submission SubmissionConfig
	Sessions   SessionsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Media.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"CONFIGURATOR_APP_ENV" required:"true"`
	Port           string   `envconfig:"CONFIGURATOR_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"CONFIGURATOR_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"CONFIGURATOR_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"CONFIGURATOR_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RedisConfig is optional: an empty URL and address disables the option cache.
type RedisConfig struct {
	URL          string        `envconfig:"CONFIGURATOR_REDIS_URL"`
	Address      string        `envconfig:"CONFIGURATOR_REDIS_ADDR"`
	Password     string        `envconfig:"CONFIGURATOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONFIGURATOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONFIGURATOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONFIGURATOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONFIGURATOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONFIGURATOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONFIGURATOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// BackendConfig points at the catalog/product REST API the drafts are submitted to.
type BackendConfig struct {
	BaseURL       string        `envconfig:"CONFIGURATOR_BACKEND_BASE_URL" required:"true"`
	Token         string        `envconfig:"CONFIGURATOR_BACKEND_TOKEN"`
	Timeout       time.Duration `envconfig:"CONFIGURATOR_BACKEND_TIMEOUT" default:"30s"`
	MultiDiscount bool          `envconfig:"CONFIGURATOR_BACKEND_MULTI_DISCOUNT" default:"false"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(b.BaseURL))
	if err != nil {
		return fmt.Errorf("%s invalid: %w", EnvBackendBaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvBackendBaseURL)
	}
	return nil
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"CONFIGURATOR_CATALOG_CACHE_TTL" default:"10m"`
}

type MediaConfig struct {
	MaxUploadMB     int    `envconfig:"CONFIGURATOR_MAX_UPLOAD_MB" default:"10"`
	DigestAlgorithm string `envconfig:"CONFIGURATOR_MEDIA_DIGEST" default:"sha256"`
}

// MaxUploadBytes converts the configured megabyte limit.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) * 1024 * 1024
}

func (m MediaConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(m.DigestAlgorithm)) {
	case DigestSHA256, DigestBlake2b:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s", EnvMediaDigest, DigestSHA256, DigestBlake2b)
	}
}

type SubmissionConfig struct {
	EncodeConcurrency int           `envconfig:"CONFIGURATOR_ENCODE_CONCURRENCY" default:"4"`
	Timeout           time.Duration `envconfig:"CONFIGURATOR_SUBMIT_TIMEOUT" default:"60s"`
}

type SessionsConfig struct {
	IdleTTL       time.Duration `envconfig:"CONFIGURATOR_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"CONFIGURATOR_SESSION_SWEEP_INTERVAL" default:"5m"`
}
