// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App        AppConfig        `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Mongo      MongoConfig      `koanf:"mongo"`
	Redis      RedisConfig      `koanf:"redis"`
	Firebase   FirebaseConfig   `koanf:"firebase"`
	Stripe     StripeConfig     `koanf:"stripe"`
	Site       SiteConfig       `koanf:"site"`
	Pagination PaginationConfig `koanf:"pagination"`
	Cache      CacheConfig      `koanf:"cache"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	CORS       CORSConfig       `koanf:"cors"`
	Log        LogConfig        `koanf:"log"`
	Otel       OtelConfig       `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
}

// MongoConfig accepts either a full URI or the Atlas triple of
// user, password and cluster host.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Cluster        string        `koanf:"cluster"`
	AppName        string        `koanf:"app_name"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type FirebaseConfig struct {
	ProjectID  string        `koanf:"project_id"`
	ServiceKey string        `koanf:"service_key"`
	JWKSURL    string        `koanf:"jwks_url"`
	KeysTTL    time.Duration `koanf:"keys_ttl"`
}

type StripeConfig struct {
	SecretKey     string `koanf:"secret_key"`
	WebhookSecret string `koanf:"webhook_secret"`
	Currency      string `koanf:"currency"`
}

type SiteConfig struct {
	Domain string `koanf:"domain"`
}

type PaginationConfig struct {
	MaxLimit int `koanf:"max_limit"`
}

type CacheConfig struct {
	Prefix   string        `koanf:"prefix"`
	StatsTTL time.Duration `koanf:"stats_ttl"`
}

type RateLimitConfig struct {
	Requests         int `koanf:"requests"`
	Burst            int `koanf:"burst"`
	CheckoutRequests int `koanf:"checkout_requests"`
	ReportRequests   int `koanf:"report_requests"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath, ".env")
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func load(configPath, dotenvPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		err := k.Load(file.Provider(configPath), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if dotenvPath != "" {
		err := godotenv.Load(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "LifeLog",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             3000,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.request_timeout":  "20s",

		"mongo.app_name":        "Cluster0",
		"mongo.database":        "life_log",
		"mongo.connect_timeout": "10s",
		"mongo.max_pool_size":   50,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,

		"firebase.jwks_url": "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com",
		"firebase.keys_ttl": "1h",

		"stripe.currency": "usd",

		"pagination.max_limit": 100,

		"cache.prefix":    "lifelog",
		"cache.stats_ttl": "1m",

		"rate_limit.requests":          120,
		"rate_limit.burst":             30,
		"rate_limit.checkout_requests": 10,
		"rate_limit.report_requests":   20,

		"cors.allowed_origins": []string{"http://localhost:5173"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": false,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "lifelog-server",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"MONGODB_URI":                 "mongo.uri",
	"DB_USER":                     "mongo.user",
	"DB_PASS":                     "mongo.password",
	"MONGODB_CLUSTER":             "mongo.cluster",
	"MONGODB_APP_NAME":            "mongo.app_name",
	"MONGODB_DATABASE":            "mongo.database",
	"REDIS_URL":                   "redis.url",
	"FB_SERVICE_KEY":              "firebase.service_key",
	"FIREBASE_PROJECT_ID":         "firebase.project_id",
	"STRIPE_SECRET":               "stripe.secret_key",
	"STRIPE_WEBHOOK_SECRET":       "stripe.webhook_secret",
	"STRIPE_CURRENCY":             "stripe.currency",
	"SITE_DOMAIN":                 "site.domain",
	"PAGINATION_MAX_LIMIT":        "pagination.max_limit",
	"CACHE_STATS_TTL":             "cache.stats_ttl",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Mongo.URI == "" {
		if c.Mongo.User == "" || c.Mongo.Password == "" {
			return fmt.Errorf("MONGODB_URI or DB_USER and DB_PASS are required")
		}
		if c.Mongo.Cluster == "" {
			return fmt.Errorf("MONGODB_CLUSTER is required when MONGODB_URI is not set")
		}
	}

	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Firebase.ProjectID == "" && c.Firebase.ServiceKey == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID or FB_SERVICE_KEY is required")
	}

	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET is required")
	}

	if c.Site.Domain == "" {
		return fmt.Errorf("SITE_DOMAIN is required")
	}

	if c.Pagination.MaxLimit <= 0 {
		return fmt.Errorf("pagination.max_limit must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ConnectionURI builds the Atlas SRV URI when no explicit URI is configured.
func (m *MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}

	return fmt.Sprintf(
		"mongodb+srv://%s:%s@%s/?appName=%s",
		url.QueryEscape(m.User),
		url.QueryEscape(m.Password),
		m.Cluster,
		url.QueryEscape(m.AppName),
	)
}

// CheckoutSuccessURL keeps the literal {CHECKOUT_SESSION_ID} placeholder,
// which Stripe substitutes on redirect.
func (s *SiteConfig) CheckoutSuccessURL() string {
	return strings.TrimRight(s.Domain, "/") +
		"/payment?session_id={CHECKOUT_SESSION_ID}"
}

func (s *SiteConfig) CheckoutCancelURL() string {
	return strings.TrimRight(s.Domain, "/") + "/payment-cancelled"
}
