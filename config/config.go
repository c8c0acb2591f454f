package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App          AppConfig          `yaml:"app"`
	HTTP         HTTPConfig         `yaml:"http"`
	GRPC         GRPCConfig         `yaml:"grpc"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Quotation    QuotationConfig    `yaml:"quotation"`
	Flights      FlightsConfig      `yaml:"flights"`
	Availability AvailabilityConfig `yaml:"availability"`
	Currency     CurrencyConfig     `yaml:"currency"`
	Auth         AuthConfig         `yaml:"auth"`
	LLM          LLMConfig          `yaml:"llm"`
}

type AppConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the postgres:// form expected by the migration driver.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (d DatabaseConfig) InMemory() bool {
	return d.Driver == "memory"
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	QuotationTopic     string   `yaml:"quotation_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type QuotationConfig struct {
	DefaultMarginPercent float64 `yaml:"default_margin_percent"`
	MinMarginPercent     float64 `yaml:"min_margin_percent"`
	MaxMarginPercent     float64 `yaml:"max_margin_percent"`
	DefaultValidityDays  int     `yaml:"default_validity_days"`
	DefaultTerms         string  `yaml:"default_terms"`
}

type FlightsConfig struct {
	CacheTTLSeconds   int `yaml:"cache_ttl_seconds"`
	AssignLockSeconds int `yaml:"assign_lock_seconds"`
}

func (f FlightsConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

func (f FlightsConfig) AssignLockTTL() time.Duration {
	return time.Duration(f.AssignLockSeconds) * time.Second
}

type AvailabilityConfig struct {
	RefreshSeconds     int    `yaml:"refresh_seconds"`
	DefaultOrigin      string `yaml:"default_origin"`
	DefaultDestination string `yaml:"default_destination"`
	Seed               uint64 `yaml:"seed"`
}

func (a AvailabilityConfig) RefreshInterval() time.Duration {
	return time.Duration(a.RefreshSeconds) * time.Second
}

type CurrencyConfig struct {
	HKDPerUSD float64 `yaml:"hkd_per_usd"`
}

type AuthConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Issuer            string `yaml:"issuer"`
	Secret            string `yaml:"secret"`
	ExpirationMinutes int    `yaml:"expiration_minutes"`
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// secrets are taken from the environment and override anything in the YAML file.
type secrets struct {
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	RedisPassword    string `envconfig:"REDIS_PASSWORD"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	LLMAPIKey        string `envconfig:"LLM_API_KEY"`
}

const EnvPrefix = "CARGOQUOTE"

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment secrets and fills defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var env secrets
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.DatabasePassword != "" {
		cfg.Database.Password = env.DatabasePassword
	}
	if env.RedisPassword != "" {
		cfg.Redis.Password = env.RedisPassword
	}
	if env.JWTSecret != "" {
		cfg.Auth.Secret = env.JWTSecret
	}
	if env.LLMAPIKey != "" {
		cfg.LLM.APIKey = env.LLMAPIKey
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "cargoquote"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	q := &c.Quotation
	if q.DefaultMarginPercent == 0 {
		q.DefaultMarginPercent = 15
	}
	if q.MinMarginPercent == 0 {
		q.MinMarginPercent = 5
	}
	if q.MaxMarginPercent == 0 {
		q.MaxMarginPercent = 50
	}
	if q.DefaultValidityDays == 0 {
		q.DefaultValidityDays = 14
	}
	if q.DefaultTerms == "" {
		q.DefaultTerms = "Standard terms and conditions apply. Quote valid for 14 days."
	}
	if c.Flights.CacheTTLSeconds == 0 {
		c.Flights.CacheTTLSeconds = 10
	}
	if c.Flights.AssignLockSeconds == 0 {
		c.Flights.AssignLockSeconds = 30
	}
	if c.Availability.RefreshSeconds == 0 {
		c.Availability.RefreshSeconds = 15
	}
	if c.Availability.DefaultOrigin == "" {
		c.Availability.DefaultOrigin = "HKG"
	}
	if c.Availability.DefaultDestination == "" {
		c.Availability.DefaultDestination = "Kowloon Distribution Center"
	}
	if c.Currency.HKDPerUSD == 0 {
		c.Currency.HKDPerUSD = 7.8
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "cargoquote"
	}
	if c.Auth.ExpirationMinutes == 0 {
		c.Auth.ExpirationMinutes = 480
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
}

func (c *Config) validate() error {
	q := c.Quotation
	if q.MinMarginPercent > q.MaxMarginPercent {
		return fmt.Errorf("quotation margin bounds inverted: %v > %v", q.MinMarginPercent, q.MaxMarginPercent)
	}
	if q.DefaultMarginPercent < q.MinMarginPercent || q.DefaultMarginPercent > q.MaxMarginPercent {
		return fmt.Errorf("default margin %v outside [%v, %v]", q.DefaultMarginPercent, q.MinMarginPercent, q.MaxMarginPercent)
	}
	if q.DefaultValidityDays < 1 {
		return fmt.Errorf("default validity days must be at least 1")
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth is enabled but no jwt secret is configured")
	}
	return nil
}
