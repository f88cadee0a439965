package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DevJWTSecret signs tokens when nothing else is configured. Release mode refuses it.
const DevJWTSecret = "foodies_dev_secret_change_me"

type Config struct {
	Port         string `yaml:"port"`
	GinMode      string `yaml:"gin_mode"`
	JWTSecret    string `yaml:"jwt_secret"`
	DatabasePath string `yaml:"database_path"`

	// CoreStore selects where carts, orders and the shipping policy live: sql or mongo.
	// Users, catalog and content always stay in the SQL database.
	CoreStore     string `yaml:"core_store"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	// RedisAddr empty means the in-process notification queue.
	RedisAddr string `yaml:"redis_addr"`

	MailProvider   string `yaml:"mail_provider"`
	PostmarkToken  string `yaml:"postmark_token"`
	SendgridAPIKey string `yaml:"sendgrid_api_key"`
	MailFrom       string `yaml:"mail_from"`

	TracingExporter string `yaml:"tracing_exporter"`
	OTLPEndpoint    string `yaml:"otlp_endpoint"`

	StrictTransitions bool   `yaml:"strict_transitions"`
	LogLevel          string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Port:            "8080",
		GinMode:         "debug",
		JWTSecret:       DevJWTSecret,
		DatabasePath:    "foodies.db",
		CoreStore:       "sql",
		MongoDatabase:   "foodies",
		MailProvider:    "log",
		MailFrom:        "orders@foodies.local",
		TracingExporter: "none",
		OTLPEndpoint:    "localhost:4317",
		LogLevel:        "info",
	}
}

// Load layers defaults, .env, an optional YAML file and the process environment,
// later sources winning. path falls back to $FOODIES_CONFIG.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("FOODIES_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.CoreStore = getEnv("CORE_STORE", c.CoreStore)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.MailProvider = getEnv("MAIL_PROVIDER", c.MailProvider)
	c.PostmarkToken = getEnv("POSTMARK_TOKEN", c.PostmarkToken)
	c.SendgridAPIKey = getEnv("SENDGRID_API_KEY", c.SendgridAPIKey)
	c.MailFrom = getEnv("MAIL_FROM", c.MailFrom)
	c.TracingExporter = getEnv("TRACING_EXPORTER", c.TracingExporter)
	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("STRICT_TRANSITIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_TRANSITIONS: %w", err)
		}
		c.StrictTransitions = b
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// Validate checks enum values and the settings each choice depends on.
func (c *Config) Validate() error {
	var errs []error
	if err := oneOf("core_store", c.CoreStore, "sql", "mongo"); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("mail_provider", c.MailProvider, "log", "postmark", "sendgrid"); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("tracing_exporter", c.TracingExporter, "none", "stdout", "otlp"); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("gin_mode", c.GinMode, "debug", "release", "test"); err != nil {
		errs = append(errs, err)
	}
	if c.CoreStore == "mongo" && c.MongoURI == "" {
		errs = append(errs, errors.New("mongo_uri is required when core_store is mongo"))
	}
	if c.MailProvider == "postmark" && c.PostmarkToken == "" {
		errs = append(errs, errors.New("postmark_token is required for the postmark mailer"))
	}
	if c.MailProvider == "sendgrid" && c.SendgridAPIKey == "" {
		errs = append(errs, errors.New("sendgrid_api_key is required for the sendgrid mailer"))
	}
	if c.GinMode == "release" && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		errs = append(errs, errors.New("jwt_secret must be set in release mode"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string { return ":" + c.Port }
