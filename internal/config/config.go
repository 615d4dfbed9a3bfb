// Package config loads the typed application configuration from the
// environment. Components receive the parts they need at construction time
// instead of reading the process environment ad hoc.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven option the server recognizes.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	Database DatabaseConfig
	JWT      JWTConfig
	Mail     MailConfig
	Storage  StorageConfig

	// PublicBaseURL is the externally reachable base URL used to build
	// verification links, e.g. https://stories-v13.example.
	PublicBaseURL string `env:"APP_PUBLIC_URL" envDefault:"http://localhost:8080"`
}

// DatabaseConfig holds the connection options for the relational store.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASS"`
	Name     string `env:"DB_NAME"`
}

// JWTConfig holds the signing options for session tokens.
type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
}

// MailConfig holds the options of the verification mail delivery chain.
// When neither the provider nor SMTP is configured, registration degrades to
// "account created, no email sent" instead of failing.
type MailConfig struct {
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	From          string `env:"MAIL_FROM"`
	UseTemplate   bool   `env:"MAIL_TEMPLATE" envDefault:"true"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"0"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	SMTPFrom string `env:"SMTP_FROM"`

	// VerifyMX enables a reachability check of registration emails on top of
	// the syntactic validation.
	VerifyMX bool `env:"VERIFY_EMAIL_MX" envDefault:"false"`
}

// StorageConfig holds the S3-compatible object storage options used by the
// branding logo upload.
type StorageConfig struct {
	Endpoint     string `env:"S3_ENDPOINT"`
	Region       string `env:"S3_REGION" envDefault:"auto"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	Bucket       string `env:"S3_BUCKET"`
	AssetBaseURL string `env:"ASSET_BASE_URL"`
}

// Load parses the configuration from the environment and validates the
// options the server cannot run without.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.Password == "" || c.Database.Name == "" {
		return errors.New("database environment variables not set")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET not set")
	}

	return nil
}

// Configured reports whether any mail delivery path is available.
func (m MailConfig) Configured() bool {
	return m.MailgunConfigured() || m.SMTPConfigured()
}

// MailgunConfigured reports whether the provider path is available.
func (m MailConfig) MailgunConfigured() bool {
	return m.MailgunAPIKey != "" && m.MailgunDomain != "" && m.From != ""
}

// SMTPConfigured reports whether the SMTP fallback path is available.
func (m MailConfig) SMTPConfigured() bool {
	return m.SMTPHost != "" && m.SMTPPort != 0 && m.SMTPFrom != ""
}

// Configured reports whether object storage is available.
func (s StorageConfig) Configured() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.AccessKey != "" && s.SecretKey != "" && s.AssetBaseURL != ""
}
