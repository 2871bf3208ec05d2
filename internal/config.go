package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Uploads  UploadsConfig     `yaml:"uploads"`
	Accounts []AccountConfig   `yaml:"accounts"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Uploads.Validate(); err != nil {
		return err
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("accounts: at least one account is required")
	}
	for i := range c.Accounts {
		if err := c.Accounts[i].Validate(); err != nil {
			return fmt.Errorf("accounts[%d]: %w", i, err)
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// UploadsConfig holds the path to the uploads directory (avatars).
type UploadsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AccountConfig declares one account bootstrapped at startup. The
// token is the account's Bearer credential; accounts are matched by
// email, so restarting with a changed token rotates the credential.
type AccountConfig struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Token       string `yaml:"token"`
}

// Validate validates the account configuration.
func (c *AccountConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Email, validation.Required),
		validation.Field(&c.Token, validation.Required, validation.Length(8, 0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./othala.db",
		},
		Uploads: UploadsConfig{
			Path: "./uploads",
		},
	}
}
