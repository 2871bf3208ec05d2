package internal

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Accounts = []AccountConfig{
		{Email: "ada@example.com", DisplayName: "Ada", Token: "tok-ada-12345"},
	}
	return cfg
}

func TestConfig_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config should pass: %v", err)
	}
}

func TestConfig_NoAccounts(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("config without accounts should fail")
	}
	if !strings.Contains(err.Error(), "at least one account") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_AccountMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Accounts[0].Token = ""
	if cfg.Validate() == nil {
		t.Fatal("account without token should fail")
	}
}

func TestConfig_ShortToken(t *testing.T) {
	cfg := validConfig()
	cfg.Accounts[0].Token = "short"
	if cfg.Validate() == nil {
		t.Fatal("token under 8 characters should fail")
	}
}

func TestConfig_AccountMissingEmail(t *testing.T) {
	cfg := validConfig()
	cfg.Accounts[0].Email = ""
	if cfg.Validate() == nil {
		t.Fatal("account without email should fail")
	}
}

func TestConfig_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.App.HTTP.Port = 0
	if cfg.Validate() == nil {
		t.Fatal("zero port should fail")
	}
	cfg.App.HTTP.Port = 70000
	if cfg.Validate() == nil {
		t.Fatal("out-of-range port should fail")
	}
}

func TestConfig_MissingSQLitePath(t *testing.T) {
	cfg := validConfig()
	cfg.SQLite.Path = ""
	if cfg.Validate() == nil {
		t.Fatal("missing sqlite path should fail")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9000}
	if got := cfg.Address(); got != ":9000" {
		t.Errorf("address = %q, want :9000", got)
	}
}
