package config

import (
	"strings"
	"testing"
)

func TestResolvedAuthModeExplicit(t *testing.T) {
	cfg := &Config{Env: "production", AuthMode: "development"}
	if got := cfg.ResolvedAuthMode(); got != "development" {
		t.Errorf("expected explicit AUTH_MODE to win, got %q", got)
	}
}

func TestResolvedAuthModeInferred(t *testing.T) {
	cases := []struct {
		env  string
		want string
	}{
		{"development", "development"},
		{"production", "jwt"},
		{"staging", "jwt"},
	}
	for _, tc := range cases {
		cfg := &Config{Env: tc.env}
		if got := cfg.ResolvedAuthMode(); got != tc.want {
			t.Errorf("ENV=%s: expected mode %q, got %q", tc.env, tc.want, got)
		}
	}
}

func TestValidateRequiresSecretInJWTMode(t *testing.T) {
	cfg := &Config{Env: "production"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when AUTH_SECRET is missing in jwt mode")
	}
	if !strings.Contains(err.Error(), "AUTH_SECRET") {
		t.Errorf("expected AUTH_SECRET error, got: %v", err)
	}
}

func TestValidateRejectsShortSecret(t *testing.T) {
	cfg := &Config{Env: "production", AuthSecret: "short"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short AUTH_SECRET")
	}
}

func TestValidateAcceptsDevelopmentWithoutSecret(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := &Config{Env: "production", AuthMode: "oauth"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown AUTH_MODE")
	}
}

func TestValidateAcceptsProperJWTConfig(t *testing.T) {
	cfg := &Config{
		Env:        "production",
		AuthSecret: strings.Repeat("s", 32),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
