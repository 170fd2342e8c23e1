// Package config loads application configuration from environment variables.
//
// WHY A CONFIG STRUCT?
// The app previously scattered os.Getenv calls across main. Parsing everything
// into one struct at startup means:
// 1. Every knob is documented in one place (this file)
// 2. Defaults live next to the variable name, not buried in call sites
// 3. Handlers and services receive plain values, never touch the environment
//
// github.com/caarlos0/env parses the struct tags below: `env:"NAME"` names the
// variable, `envDefault:"..."` supplies the fallback when it's unset.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-sourced setting the server needs.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// SecretKey signs session cookies. The "dev" default exists only so the
	// app boots during local development — main logs a warning when it's used.
	SecretKey string `env:"SECRET_KEY" envDefault:"dev"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	// GoogleCallbackURL must match the redirect URI registered with Google.
	// Empty means "derive from Port" — see CallbackURL().
	GoogleCallbackURL string `env:"GOOGLE_CALLBACK_URL"`

	// PubNub keys are passed through to the rendered page for the browser's
	// real-time channel. The server itself never talks to PubNub.
	PubNubPublishKey   string `env:"PUBNUB_PUBLISH_KEY"`
	PubNubSubscribeKey string `env:"PUBNUB_SUBSCRIBE_KEY"`

	DBPath string `env:"DB_PATH" envDefault:"data/plsleave.db"`

	// OAuthTimeout bounds the token exchange + userinfo fetch during the
	// callback, so a slow identity provider cannot hold a request forever.
	OAuthTimeout time.Duration `env:"OAUTH_TIMEOUT" envDefault:"10s"`

	// DevLogin enables the /dev-login stub route that issues a session for a
	// fixed local user without going through Google. Never enable in production.
	DevLogin bool `env:"DEV_LOGIN" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}

// CallbackURL returns the OAuth redirect URI, deriving the local default
// when GOOGLE_CALLBACK_URL is unset.
func (c Config) CallbackURL() string {
	if c.GoogleCallbackURL != "" {
		return c.GoogleCallbackURL
	}
	return fmt.Sprintf("http://localhost:%d/auth/callback", c.Port)
}

// IsDevSecret reports whether the placeholder signing key is in use.
func (c Config) IsDevSecret() bool {
	return c.SecretKey == "dev"
}
