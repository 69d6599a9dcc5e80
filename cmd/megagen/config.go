package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env carries environment-driven settings, prefixed MEGAGEN_. Command-line
// flags take precedence where both exist.
type Env struct {
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"300s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	Proxy        string        `envconfig:"PROXY"`
}

// loadEnv reads .env if present, then the process environment.
func loadEnv() (*Env, error) {
	_ = godotenv.Load()

	env := &Env{}
	if err := envconfig.Process("megagen", env); err != nil {
		return nil, err
	}
	return env, nil
}
