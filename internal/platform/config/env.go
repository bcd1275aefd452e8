// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from the process environment into target.
func ParseEnv(target any) error {
	return ParseEnvWith(target, env.Options{})
}

// ParseEnvWith loads configuration using explicit parser options. Tests use
// Options.Environment to avoid mutating the process environment.
func ParseEnvWith(target any, opts env.Options) error {
	if target == nil {
		return errors.New("config target is required")
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
