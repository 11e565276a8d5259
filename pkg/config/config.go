/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads JSON configuration files and runs their validation hooks.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/rs/zerolog"
)

var (
	errInvalidConfigPtr = errors.New("config must be a non-nil pointer")
	errLoadConfigFailed = errors.New("failed to load configuration")
)

// Validator is implemented by configuration structs that can check themselves
// and fill in defaults after loading.
type Validator interface {
	Validate() error
}

// ConfigLoader reads a configuration document into dst.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Config holds the configuration loading dependencies.
type Config struct {
	loader ConfigLoader
	logger logger.Logger
}

// NewConfig initializes a new Config instance with the default file loader.
// If log is nil a stderr logger at warn level is used.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = createBasicLogger()
	}

	return &Config{
		loader: &FileConfigLoader{},
		logger: log,
	}
}

// WithLoader swaps the loader, mostly for tests.
func (c *Config) WithLoader(l ConfigLoader) *Config {
	c.loader = l

	return c
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// Load reads path into cfg without validating it. An empty path leaves cfg
// untouched.
func (c *Config) Load(ctx context.Context, path string, cfg interface{}) error {
	rv := reflect.ValueOf(cfg)
	if cfg == nil || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errInvalidConfigPtr
	}

	if path == "" {
		return nil
	}

	c.logger.Debug().Str("path", path).Msg("Loading configuration")

	if err := c.loader.Load(ctx, path, cfg); err != nil {
		return fmt.Errorf("%w: %w", errLoadConfigFailed, err)
	}

	return nil
}

// LoadAndValidate loads a configuration from path and validates it.
// An empty path skips loading and only runs validation, so callers can rely on
// defaults and command line flags alone.
func (c *Config) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	if err := c.Load(ctx, path, cfg); err != nil {
		return err
	}

	return ValidateConfig(cfg)
}

func createBasicLogger() logger.Logger {
	zlog := zerolog.New(os.Stderr).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Logger()

	return logger.Wrap(zlog)
}
