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

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

// zlogger implements Logger on top of a zerolog.Logger value without global state.
type zlogger struct {
	logger zerolog.Logger
}

// New builds a Logger from config. A nil config falls back to DefaultConfig.
func New(config *Config) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var output io.Writer = os.Stdout
	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zlogger{logger: zlog}, nil
}

// Wrap adapts an existing zerolog.Logger.
func Wrap(l zerolog.Logger) Logger {
	return &zlogger{logger: l}
}

func (l *zlogger) Trace() *zerolog.Event { return l.logger.Trace() }
func (l *zlogger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *zlogger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *zlogger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *zlogger) Error() *zerolog.Event { return l.logger.Error() }
func (l *zlogger) Fatal() *zerolog.Event { return l.logger.Fatal() }
func (l *zlogger) Panic() *zerolog.Event { return l.logger.Panic() }
func (l *zlogger) With() zerolog.Context { return l.logger.With() }

func (l *zlogger) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

func (l *zlogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (l *zlogger) SetLevel(level zerolog.Level) {
	l.logger = l.logger.Level(level)
}

func (l *zlogger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}
