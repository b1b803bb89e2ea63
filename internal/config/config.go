// Copyright 2026 The multipass Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads multipass settings from flags, MULTIPASS_* environment
// variables and an optional multipass.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ubuntu/decorate"
)

// Name is used for the config file name and the environment prefix.
const Name = "multipass"

// Config holds all settings.
type Config struct {
	Verbosity int          `mapstructure:"verbosity"`
	Signer    SignerConfig `mapstructure:"signer"`
	Serve     ServeConfig  `mapstructure:"serve"`
}

// SignerConfig describes the remote pass signing service. An empty URL
// selects the dry-run signer.
type SignerConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServeConfig holds the web UI settings.
type ServeConfig struct {
	Port       int           `mapstructure:"port"`
	SessionTTL time.Duration `mapstructure:"session-ttl"`
}

// SetDefaults registers the default value of every key. Keys must be known to
// viper for environment variables to be picked up on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbosity", 0)
	v.SetDefault("signer.url", "")
	v.SetDefault("signer.token", "")
	v.SetDefault("signer.timeout", 30*time.Second)
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.session-ttl", 15*time.Minute)
}

// Init wires config file discovery and environment variables into v. The
// --config flag, when set on cmd, selects an explicit file.
func Init(cmd *cobra.Command, v *viper.Viper) (err error) {
	defer decorate.OnError(&err, "loading configuration")

	SetDefaults(v)

	if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
		v.AddConfigPath("/etc/" + Name)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("invalid configuration file: %w", err)
		}
		slog.Debug("No configuration file, using defaults, environment and flags")
	} else {
		slog.Info("Using configuration file", "file", v.ConfigFileUsed())
	}

	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return nil
}

// Load decodes the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if c.Signer.Timeout <= 0 {
		return Config{}, fmt.Errorf("signer.timeout must be positive, got %s", c.Signer.Timeout)
	}
	if c.Serve.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("serve.session-ttl must be positive, got %s", c.Serve.SessionTTL)
	}
	return c, nil
}

// SetVerbosity maps the -v count to the default slog level: warnings only,
// info with -v, debug with -vv.
func SetVerbosity(level int) {
	switch level {
	case 0:
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case 1:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	default:
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}
