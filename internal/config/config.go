// Copyright 2025 Blink Labs Software
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


package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/hal-elements/address"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "hal-elements.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

const (
	DefaultNetwork = "elementsregtest"
	DefaultOutput  = OutputJSON
)

const (
	userConfigDir    = ".hal-elements"
	systemConfigPath = "/etc/hal-elements/config.yaml"
	configFileName   = "config.yaml"
)

type Config struct {
	Network     string `yaml:"network"`
	Output      string `yaml:"output"`
	MetricsFile string `yaml:"metricsFile" split_words:"true"`
	// Batch decode concurrency (0 = GOMAXPROCS)
	BatchWorkers int `yaml:"batchWorkers" split_words:"true"`
}

func defaultConfig() *Config {
	return &Config{
		Network: DefaultNetwork,
		Output:  DefaultOutput,
	}
}

// findConfigFile returns the first config file present in the user and
// system locations, or an empty string
func findConfigFile() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, userConfigDir, configFileName)
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	if _, err := os.Stat(systemConfigPath); err == nil {
		return systemConfigPath
	}
	return ""
}

// LoadConfig builds the config from defaults, the YAML config file and the
// environment, in that order. An explicit configFile must exist.
func LoadConfig(configFile string) (*Config, error) {
	cfg := defaultConfig()
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process("hal_elements", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := address.NetworkByName(c.Network); err != nil {
		return err
	}
	switch c.Output {
	case OutputJSON, OutputYAML:
	default:
		return fmt.Errorf(
			"invalid output: %q (must be 'json' or 'yaml')",
			c.Output,
		)
	}
	if c.BatchWorkers < 0 {
		return errors.New("batchWorkers must not be negative")
	}
	return nil
}

// NetworkParams returns the address network selected by the config
func (c *Config) NetworkParams() (*address.Network, error) {
	return address.NetworkByName(c.Network)
}
