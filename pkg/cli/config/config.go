/* Copyright 2025 Giftwise Authors
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

// Package config reads and writes the Giftwise configuration file
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/consts"
	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultAPIEndpoint is the API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001/api"
	// DefaultRequestTimeout is the default timeout of a remote call, in seconds
	DefaultRequestTimeout = 10
	// DefaultProbeInterval is the default interval between connectivity probes, in seconds
	DefaultProbeInterval = 15
	// DefaultReconcileSchedule is the default schedule of periodic reconciliation
	DefaultReconcileSchedule = "@every 15m"
)

// Config holds giftwise configuration
type Config struct {
	APIEndpoint string `yaml:"apiEndpoint"`
	// RequestTimeout is the timeout of a remote call, in seconds
	RequestTimeout int `yaml:"requestTimeout"`
	// ProbeInterval is the interval between connectivity probes, in seconds
	ProbeInterval int `yaml:"probeInterval"`
	// ReconcileSchedule is a cron spec for periodic reconciliation in watch mode
	ReconcileSchedule string `yaml:"reconcileSchedule"`
}

// Default returns the configuration written on first run
func Default(apiEndpoint string) Config {
	if apiEndpoint == "" {
		apiEndpoint = DefaultAPIEndpoint
	}

	return Config{
		APIEndpoint:       apiEndpoint,
		RequestTimeout:    DefaultRequestTimeout,
		ProbeInterval:     DefaultProbeInterval,
		ReconcileSchedule: DefaultReconcileSchedule,
	}
}

// RequestTimeoutDuration returns the request timeout as a duration
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// ProbeIntervalDuration returns the probe interval as a duration
func (c Config) ProbeIntervalDuration() time.Duration {
	return time.Duration(c.ProbeInterval) * time.Second
}

func (c *Config) fillDefaults() {
	d := Default("")

	if c.APIEndpoint == "" {
		c.APIEndpoint = d.APIEndpoint
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = d.ProbeInterval
	}
	if c.ReconcileSchedule == "" {
		c.ReconcileSchedule = d.ReconcileSchedule
	}
}

// Validate checks that the configuration values are usable
func (c Config) Validate() error {
	if _, err := cron.Parse(c.ReconcileSchedule); err != nil {
		return errors.Wrapf(err, "invalid reconcileSchedule '%s'", c.ReconcileSchedule)
	}

	return nil
}

// GetPath returns the path to the giftwise config file
func GetPath(ctx context.GiftCtx) string {
	return filepath.Join(ctx.Paths.Config, consts.ConfigFilename)
}

// Read reads the config file. Missing values are filled with defaults.
func Read(ctx context.GiftCtx) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(ctx))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	if err := yaml.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	ret.fillDefaults()
	if err := ret.Validate(); err != nil {
		return ret, err
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(ctx context.GiftCtx, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	if err := utils.WriteFileAtomic(GetPath(ctx), b, 0644); err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}
