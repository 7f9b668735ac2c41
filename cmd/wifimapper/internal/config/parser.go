// Package config defines the wifimapper configuration file.
package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/wifimap/survey-cli/internal/hujsonx"
	"github.com/wifimap/survey-cli/internal/model"
)

// configVersion is the current version of the config file layout.
const configVersion = 1

// defaultTestDuration is the test duration backfilled by migrations.
const defaultTestDuration = 10

// ReadConfig reads the configuration from the path.
func ReadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	c.path = path
	return c, nil
}

// ParseConfig returns the config parsed from JSON bytes. The config
// file may contain comments and trailing commas.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := hujsonx.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}
	return &c, nil
}

// Config is the wifimapper configuration.
type Config struct {
	// Private settings
	Comment string `json:"_"`
	Version int64  `json:"_version"`

	Iperf    Iperf    `json:"iperf"`
	Sampling Sampling `json:"sampling"`
	Advanced Advanced `json:"advanced"`

	mutex sync.Mutex
	path  string
}

// Write the config file in json to the path.
func (c *Config) Write() error {
	c.Lock()
	defer c.Unlock()
	if c.path == "" {
		return errors.New("config file path is empty")
	}
	configJSON, _ := json.MarshalIndent(c, "", "  ")
	if err := os.WriteFile(c.path, configJSON, 0644); err != nil {
		return errors.Wrap(err, "writing config JSON")
	}
	return nil
}

// Lock acquires the write mutex.
func (c *Config) Lock() {
	c.mutex.Lock()
}

// Unlock releases the write mutex.
func (c *Config) Unlock() {
	c.mutex.Unlock()
}

// Validate the config file.
func (c *Config) Validate() error {
	if c.Iperf.TestDuration < 0 {
		return errors.New("iperf.test_duration is negative")
	}
	if c.Sampling.MaxAttempts < 0 {
		return errors.New("sampling.max_attempts is negative")
	}
	return nil
}

// MaybeMigrate upgrades the config file to the current version. It
// is a no-op when the file is already up to date.
func (c *Config) MaybeMigrate() error {
	if c.Version >= configVersion {
		return nil
	}
	log.Debugf("config: upgrading from version %d to %d", c.Version, configVersion)
	c.Lock()
	c.Version = configVersion
	if c.Iperf.ServerAddress == "" {
		c.Iperf.ServerAddress = model.IperfServerDisabled
	}
	if c.Iperf.TestDuration <= 0 {
		c.Iperf.TestDuration = defaultTestDuration
	}
	if c.Sampling.MaxAttempts < 1 {
		c.Sampling.MaxAttempts = 1
	}
	c.Unlock()
	return c.Write()
}

// MeasurementSettings maps the configuration onto the settings of a
// survey run.
func (c *Config) MeasurementSettings() *model.MeasurementSettings {
	c.Lock()
	defer c.Unlock()
	return &model.MeasurementSettings{
		IperfServerAddress: c.Iperf.ServerAddress,
		TestDuration:       c.Iperf.TestDuration,
		TCPEnabled:         c.Iperf.TCPEnabled,
		UDPEnabled:         c.Iperf.UDPEnabled,
		InterfaceHint:      c.Sampling.InterfaceHint,
		SudoPassword:       c.Sampling.SudoPassword,
		IperfPath:          c.Iperf.BinaryPath,
	}
}
