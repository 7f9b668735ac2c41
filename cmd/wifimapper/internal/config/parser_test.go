package config

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func getShasum(path string) (string, error) {
	hasher := sha256.New()
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func TestParseConfig(t *testing.T) {
	config, err := ReadConfig("testdata/valid-config.json")
	if err != nil {
		t.Fatal(err)
	}
	if config.Iperf.ServerAddress != "10.0.0.7:5201" {
		t.Fatal("not the expected value for ServerAddress")
	}
	if config.Iperf.UDPEnabled != false {
		t.Fatal("not the expected value for UDPEnabled")
	}
	if config.Sampling.MaxAttempts != 2 {
		t.Fatal("not the expected value for MaxAttempts")
	}
	if config.Advanced.DaemonAddress != "127.0.0.1:8878" {
		t.Fatal("not the expected value for DaemonAddress")
	}
	if config.Advanced.SendCrashReports != true {
		t.Fatal("not the expected value for SendCrashReports")
	}
}

func TestParseConfigRejectsNegativeDuration(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"iperf": {"test_duration": -1}}`)); err == nil {
		t.Fatal("expected an error")
	}
}

func TestMeasurementSettings(t *testing.T) {
	config, err := ReadConfig("testdata/valid-config.json")
	if err != nil {
		t.Fatal(err)
	}
	settings := config.MeasurementSettings()
	if settings.IperfServerAddress != "10.0.0.7:5201" {
		t.Fatal("not the expected value for IperfServerAddress")
	}
	if settings.TestDuration != 10 {
		t.Fatal("not the expected value for TestDuration")
	}
	if !settings.TCPEnabled {
		t.Fatal("not the expected value for TCPEnabled")
	}
	if settings.UDPEnabled {
		t.Fatal("not the expected value for UDPEnabled")
	}
	if settings.InterfaceHint != "en0" {
		t.Fatal("not the expected value for InterfaceHint")
	}
	if settings.IperfPath != "/usr/local/bin/iperf3" {
		t.Fatal("not the expected value for IperfPath")
	}
}

func TestUpdateConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	data, err := os.ReadFile("testdata/config-v0.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	origShasum, err := getShasum(configPath)
	if err != nil {
		t.Fatal(err)
	}
	config, err := ReadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := config.MaybeMigrate(); err != nil {
		t.Fatal(err)
	}
	migratedShasum, err := getShasum(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if migratedShasum == origShasum {
		t.Fatal("the config was not migrated")
	}

	newConfig, err := ReadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if newConfig.Version != configVersion {
		t.Fatal("the version was not bumped")
	}
	if newConfig.Iperf.TestDuration != defaultTestDuration {
		t.Fatal("the test duration was not backfilled")
	}
	if newConfig.Sampling.MaxAttempts != 1 {
		t.Fatal("the max attempts were not backfilled")
	}
	if newConfig.Iperf.ServerAddress != "localhost" {
		t.Fatal("the server address was not preserved")
	}
	if !newConfig.Iperf.TCPEnabled {
		t.Fatal("the TCP setting was not preserved")
	}

	// Check that the config file stays the same if it is already
	// at the current version.
	if err := newConfig.MaybeMigrate(); err != nil {
		t.Fatal(err)
	}
	finalShasum, err := getShasum(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if migratedShasum != finalShasum {
		t.Fatal("the config was migrated again")
	}
}
