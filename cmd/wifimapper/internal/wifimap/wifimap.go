// Package wifimap contains the wifimapper CLI context.
package wifimap

import (
	"context"
	_ "embed" // because we embed a file
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/upper/db/v4"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/config"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/crashreport"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/utils"
	"github.com/wifimap/survey-cli/internal/database"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/survey"
	"github.com/wifimap/survey-cli/internal/wifi"
)

// DefaultSoftwareName is the default software name.
const DefaultSoftwareName = "wifimapper"

// WifiMap contains the wifimapper CLI context.
type WifiMap struct {
	config  *config.Config
	sess    db.Session
	store   model.SurveyStore
	isBatch bool

	home       string
	dbPath     string
	configPath string
}

// NewWifiMap creates a new wifimapper context instance.
func NewWifiMap(configPath string, homePath string) *WifiMap {
	return &WifiMap{
		config:     &config.Config{},
		configPath: configPath,
		home:       homePath,
	}
}

// SetIsBatch sets the value of isBatch.
func (w *WifiMap) SetIsBatch(v bool) {
	w.isBatch = v
}

// IsBatch returns whether we're running in batch mode.
func (w *WifiMap) IsBatch() bool {
	return w.isBatch
}

// Config returns the configuration.
func (w *WifiMap) Config() *config.Config {
	return w.config
}

// Store returns the survey point store.
func (w *WifiMap) Store() model.SurveyStore {
	return w.store
}

// Home returns the home directory.
func (w *WifiMap) Home() string {
	return w.home
}

// Close releases the resources owned by the context.
func (w *WifiMap) Close() error {
	return w.store.Close()
}

// NewRunner creates a survey runner publishing progress to the
// given publisher.
func (w *WifiMap) NewRunner(publisher model.ProgressPublisher) *survey.Runner {
	return survey.NewRunner(&survey.RunnerConfig{
		Logger:      log.Log,
		MaxAttempts: w.config.Sampling.MaxAttempts,
		Measurer:    wifi.NewMeasurer(log.Log),
		Publisher:   publisher,
	})
}

// ListenForSignals returns a context that is cancelled when the
// process receives SIGINT or SIGTERM, so that a running measurement
// can shut down cleanly at its next checkpoint.
func (w *WifiMap) ListenForSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	s := make(chan os.Signal, 1)
	signal.Notify(s, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(s)
		select {
		case <-s:
			log.Info("caught a stop signal, shutting down cleanly")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Init the wifimapper context.
func (w *WifiMap) Init() error {
	var err error

	if err = MaybeInitializeHome(w.home); err != nil {
		return err
	}

	if w.configPath != "" {
		log.Debugf("Reading config file from %s", w.configPath)
		w.config, err = config.ReadConfig(w.configPath)
	} else {
		log.Debug("Reading default config file")
		w.config, err = InitDefaultConfig(w.home)
	}
	if err != nil {
		return err
	}
	if err = w.config.MaybeMigrate(); err != nil {
		return errors.Wrap(err, "migrating config")
	}
	if !w.config.Advanced.SendCrashReports {
		log.Debug("Crash reporting is disabled")
		crashreport.Disabled = true
	}

	w.dbPath = utils.DBDir(w.home, "main")
	log.Debugf("Connecting to database sqlite3://%s", w.dbPath)
	sess, err := database.Open(w.dbPath, log.Log)
	if err != nil {
		return err
	}
	w.sess = sess
	w.store = database.NewStore(sess, log.Log)
	return nil
}

// MaybeInitializeHome does the setup for a new wifimapper home.
func MaybeInitializeHome(home string) error {
	for _, d := range utils.RequiredDirs(home) {
		if _, e := os.Stat(d); e != nil {
			if err := os.MkdirAll(d, 0700); err != nil {
				return err
			}
		}
	}
	return nil
}

//go:embed default-config.json
var defaultConfig []byte

// InitDefaultConfig reads the config from common locations or creates
// it if missing.
func InitDefaultConfig(home string) (*config.Config, error) {
	configPath := utils.ConfigPath(home)
	c, err := config.ReadConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("writing default config to %s", configPath)
			if err = os.WriteFile(configPath, defaultConfig, 0644); err != nil {
				return nil, err
			}
			return InitDefaultConfig(home)
		}
		return nil, err
	}
	return c, nil
}
