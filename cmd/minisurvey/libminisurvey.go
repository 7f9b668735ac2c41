package main

//
// Core implementation
//

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/apex/log"
	"github.com/wifimap/survey-cli/internal/humanize"
	"github.com/wifimap/survey-cli/internal/logx"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/must"
	"github.com/wifimap/survey-cli/internal/survey"
	"github.com/wifimap/survey-cli/internal/wifi"
)

// fatalIfFalse calls panic() if cond is false.
func fatalIfFalse(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// fatalOnError calls panic() if err is not nil.
func fatalOnError(err error, msg string) {
	if err != nil {
		log.WithError(err).Warn(msg)
		panic(msg)
	}
}

// MainWithOptions is the minisurvey main with specific options.
func MainWithOptions(options *Options) {
	logHandler := logx.NewHandlerWithDefaultSettings()
	logger := &log.Logger{Level: log.InfoLevel, Handler: logHandler}
	if options.Verbose {
		logger.Level = log.DebugLevel
	}
	log.Log = logger

	runner := survey.NewRunner(&survey.RunnerConfig{
		Logger:      logger,
		Measurer:    wifi.NewMeasurer(logger),
		Publisher:   &logPublisher{logger: logger},
		MaxAttempts: options.MaxAttempts,
	})

	ctx, cancel := listenForSignals(context.Background())
	defer cancel()

	result, err := runner.Run(ctx, newSettings(options))
	fatalOnError(err, "the measurement failed")
	if options.JSON {
		fmt.Printf("%s\n", string(must.MarshalJSON(result)))
	} else if result.Status == "" {
		printResult(logger, result)
	}
	fatalIfFalse(result.Status == "", result.Status)
}

// newSettings maps the CLI options to measurement settings.
func newSettings(options *Options) *model.MeasurementSettings {
	return &model.MeasurementSettings{
		IperfServerAddress: options.Server,
		TestDuration:       options.Duration,
		TCPEnabled:         !options.NoTCP,
		UDPEnabled:         !options.NoUDP,
		InterfaceHint:      options.InterfaceHint,
		SudoPassword:       options.SudoPassword,
		IperfPath:          options.IperfPath,
	}
}

// listenForSignals returns a copy of the parent context that is
// cancelled by SIGINT or SIGTERM.
func listenForSignals(parent context.Context) (context.Context, context.CancelFunc) {
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

// logPublisher logs progress events.
type logPublisher struct {
	logger model.Logger
}

var _ model.ProgressPublisher = &logPublisher{}

// Publish implements model.ProgressPublisher.
func (lp *logPublisher) Publish(event *model.ProgressEvent) {
	lp.logger.Infof("[%3d%%] %s: %s", event.Progress, event.Header, oneLine(event.Status))
}

// oneLine flattens a multi-line status into a single log line.
func oneLine(status string) string {
	return strings.ReplaceAll(status, "\n", "; ")
}

// printResult renders the result of a successful run.
func printResult(logger model.Logger, result *model.SurveyResult) {
	logger.Infof("network: %s (%s)", result.Wifi.SSID, result.Wifi.BSSID)
	logger.Infof("channel: %d (%d MHz)", result.Wifi.Channel, result.Wifi.Band)
	logger.Infof("signal: %d%% (%d dBm)", result.Wifi.SignalStrength, result.Wifi.RSSI)
	printBandwidth(logger, "TCP download", result.Bandwidth.TCPDownload)
	printBandwidth(logger, "TCP upload", result.Bandwidth.TCPUpload)
	printBandwidth(logger, "UDP download", result.Bandwidth.UDPDownload)
	printBandwidth(logger, "UDP upload", result.Bandwidth.UDPUpload)
}

// printBandwidth renders the outcome of a single bandwidth sub-test.
func printBandwidth(logger model.Logger, label string, test model.BandwidthTestResult) {
	if test.BitsPerSecond.IsNone() {
		logger.Infof("%s: not available", label)
		return
	}
	logger.Infof("%s: %s", label, humanize.SI(test.BitsPerSecond.Unwrap(), "bit/s"))
}
