package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/schollz/progressbar/v3"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/root"
	"github.com/wifimap/survey-cli/internal/humanize"
	"github.com/wifimap/survey-cli/internal/model"
)

func init() {
	cmd := root.Command("run", "Measure the current position and store a survey point")

	x := cmd.Flag("x", "X coordinate of the current position on the floor plan").Float64()
	y := cmd.Flag("y", "Y coordinate of the current position on the floor plan").Float64()
	noStore := cmd.Flag("no-store", "Measure without storing a survey point").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		w, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize wifimapper")
			return err
		}
		defer w.Close()
		ctx, cancel := w.ListenForSignals(context.Background())
		defer cancel()
		config := defaultconfig
		config.NoStore = *noStore
		config.Runner = w.NewRunner(newPublisher(w.IsBatch()))
		config.Settings = w.Config().MeasurementSettings()
		config.Store = w.Store()
		config.X = *x
		config.Y = *y
		if w.IsBatch() {
			config.PrintResult = printbatch
		}
		return dorun(ctx, &config)
	})
}

// errNoResults means the run finished without producing results, for
// example because it was interrupted or the network changed.
var errNoResults = errors.New("the measurement did not produce results")

// surveyRunner performs a survey measurement.
type surveyRunner interface {
	Run(ctx context.Context, settings *model.MeasurementSettings) (*model.SurveyResult, error)
}

// dorunconfig contains the configuration of [dorun].
type dorunconfig struct {
	// Logger is the logger to use.
	Logger log.Interface

	// NoStore disables storing the measured point.
	NoStore bool

	// PrintResult renders the measured values.
	PrintResult func(logger log.Interface, result *model.SurveyResult)

	// Runner performs the measurement.
	Runner surveyRunner

	// Settings contains the measurement settings.
	Settings *model.MeasurementSettings

	// Store persists the measured point.
	Store model.WritableSurveyStore

	// X is the floor plan X coordinate.
	X float64

	// Y is the floor plan Y coordinate.
	Y float64
}

// defaultconfig is the default [dorunconfig]. The command action fills
// in the fields that depend on the initialized wifimapper context.
var defaultconfig = dorunconfig{
	Logger:      log.Log,
	PrintResult: printhuman,
}

// dorun implements the run command.
func dorun(ctx context.Context, config *dorunconfig) error {
	result, err := config.Runner.Run(ctx, config.Settings)
	if err != nil {
		config.Logger.WithError(err).Error("the measurement failed")
		return err
	}
	if result.Status != "" {
		config.Logger.Warnf("no results: %s", result.Status)
		return errNoResults
	}
	config.PrintResult(config.Logger, result)
	if config.NoStore {
		config.Logger.Debug("not storing the measured point")
		return nil
	}
	point := model.NewSurveyPointFromResult(result, config.X, config.Y)
	if err := config.Store.CreatePoint(point); err != nil {
		config.Logger.WithError(err).Error("failed to store the point")
		return err
	}
	config.Logger.Infof("Stored point %s at (%v, %v)", point.Token, point.X, point.Y)
	return nil
}

// printhuman renders the measured values for interactive users.
func printhuman(logger log.Interface, result *model.SurveyResult) {
	logger.Infof("network: %s (%s)", result.Wifi.SSID, result.Wifi.BSSID)
	logger.Infof("channel: %d (%d MHz)", result.Wifi.Channel, result.Wifi.Band)
	logger.Infof("signal: %d%% (%d dBm)", result.Wifi.SignalStrength, result.Wifi.RSSI)
	humanBandwidth(logger, "TCP download", result.Bandwidth.TCPDownload)
	humanBandwidth(logger, "TCP upload", result.Bandwidth.TCPUpload)
	humanBandwidth(logger, "UDP download", result.Bandwidth.UDPDownload)
	humanBandwidth(logger, "UDP upload", result.Bandwidth.UDPUpload)
}

// humanBandwidth renders the outcome of a single bandwidth sub-test.
func humanBandwidth(logger log.Interface, label string, test model.BandwidthTestResult) {
	if test.BitsPerSecond.IsNone() {
		logger.Infof("%s: not available", label)
		return
	}
	logger.Infof("%s: %s", label, humanize.SI(test.BitsPerSecond.Unwrap(), "bit/s"))
}

// printbatch emits the measured values as a result_item event.
func printbatch(logger log.Interface, result *model.SurveyResult) {
	fields := log.Fields{
		"type":            "result_item",
		"ssid":            result.Wifi.SSID,
		"bssid":           result.Wifi.BSSID,
		"band":            result.Wifi.Band,
		"channel":         result.Wifi.Channel,
		"signal_strength": result.Wifi.SignalStrength,
		"rssi":            result.Wifi.RSSI,
	}
	throughputField(fields, "tcp_download_bps", result.Bandwidth.TCPDownload)
	throughputField(fields, "tcp_upload_bps", result.Bandwidth.TCPUpload)
	throughputField(fields, "udp_download_bps", result.Bandwidth.UDPDownload)
	throughputField(fields, "udp_upload_bps", result.Bandwidth.UDPUpload)
	logger.WithFields(fields).Infof(
		"measured %s: signal %d%% (%d dBm)",
		result.Wifi.SSID, result.Wifi.SignalStrength, result.Wifi.RSSI,
	)
}

// throughputField adds the throughput of a sub-test that ran.
func throughputField(fields log.Fields, key string, result model.BandwidthTestResult) {
	if result.BitsPerSecond.IsNone() {
		return
	}
	fields[key] = result.BitsPerSecond.Unwrap()
}

// newPublisher returns the progress publisher for the output mode.
func newPublisher(batch bool) model.ProgressPublisher {
	if batch {
		return &batchPublisher{logger: log.Log}
	}
	return newBarPublisher()
}

// batchPublisher emits progress events as machine-parsable logs.
type batchPublisher struct {
	logger log.Interface
}

var _ model.ProgressPublisher = &batchPublisher{}

// Publish implements model.ProgressPublisher.
func (bp *batchPublisher) Publish(event *model.ProgressEvent) {
	bp.logger.WithFields(log.Fields{
		"type":        "progress",
		"event_type":  event.Type,
		"percentage":  event.Progress,
		"status":      event.Status,
		"tcp_enabled": event.TCPEnabled,
		"udp_enabled": event.UDPEnabled,
	}).Info(event.Header)
}

// barPublisher renders progress events as an interactive progress bar.
type barPublisher struct {
	bar *progressbar.ProgressBar
}

var _ model.ProgressPublisher = &barPublisher{}

// newBarPublisher creates a [barPublisher] writing to the stdout.
func newBarPublisher() *barPublisher {
	return &barPublisher{
		bar: progressbar.NewOptions64(
			100,
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(os.Stdout, "\n")
			}),
			progressbar.OptionSetWriter(os.Stdout),
		),
	}
}

// Publish implements model.ProgressPublisher.
func (bp *barPublisher) Publish(event *model.ProgressEvent) {
	bp.bar.Describe(describeEvent(event))
	bp.bar.Set64(event.Progress)
}

// describeEvent returns the one-line description of an event: the
// most recent status line when there is one, the header otherwise.
func describeEvent(event *model.ProgressEvent) string {
	lines := strings.Split(event.Status, "\n")
	if last := lines[len(lines)-1]; last != "" {
		return last
	}
	return event.Header
}
