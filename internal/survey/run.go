package survey

//
// Run state machine
//

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/wifimap/survey-cli/internal/humanize"
	"github.com/wifimap/survey-cli/internal/iperf"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/progress"
	"github.com/wifimap/survey-cli/internal/wifi"
)

// checkpoint returns [errCancelled] when the context is done. We call
// it between phases; we never interrupt a phase that already started.
func checkpoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errCancelled
	default:
		return nil
	}
}

// runAttempt performs one full sampling sequence: before sample, TCP
// phase, middle sample, UDP phase, after sample, validation. It
// returns [errCancelled] when a checkpoint fires, some other error
// when a sample or the validation fails, and the aggregated result
// otherwise.
//
// There is deliberately no checkpoint between the UDP phase and the
// after sample: the sample is cheap and a run that already paid for
// its bandwidth tests should get the chance to complete.
func (r *Runner) runAttempt(ctx context.Context, settings *model.MeasurementSettings,
	rep *report, plan *testPlan) (*model.SurveyResult, error) {
	before, err := r.takeSample(settings, rep)
	if err != nil {
		return nil, err
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	bandwidth := &model.BandwidthSurveyResult{}

	r.protocolPhase(settings, rep, plan, &protocolSpec{
		downloadResult: &bandwidth.TCPDownload,
		enabled:        settings.TCPEnabled,
		label:          "TCP",
		udp:            false,
		unit:           0,
		uploadResult:   &bandwidth.TCPUpload,
	})
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	middle, err := r.takeSample(settings, rep)
	if err != nil {
		return nil, err
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	r.protocolPhase(settings, rep, plan, &protocolSpec{
		downloadResult: &bandwidth.UDPDownload,
		enabled:        settings.UDPEnabled,
		label:          "UDP",
		udp:            true,
		unit:           plan.udpBaseUnit(),
		uploadResult:   &bandwidth.UDPUpload,
	})

	after, err := r.takeSample(settings, rep)
	if err != nil {
		return nil, err
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	if err := validateSnapshots(before, after); err != nil {
		return nil, err
	}

	if plan.totalUnits() <= 0 {
		rep.setProgress(100)
		rep.publishUpdate()
	}

	network := *after
	network.SignalStrength = averageSignalStrength(before, middle, after)
	network.RSSI = wifi.RSSIFromPercent(network.SignalStrength)
	return &model.SurveyResult{
		Wifi:      &network,
		Bandwidth: bandwidth,
		Status:    "",
	}, nil
}

// takeSample reads the current association and publishes the sampled
// signal strength.
func (r *Runner) takeSample(settings *model.MeasurementSettings, rep *report) (*model.WifiNetwork, error) {
	snapshot, err := r.measurer.GetWifi(settings)
	if err != nil {
		return nil, err
	}
	current, found := snapshot.Current()
	if !found {
		return nil, errNoAssociation
	}
	rep.setHeader(current.SSID)
	rep.setSignalSample(current.SignalStrength)
	rep.publishUpdate()
	return current, nil
}

// protocolSpec describes one protocol phase to [Runner.protocolPhase].
type protocolSpec struct {
	// downloadResult is where the download outcome lands.
	downloadResult *model.BandwidthTestResult

	// enabled indicates the protocol is enabled in the settings.
	enabled bool

	// label is the display name of the protocol.
	label string

	// udp indicates the UDP protocol.
	udp bool

	// unit is the progress unit index of the download sub-test.
	unit int64

	// uploadResult is where the upload outcome lands.
	uploadResult *model.BandwidthTestResult
}

// protocolPhase runs the download and upload sub-tests of a protocol.
// A disabled protocol contributes nothing. An enabled protocol whose
// server is unavailable renders a skip notice after a short pause, so
// the stream visibly acknowledges it rather than flashing past.
func (r *Runner) protocolPhase(settings *model.MeasurementSettings,
	rep *report, plan *testPlan, spec *protocolSpec) {
	if !spec.enabled {
		return
	}
	available := plan.tcpAvailable
	if spec.udp {
		available = plan.udpAvailable
	}
	if !available {
		r.sleeper.Sleep(skipNoticeDelay)
		rep.addTestLine(fmt.Sprintf("%s: Not performed: %s", spec.label, plan.skipReason))
		rep.publishUpdate()
		return
	}
	*spec.downloadResult = *r.runSubTest(settings, rep, plan, spec, true, spec.unit)
	*spec.uploadResult = *r.runSubTest(settings, rep, plan, spec, false, spec.unit+1)
}

// runSubTest runs a single bandwidth sub-test and renders its line.
func (r *Runner) runSubTest(settings *model.MeasurementSettings, rep *report,
	plan *testPlan, spec *protocolSpec, download bool, unit int64) *model.BandwidthTestResult {
	offset, limit := plan.unitBounds(unit)
	scaler := progress.NewScaler(func(percentage int64) {
		rep.setProgress(percentage)
		rep.publishUpdate()
	}, offset, limit)
	result := r.bandwidth.RunSingleTest(&iperf.RunSpec{
		Server:      settings.IperfServerAddress,
		DurationSec: settings.TestDuration,
		Download:    download,
		UDP:         spec.udp,
		BinaryPath:  settings.IperfPath,
		OnProgress:  scaler.OnProgress,
	})
	rep.addTestLine(formatThroughputLine(spec.label, download, result))
	rep.publishUpdate()
	return result
}

// formatThroughputLine renders the outcome line of a sub-test, e.g.
// "TCP download: 423.41 Mbit/s" or "UDP upload: failed".
func formatThroughputLine(label string, download bool, result *model.BandwidthTestResult) string {
	direction := "upload"
	if download {
		direction = "download"
	}
	if result.BitsPerSecond.IsNone() {
		return fmt.Sprintf("%s %s: failed", label, direction)
	}
	return fmt.Sprintf("%s %s: %s", label, direction,
		humanize.SI(result.BitsPerSecond.Unwrap(), "bit/s"))
}

// validateSnapshots checks that the network identity did not change
// between the before and after samples. Signal fields may differ, the
// identity fields may not.
func validateSnapshots(before, after *model.WifiNetwork) error {
	if before.SSID != after.SSID ||
		before.BSSID != after.BSSID ||
		before.Band != after.Band ||
		before.Channel != after.Channel {
		return errSnapshotMismatch
	}
	return nil
}

// averageSignalStrength returns the rounded arithmetic mean of the
// three signal samples.
func averageSignalStrength(samples ...*model.WifiNetwork) int64 {
	var values []float64
	for _, sample := range samples {
		values = append(values, float64(sample.SignalStrength))
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return int64(math.Round(mean))
}
