// Package survey implements the measurement run: it orchestrates the
// platform measurer, the bandwidth sub-tests, and the progress stream
// into a single Run operation producing a [model.SurveyResult].
//
// A run samples the wifi signal three times (before, between, and
// after the bandwidth phases), runs up to four bandwidth sub-tests
// (two directions per enabled protocol), validates that the network
// identity did not change while measuring, and averages the signal
// samples into the returned snapshot.
//
// Cancellation is cooperative: the context is observed at fixed
// checkpoints between phases, never while a subprocess is running,
// so an in-flight bandwidth test always completes. At most one run
// is active per [Runner]; concurrent calls fail with [ErrBusy].
package survey

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/wifimap/survey-cli/internal/iperf"
	"github.com/wifimap/survey-cli/internal/model"
)

var (
	// ErrBusy indicates that a measurement is already running.
	ErrBusy = errors.New("survey: a measurement is already running")

	// errCancelled indicates that the operator cancelled the run. We
	// map it to [statusCancelled] rather than returning it.
	errCancelled = errors.New("survey: the run was cancelled")

	// errSnapshotMismatch indicates the network identity changed
	// while we were measuring.
	errSnapshotMismatch = errors.New("survey: network changed during the measurement")

	// errNoAssociation indicates a sample without an associated
	// network entry.
	errNoAssociation = errors.New("survey: sample has no associated network")
)

const (
	// statusCancelled is the user-visible status of a cancelled run.
	statusCancelled = "test was cancelled"

	// statusNetworkChanged is the user-visible status of a run
	// discarded because the network identity changed.
	statusNetworkChanged = "The wifi network changed during the test"

	// statusUnexpectedFailure is the generic header and status we
	// publish when a run fails for unexpected reasons.
	statusUnexpectedFailure = "Error taking measurements"

	// skipNoticeDelay is how long we pause before rendering that a
	// protocol is skipped, so the stream does not jump instantly.
	skipNoticeDelay = 500 * time.Millisecond
)

// bandwidthRunner runs a single bandwidth sub-test. Implemented in
// production by [iperf.Runner].
type bandwidthRunner interface {
	RunSingleTest(spec *iperf.RunSpec) *model.BandwidthTestResult
}

// sleeper pauses the calling goroutine. We use it to mock the skip
// notice delay in tests.
type sleeper interface {
	Sleep(d time.Duration)
}

// stdSleeper is the [sleeper] used in production.
type stdSleeper struct{}

// Sleep implements [sleeper].
func (stdSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// RunnerConfig contains the configuration for [NewRunner].
type RunnerConfig struct {
	// Logger is the MANDATORY logger to use.
	Logger model.Logger

	// Measurer is the MANDATORY platform measurer.
	Measurer model.WifiMeasurer

	// Publisher is the OPTIONAL progress publisher. The default is
	// to discard progress events.
	Publisher model.ProgressPublisher

	// MaxAttempts OPTIONALLY raises the number of times Run attempts
	// the sampling sequence before giving up. The default is one.
	MaxAttempts int64
}

// Runner runs surveys. Use [NewRunner] to construct.
type Runner struct {
	bandwidth   bandwidthRunner
	busy        atomic.Bool
	logger      model.Logger
	maxAttempts int64
	measurer    model.WifiMeasurer
	publisher   model.ProgressPublisher
	sleeper     sleeper
}

// NewRunner creates a [Runner] with the given config.
func NewRunner(config *RunnerConfig) *Runner {
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Runner{
		bandwidth:   iperf.NewRunner(config.Logger),
		busy:        atomic.Bool{},
		logger:      model.ValidLoggerOrDefault(config.Logger),
		maxAttempts: maxAttempts,
		measurer:    config.Measurer,
		publisher:   model.ValidPublisherOrDefault(config.Publisher),
		sleeper:     stdSleeper{},
	}
}

// Run performs one measurement run with the given settings.
//
// The context only controls cancellation at the checkpoints between
// phases. A cancelled run is not an error: it returns a result whose
// Status is the cancellation notice and nil error. Likewise preflight
// failures and mid-run network changes return a result carrying the
// reason. Only unexpected failures return a nil result and the error,
// after publishing a final event describing the failure.
//
// Every terminal path publishes exactly one done event with progress
// 100 before returning, so observers never see a run end silently.
func (r *Runner) Run(ctx context.Context, settings *model.MeasurementSettings) (*model.SurveyResult, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.busy.Store(false)

	// observers attaching right after start must see a first event
	rep := newReport(r.publisher, settings)
	rep.publishUpdate()

	if reason := r.measurer.PreflightSettings(settings); reason != "" {
		rep.setNotice(reason)
		rep.publishDone()
		return &model.SurveyResult{Status: reason}, nil
	}

	plan := r.buildPlan(settings)

	// the scan is only used for the headline: failing to scan is
	// not worth aborting a run that can still measure
	if snapshot, err := r.measurer.ScanWifi(settings); err == nil {
		if current, found := snapshot.Current(); found {
			rep.setHeader(current.SSID)
		}
	} else {
		r.logger.Warnf("survey: cannot scan wifi networks: %s", err.Error())
	}
	rep.publishUpdate()

	var lastErr error
	for attempt := int64(1); attempt <= r.maxAttempts; attempt++ {
		rep.resetTestLines()
		result, err := r.runAttempt(ctx, settings, rep, plan)
		if err == nil {
			rep.publishDone()
			return result, nil
		}
		if errors.Is(err, errCancelled) {
			rep.setNotice(statusCancelled)
			rep.publishDone()
			return &model.SurveyResult{Status: statusCancelled}, nil
		}
		r.logger.Warnf("survey: attempt %d/%d failed: %s", attempt, r.maxAttempts, err.Error())
		lastErr = err
	}

	if errors.Is(lastErr, errSnapshotMismatch) {
		rep.setNotice(statusNetworkChanged)
		rep.publishDone()
		return &model.SurveyResult{Status: statusNetworkChanged}, nil
	}

	rep.setHeader(statusUnexpectedFailure)
	rep.setNotice(statusUnexpectedFailure)
	rep.publishDone()
	return nil, lastErr
}
