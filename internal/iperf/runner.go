package iperf

//
// Sub-test runner
//

import (
	"encoding/json"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/shellx"
)

// RunSpec describes one bandwidth sub-test.
type RunSpec struct {
	// Server is the iperf3 server as "host" or "host:port".
	Server string

	// DurationSec is the requested test duration in seconds.
	DurationSec int64

	// Download runs the test in reverse mode, where the server
	// sends to the client.
	Download bool

	// UDP runs the test over UDP with unlimited bandwidth rather
	// than over TCP.
	UDP bool

	// BinaryPath optionally overrides the iperf3 binary location.
	BinaryPath string

	// OnProgress is optionally called with the estimated intra-test
	// percentage while the subprocess runs, and exactly once with
	// 100 when the sub-test is over, on every exit path.
	OnProgress func(percentage int64)
}

// dependencies abstracts the externals used by [Runner] such
// that we can run unit tests without an iperf3 binary.
type dependencies interface {
	// Output runs the given command returning its standard output.
	Output(logger model.Logger, command string, args ...string) ([]byte, error)
}

// stdDependencies is the implementation of [dependencies] used
// in production, which executes commands through shellx.
type stdDependencies struct{}

// Output implements [dependencies].
func (stdDependencies) Output(logger model.Logger, command string, args ...string) ([]byte, error) {
	return shellx.Output(logger, command, args...)
}

// Runner runs bandwidth sub-tests. The zero value is invalid; use
// [NewRunner] to construct.
type Runner struct {
	deps   dependencies
	logger model.Logger
}

// NewRunner creates a [Runner] using the given logger.
func NewRunner(logger model.Logger) *Runner {
	return &Runner{
		deps:   &stdDependencies{},
		logger: model.ValidLoggerOrDefault(logger),
	}
}

// RunSingleTest runs the sub-test described by spec.
//
// This function never fails: when the subprocess cannot be executed
// or its output cannot be parsed, it logs what went wrong and
// returns the all-empty "not run" result.
func (r *Runner) RunSingleTest(spec *RunSpec) *model.BandwidthTestResult {
	onProgress := spec.OnProgress
	if onProgress == nil {
		onProgress = func(percentage int64) {}
	}
	defer onProgress(100) // exactly once, on every exit path

	stopTicker := r.simulateProgress(spec.DurationSec, onProgress)
	defer stopTicker()

	binary := spec.BinaryPath
	if binary == "" {
		binary = defaultBinary
	}
	data, err := r.deps.Output(r.logger, binary, newArgs(spec)...)

	// The ticker must be gone before we report completion, and no
	// estimate may be delivered after this point.
	stopTicker()

	// With -J the tool still writes a JSON document containing an
	// error field when it exits nonzero, so attempt parsing whenever
	// we have bytes.
	if len(data) <= 0 {
		if err != nil {
			r.logger.Warnf("iperf: cannot run sub-test: %s", err.Error())
		} else {
			r.logger.Warn("iperf: sub-test produced no output")
		}
		return &model.BandwidthTestResult{}
	}
	var output Output
	if err := json.Unmarshal(data, &output); err != nil {
		r.logger.Warnf("iperf: cannot parse sub-test output: %s", err.Error())
		return &model.BandwidthTestResult{}
	}
	return Extract(r.logger, &output, spec.UDP)
}

// simulateProgress starts a goroutine estimating intra-test progress
// on a fixed interval. The returned function tears the goroutine and
// its ticker down and may be called more than once; after it returns
// no further estimate will be delivered.
func (r *Runner) simulateProgress(durationSec int64, onProgress func(int64)) func() {
	start := time.Now()
	ticker := time.NewTicker(progressTickInterval)
	done := make(chan struct{})
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				onProgress(computeTickPercentage(time.Since(start), durationSec))
			}
		}
	}()
	once := &sync.Once{}
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
		wg.Wait()
	}
}

// computeTickPercentage maps elapsed wall-clock time onto a 0-99
// percentage of the requested duration. The estimate is capped at
// 99 because only actual subprocess completion may report 100.
func computeTickPercentage(elapsed time.Duration, durationSec int64) int64 {
	if durationSec <= 0 {
		return 99
	}
	perc := elapsed.Milliseconds() * 100 / (durationSec * 1000)
	if perc < 0 {
		perc = 0
	}
	if perc > 99 {
		perc = 99
	}
	return perc
}

// newArgs builds the iperf3 argument list for the given spec.
func newArgs(spec *RunSpec) []string {
	host, port := splitServerAddress(spec.Server)
	args := []string{"-c", host}
	if port != "" {
		args = append(args, "-p", port)
	}
	args = append(args, "-t", strconv.FormatInt(spec.DurationSec, 10))
	if spec.Download {
		args = append(args, "-R")
	}
	if spec.UDP {
		args = append(args, "-u", "-b", "0")
	}
	args = append(args, "-J")
	return args
}

// splitServerAddress splits a "host[:port]" address. An address
// without a port yields an empty port.
func splitServerAddress(server string) (host string, port string) {
	host, port, err := net.SplitHostPort(server)
	if err != nil {
		return server, ""
	}
	return host, port
}
