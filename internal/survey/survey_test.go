package survey

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wifimap/survey-cli/internal/iperf"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/model/mocks"
	"github.com/wifimap/survey-cli/internal/must"
	"github.com/wifimap/survey-cli/internal/optional"
)

// eventCollector is a [model.ProgressPublisher] that records every
// published event.
type eventCollector struct {
	events []model.ProgressEvent
	mu     sync.Mutex
}

var _ model.ProgressPublisher = &eventCollector{}

// Publish implements [model.ProgressPublisher].
func (c *eventCollector) Publish(ev *model.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, *ev)
}

// snapshot returns a copy of the events recorded so far.
func (c *eventCollector) snapshot() []model.ProgressEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ProgressEvent{}, c.events...)
}

// assertEventStream checks the invariants every run must honor: the
// progress never moves backwards and there is exactly one done event,
// which is the last one and carries progress 100.
func assertEventStream(t *testing.T, events []model.ProgressEvent) {
	t.Helper()
	if len(events) < 1 {
		t.Fatal("expected at least one event")
	}
	var previous int64
	var done int
	for _, ev := range events {
		if ev.Progress < previous {
			t.Fatalf("progress moved backwards: %d after %d", ev.Progress, previous)
		}
		previous = ev.Progress
		if ev.Type == model.EventTypeDone {
			done++
		}
	}
	if done != 1 {
		t.Fatalf("expected a single done event, got %d", done)
	}
	last := events[len(events)-1]
	if last.Type != model.EventTypeDone {
		t.Fatalf("the last event is %q not %q", last.Type, model.EventTypeDone)
	}
	if last.Progress != 100 {
		t.Fatalf("the done event carries progress %d", last.Progress)
	}
}

// mockBandwidthRunner is a mockable [bandwidthRunner].
type mockBandwidthRunner struct {
	MockRunSingleTest func(spec *iperf.RunSpec) *model.BandwidthTestResult
}

var _ bandwidthRunner = &mockBandwidthRunner{}

// RunSingleTest implements [bandwidthRunner].
func (r *mockBandwidthRunner) RunSingleTest(spec *iperf.RunSpec) *model.BandwidthTestResult {
	return r.MockRunSingleTest(spec)
}

// mockSleeper is a [sleeper] that counts invocations and never
// actually sleeps.
type mockSleeper struct {
	calls atomic.Int64
}

var _ sleeper = &mockSleeper{}

// Sleep implements [sleeper].
func (s *mockSleeper) Sleep(d time.Duration) {
	s.calls.Add(1)
}

// recordedSpec is the comparable subset of an [iperf.RunSpec].
type recordedSpec struct {
	Download bool
	Duration int64
	Server   string
	UDP      bool
}

// specRecorder collects the specs a bandwidth runner received.
type specRecorder struct {
	mu    sync.Mutex
	specs []recordedSpec
}

func (r *specRecorder) record(spec *iperf.RunSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = append(r.specs, recordedSpec{
		Download: spec.Download,
		Duration: spec.DurationSec,
		Server:   spec.Server,
		UDP:      spec.UDP,
	})
}

func (r *specRecorder) snapshot() []recordedSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedSpec{}, r.specs...)
}

// homeNetwork returns the network entry used across these tests, with
// the rssi derived from the given signal percentage.
func homeNetwork(signal int64) model.WifiNetwork {
	return model.WifiNetwork{
		SSID:           "HomeNet",
		BSSID:          "aa:bb:cc:dd:ee:01",
		Band:           5220,
		Channel:        44,
		ChannelWidth:   80,
		Security:       "WPA2 Personal",
		TxRate:         780,
		PhyMode:        "802.11ax",
		SignalStrength: signal,
		RSSI:           (signal+1)/2 - 100,
		CurrentSSID:    true,
	}
}

// newSampleMeasurer creates a measurer whose GetWifi returns the
// given signal samples in order along with the counter of GetWifi
// calls. Preflight and the server probe succeed and ScanWifi sees
// the home network plus an unrelated one.
func newSampleMeasurer(samples ...int64) (*mocks.WifiMeasurer, *atomic.Int64) {
	calls := &atomic.Int64{}
	measurer := &mocks.WifiMeasurer{
		MockPreflightSettings: func(settings *model.MeasurementSettings) string {
			return ""
		},
		MockCheckIperfServer: func(settings *model.MeasurementSettings) string {
			return ""
		},
		MockScanWifi: func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			return &model.WifiSnapshot{Networks: []model.WifiNetwork{
				homeNetwork(84),
				{SSID: "CoffeeShop", BSSID: "11:22:33:44:55:66", SignalStrength: 52},
			}}, nil
		},
		MockGetWifi: func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			idx := int(calls.Add(1) - 1)
			network := homeNetwork(samples[idx%len(samples)])
			return &model.WifiSnapshot{Networks: []model.WifiNetwork{network}}, nil
		},
	}
	return measurer, calls
}

// resultForSpec returns a distinct canned outcome for each of the
// four direction and protocol combinations.
func resultForSpec(spec *iperf.RunSpec) *model.BandwidthTestResult {
	switch {
	case !spec.UDP && spec.Download:
		return &model.BandwidthTestResult{
			BitsPerSecond: optional.Some(500000000.0),
			Retransmits:   optional.Some(int64(12)),
		}
	case !spec.UDP && !spec.Download:
		return &model.BandwidthTestResult{
			BitsPerSecond: optional.Some(250000000.0),
			Retransmits:   optional.Some(int64(4)),
		}
	case spec.UDP && spec.Download:
		return &model.BandwidthTestResult{
			BitsPerSecond:   optional.Some(95000000.0),
			JitterMs:        optional.Some(1.25),
			LostPackets:     optional.Some(int64(4)),
			PacketsReceived: optional.Some(int64(81220)),
		}
	default:
		return &model.BandwidthTestResult{
			BitsPerSecond:   optional.Some(51000000.0),
			JitterMs:        optional.Some(0.042),
			LostPackets:     optional.Some(int64(117)),
			PacketsReceived: optional.Some(int64(44120)),
		}
	}
}

// newDefaultSettings returns settings enabling both protocols.
func newDefaultSettings() *model.MeasurementSettings {
	return &model.MeasurementSettings{
		IperfServerAddress: "10.0.0.7:5201",
		TestDuration:       10,
		TCPEnabled:         true,
		UDPEnabled:         true,
	}
}

// assertNoBandwidth checks that no sub-test carries a throughput.
func assertNoBandwidth(t *testing.T, bandwidth *model.BandwidthSurveyResult) {
	t.Helper()
	if bandwidth == nil {
		t.Fatal("expected a bandwidth result object")
	}
	entries := []model.BandwidthTestResult{
		bandwidth.TCPDownload,
		bandwidth.TCPUpload,
		bandwidth.UDPDownload,
		bandwidth.UDPUpload,
	}
	for _, entry := range entries {
		if !entry.BitsPerSecond.IsNone() {
			t.Fatal("expected no throughput value")
		}
	}
}

func TestRunnerRun(t *testing.T) {
	t.Run("a concurrent run is rejected", func(t *testing.T) {
		measurer, _ := newSampleMeasurer(40)
		runner := NewRunner(&RunnerConfig{
			Logger:   model.DiscardLogger,
			Measurer: measurer,
		})
		runner.busy.Store(true)
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if !errors.Is(err, ErrBusy) {
			t.Fatal("unexpected error", err)
		}
		if result != nil {
			t.Fatal("expected a nil result")
		}
	})

	t.Run("a preflight failure becomes the status", func(t *testing.T) {
		const reason = "nmcli not found: wifi measurements require NetworkManager"
		measurer, _ := newSampleMeasurer(40)
		measurer.MockPreflightSettings = func(settings *model.MeasurementSettings) string {
			return reason
		}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				t.Fatal("the bandwidth runner must not run")
				return nil
			},
		}
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != reason {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		if result.Wifi != nil || result.Bandwidth != nil {
			t.Fatal("expected nil result objects")
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		done := events[len(events)-1]
		if done.Status != reason {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
	})

	t.Run("cancelling right after the before sample stops the run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		measurer, calls := newSampleMeasurer(40, 44, 46)
		inner := measurer.MockGetWifi
		measurer.MockGetWifi = func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			cancel()
			return inner(settings)
		}
		collector := &eventCollector{}
		slp := &mockSleeper{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.sleeper = slp
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				t.Fatal("the bandwidth runner must not run")
				return nil
			},
		}
		result, err := runner.Run(ctx, newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "test was cancelled" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		if result.Wifi != nil || result.Bandwidth != nil {
			t.Fatal("expected nil result objects")
		}
		if calls.Load() != 1 {
			t.Fatalf("expected a single sample, got %d", calls.Load())
		}
		if slp.calls.Load() != 0 {
			t.Fatal("expected no skip notices")
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		if done := events[len(events)-1]; done.Status != "test was cancelled" {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
	})

	t.Run("a full run aggregates samples and bandwidth", func(t *testing.T) {
		measurer, calls := newSampleMeasurer(40, 44, 46)
		recorder := &specRecorder{}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				recorder.record(spec)
				if spec.OnProgress != nil {
					spec.OnProgress(50)
					spec.OnProgress(100)
				}
				return resultForSpec(spec)
			},
		}
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "" {
			t.Fatalf("unexpected status: %q", result.Status)
		}

		expectWifi := homeNetwork(46)
		expectWifi.SignalStrength = 43
		expectWifi.RSSI = -78
		if diff := cmp.Diff(&expectWifi, result.Wifi); diff != "" {
			t.Fatal(diff)
		}

		expectBandwidth := `{"tcpDownload":{"bitsPerSecond":500000000,"retransmits":12,` +
			`"jitterMs":null,"lostPackets":null,"packetsReceived":null},` +
			`"tcpUpload":{"bitsPerSecond":250000000,"retransmits":4,` +
			`"jitterMs":null,"lostPackets":null,"packetsReceived":null},` +
			`"udpDownload":{"bitsPerSecond":95000000,"retransmits":null,` +
			`"jitterMs":1.25,"lostPackets":4,"packetsReceived":81220},` +
			`"udpUpload":{"bitsPerSecond":51000000,"retransmits":null,` +
			`"jitterMs":0.042,"lostPackets":117,"packetsReceived":44120}}`
		if got := string(must.MarshalJSON(result.Bandwidth)); got != expectBandwidth {
			t.Fatalf("unexpected bandwidth: %s", got)
		}

		expectSpecs := []recordedSpec{
			{Download: true, Duration: 10, Server: "10.0.0.7:5201", UDP: false},
			{Download: false, Duration: 10, Server: "10.0.0.7:5201", UDP: false},
			{Download: true, Duration: 10, Server: "10.0.0.7:5201", UDP: true},
			{Download: false, Duration: 10, Server: "10.0.0.7:5201", UDP: true},
		}
		if diff := cmp.Diff(expectSpecs, recorder.snapshot()); diff != "" {
			t.Fatal(diff)
		}

		if calls.Load() != 3 {
			t.Fatalf("expected three samples, got %d", calls.Load())
		}

		events := collector.snapshot()
		assertEventStream(t, events)
		if events[0].Header != "Preparing measurement" {
			t.Fatalf("unexpected initial header: %q", events[0].Header)
		}
		if events[1].Header != "HomeNet" {
			t.Fatalf("the scan did not set the header: %q", events[1].Header)
		}
		done := events[len(events)-1]
		if done.Header != "HomeNet" {
			t.Fatalf("unexpected done header: %q", done.Header)
		}
		expectStatus := strings.Join([]string{
			"Signal strength: 46%",
			"TCP download: 500.00 Mbit/s",
			"TCP upload: 250.00 Mbit/s",
			"UDP download:  95.00 Mbit/s",
			"UDP upload:  51.00 Mbit/s",
		}, "\n")
		if diff := cmp.Diff(expectStatus, done.Status); diff != "" {
			t.Fatal(diff)
		}
		if !done.TCPEnabled || !done.UDPEnabled {
			t.Fatal("unexpected enabled flags")
		}
	})

	t.Run("the localhost sentinel skips bandwidth testing", func(t *testing.T) {
		measurer, _ := newSampleMeasurer(40, 44, 46)
		measurer.MockCheckIperfServer = func(settings *model.MeasurementSettings) string {
			t.Fatal("the server probe must not run")
			return ""
		}
		collector := &eventCollector{}
		slp := &mockSleeper{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.sleeper = slp
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				t.Fatal("the bandwidth runner must not run")
				return nil
			},
		}
		settings := newDefaultSettings()
		settings.IperfServerAddress = "localhost"
		result, err := runner.Run(context.Background(), settings)
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		if result.Wifi == nil || result.Wifi.SignalStrength != 43 {
			t.Fatal("unexpected wifi result")
		}
		assertNoBandwidth(t, result.Bandwidth)
		if slp.calls.Load() != 2 {
			t.Fatalf("expected two skip pauses, got %d", slp.calls.Load())
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		done := events[len(events)-1]
		expect := "TCP: Not performed: bandwidth testing is disabled in the settings"
		if !strings.Contains(done.Status, expect) {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
		if !strings.Contains(done.Status, "UDP: Not performed:") {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
		if penultimate := events[len(events)-2]; penultimate.Progress != 100 {
			t.Fatalf("sampling alone did not complete the progress: %d", penultimate.Progress)
		}
	})

	t.Run("an unreachable server degrades to sampling only", func(t *testing.T) {
		const reason = "cannot reach the iperf3 server at 10.0.0.7:5201: connection refused"
		measurer, _ := newSampleMeasurer(40, 44, 46)
		measurer.MockCheckIperfServer = func(settings *model.MeasurementSettings) string {
			return reason
		}
		collector := &eventCollector{}
		slp := &mockSleeper{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.sleeper = slp
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				t.Fatal("the bandwidth runner must not run")
				return nil
			},
		}
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		assertNoBandwidth(t, result.Bandwidth)
		if slp.calls.Load() != 2 {
			t.Fatalf("expected two skip pauses, got %d", slp.calls.Load())
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		if done := events[len(events)-1]; !strings.Contains(done.Status, "TCP: Not performed: "+reason) {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
	})

	t.Run("a changed network discards the results", func(t *testing.T) {
		measurer, calls := newSampleMeasurer(40, 44, 46)
		measurer.MockGetWifi = func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			network := homeNetwork(44)
			if calls.Add(1) >= 3 {
				network.BSSID = "aa:bb:cc:dd:ee:02"
			}
			return &model.WifiSnapshot{Networks: []model.WifiNetwork{network}}, nil
		}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				return resultForSpec(spec)
			},
		}
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "The wifi network changed during the test" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		if result.Wifi != nil || result.Bandwidth != nil {
			t.Fatal("expected nil result objects")
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		if done := events[len(events)-1]; done.Status != "The wifi network changed during the test" {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
	})

	t.Run("a second attempt can succeed after a mismatch", func(t *testing.T) {
		measurer, calls := newSampleMeasurer(40, 44, 46)
		samples := []int64{40, 44, 46, 40, 44, 46}
		measurer.MockGetWifi = func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			idx := calls.Add(1)
			network := homeNetwork(samples[int(idx-1)%len(samples)])
			if idx == 3 {
				network.BSSID = "aa:bb:cc:dd:ee:02"
			}
			return &model.WifiSnapshot{Networks: []model.WifiNetwork{network}}, nil
		}
		recorder := &specRecorder{}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:      model.DiscardLogger,
			Measurer:    measurer,
			Publisher:   collector,
			MaxAttempts: 2,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				recorder.record(spec)
				return resultForSpec(spec)
			},
		}
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		if result.Wifi == nil || result.Wifi.SignalStrength != 43 {
			t.Fatal("unexpected wifi result")
		}
		if calls.Load() != 6 {
			t.Fatalf("expected six samples, got %d", calls.Load())
		}
		if specs := recorder.snapshot(); len(specs) != 8 {
			t.Fatalf("expected eight sub-tests, got %d", len(specs))
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		done := events[len(events)-1]
		if strings.Count(done.Status, "TCP download:") != 1 {
			t.Fatalf("the retry duplicated status lines: %q", done.Status)
		}
	})

	t.Run("an unexpected failure returns the error", func(t *testing.T) {
		expected := errors.New("mocked error")
		measurer, _ := newSampleMeasurer(40)
		measurer.MockGetWifi = func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			return nil, expected
		}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
		if result != nil {
			t.Fatal("expected a nil result")
		}
		events := collector.snapshot()
		assertEventStream(t, events)
		done := events[len(events)-1]
		if done.Header != "Error taking measurements" {
			t.Fatalf("unexpected done header: %q", done.Header)
		}
		if done.Status != "Error taking measurements" {
			t.Fatalf("unexpected done status: %q", done.Status)
		}
	})

	t.Run("cancelling during the TCP phase skips the rest", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		measurer, calls := newSampleMeasurer(40, 44, 46)
		recorder := &specRecorder{}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				recorder.record(spec)
				cancel()
				return resultForSpec(spec)
			},
		}
		result, err := runner.Run(ctx, newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "test was cancelled" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		// the upload still runs: there is no checkpoint inside a phase
		specs := recorder.snapshot()
		if len(specs) != 2 {
			t.Fatalf("expected two sub-tests, got %d", len(specs))
		}
		for _, spec := range specs {
			if spec.UDP {
				t.Fatal("the UDP phase must not run")
			}
		}
		if calls.Load() != 1 {
			t.Fatalf("expected a single sample, got %d", calls.Load())
		}
		assertEventStream(t, collector.snapshot())
	})

	t.Run("cancelling during the UDP phase still takes the after sample", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		measurer, calls := newSampleMeasurer(40, 44, 46)
		recorder := &specRecorder{}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				recorder.record(spec)
				if spec.UDP {
					cancel()
				}
				return resultForSpec(spec)
			},
		}
		result, err := runner.Run(ctx, newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "test was cancelled" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		if len(recorder.snapshot()) != 4 {
			t.Fatalf("expected four sub-tests, got %d", len(recorder.snapshot()))
		}
		// the checkpoint fires after the after sample, so three samples
		if calls.Load() != 3 {
			t.Fatalf("expected three samples, got %d", calls.Load())
		}
		assertEventStream(t, collector.snapshot())
	})

	t.Run("a failing scan does not abort the run", func(t *testing.T) {
		measurer, _ := newSampleMeasurer(40, 44, 46)
		measurer.MockScanWifi = func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
			return nil, errors.New("mocked error")
		}
		collector := &eventCollector{}
		runner := NewRunner(&RunnerConfig{
			Logger:    model.DiscardLogger,
			Measurer:  measurer,
			Publisher: collector,
		})
		runner.bandwidth = &mockBandwidthRunner{
			MockRunSingleTest: func(spec *iperf.RunSpec) *model.BandwidthTestResult {
				return resultForSpec(spec)
			},
		}
		result, err := runner.Run(context.Background(), newDefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if result.Status != "" {
			t.Fatalf("unexpected status: %q", result.Status)
		}
		// the sample sets the header even when the scan failed
		events := collector.snapshot()
		assertEventStream(t, events)
		if done := events[len(events)-1]; done.Header != "HomeNet" {
			t.Fatalf("unexpected done header: %q", done.Header)
		}
	})
}

func TestNewRunner(t *testing.T) {
	t.Run("fills the optional fields with defaults", func(t *testing.T) {
		measurer, _ := newSampleMeasurer(40)
		runner := NewRunner(&RunnerConfig{
			Logger:   model.DiscardLogger,
			Measurer: measurer,
		})
		if runner.maxAttempts != 1 {
			t.Fatalf("unexpected maxAttempts: %d", runner.maxAttempts)
		}
		if runner.publisher != model.DiscardPublisher {
			t.Fatal("unexpected publisher")
		}
		if _, good := runner.bandwidth.(*iperf.Runner); !good {
			t.Fatal("unexpected bandwidth runner type")
		}
		if _, good := runner.sleeper.(stdSleeper); !good {
			t.Fatal("unexpected sleeper type")
		}
	})

	t.Run("honors an explicit attempts ceiling", func(t *testing.T) {
		measurer, _ := newSampleMeasurer(40)
		runner := NewRunner(&RunnerConfig{
			Logger:      model.DiscardLogger,
			Measurer:    measurer,
			MaxAttempts: 3,
		})
		if runner.maxAttempts != 3 {
			t.Fatalf("unexpected maxAttempts: %d", runner.maxAttempts)
		}
	})
}
