package survey

//
// Progress reporting
//

import (
	"fmt"
	"strings"

	"github.com/wifimap/survey-cli/internal/model"
)

// report accumulates the user-visible state of a run and publishes
// it as progress events. All writes happen from the run goroutine:
// the bandwidth progress callbacks are serialized with it, so there
// is no locking here.
type report struct {
	header     string
	progress   int64
	publisher  model.ProgressPublisher
	signalLine string
	tcpEnabled bool
	testLines  []string
	udpEnabled bool
}

// newReport creates a report for a run with the given settings.
func newReport(publisher model.ProgressPublisher, settings *model.MeasurementSettings) *report {
	return &report{
		header:     "Preparing measurement",
		progress:   0,
		publisher:  publisher,
		signalLine: "",
		tcpEnabled: settings.TCPEnabled,
		testLines:  nil,
		udpEnabled: settings.UDPEnabled,
	}
}

// setHeader replaces the headline, typically with the network name.
func (rep *report) setHeader(header string) {
	rep.header = header
}

// setSignalSample records the most recent signal sample.
func (rep *report) setSignalSample(percentage int64) {
	rep.signalLine = fmt.Sprintf("Signal strength: %d%%", percentage)
}

// addTestLine appends the outcome line of a bandwidth sub-test.
func (rep *report) addTestLine(line string) {
	rep.testLines = append(rep.testLines, line)
}

// resetTestLines drops the accumulated sub-test lines so a retried
// attempt starts from a clean status.
func (rep *report) resetTestLines() {
	rep.testLines = nil
}

// setNotice replaces the whole status with a single notice line.
func (rep *report) setNotice(notice string) {
	rep.signalLine = ""
	rep.testLines = []string{notice}
}

// setProgress advances the progress towards 100. The progress is
// monotone: stale values from a retried attempt cannot move it back.
func (rep *report) setProgress(progress int64) {
	if progress > 100 {
		progress = 100
	}
	if progress > rep.progress {
		rep.progress = progress
	}
}

// statusText renders the status lines as a single string.
func (rep *report) statusText() string {
	var lines []string
	if rep.signalLine != "" {
		lines = append(lines, rep.signalLine)
	}
	lines = append(lines, rep.testLines...)
	return strings.Join(lines, "\n")
}

// publishUpdate publishes the current state as an update event.
func (rep *report) publishUpdate() {
	rep.publisher.Publish(&model.ProgressEvent{
		Type:       model.EventTypeUpdate,
		Header:     rep.header,
		Status:     rep.statusText(),
		TCPEnabled: rep.tcpEnabled,
		UDPEnabled: rep.udpEnabled,
		Progress:   rep.progress,
	})
}

// publishDone publishes the terminal event of a run. The progress is
// forced to 100 so observers can rely on the last event being full.
func (rep *report) publishDone() {
	rep.setProgress(100)
	rep.publisher.Publish(&model.ProgressEvent{
		Type:       model.EventTypeDone,
		Header:     rep.header,
		Status:     rep.statusText(),
		TCPEnabled: rep.tcpEnabled,
		UDPEnabled: rep.udpEnabled,
		Progress:   100,
	})
}
