package survey

//
// Bandwidth test planning
//

import "github.com/wifimap/survey-cli/internal/model"

// testPlan records which bandwidth sub-tests a run will perform and,
// when none will, the reason we show to the user.
type testPlan struct {
	// skipReason is the reason why bandwidth testing is skipped. It is
	// empty when at least one protocol is available.
	skipReason string

	// tcpAvailable indicates that the TCP sub-tests will run.
	tcpAvailable bool

	// udpAvailable indicates that the UDP sub-tests will run.
	udpAvailable bool
}

// buildPlan decides which bandwidth sub-tests the run performs. We
// only probe the server when at least one protocol is enabled and the
// configured address is not the sentinel disabling bandwidth testing.
func (r *Runner) buildPlan(settings *model.MeasurementSettings) *testPlan {
	if !settings.TCPEnabled && !settings.UDPEnabled {
		return &testPlan{}
	}
	if settings.BandwidthTestingDisabled() {
		return &testPlan{skipReason: "bandwidth testing is disabled in the settings"}
	}
	if reason := r.measurer.CheckIperfServer(settings); reason != "" {
		return &testPlan{skipReason: reason}
	}
	return &testPlan{
		tcpAvailable: settings.TCPEnabled,
		udpAvailable: settings.UDPEnabled,
	}
}

// totalUnits returns the number of progress units of the plan, where
// each bandwidth sub-test accounts for one unit.
func (p *testPlan) totalUnits() int64 {
	var units int64
	if p.tcpAvailable {
		units += 2
	}
	if p.udpAvailable {
		units += 2
	}
	return units
}

// unitBounds maps the idx-th unit to its share of the progress range.
func (p *testPlan) unitBounds(idx int64) (offset, limit int64) {
	total := p.totalUnits()
	offset = idx * 100 / total
	limit = (idx + 1) * 100 / total
	return
}

// udpBaseUnit returns the unit index of the UDP download sub-test.
func (p *testPlan) udpBaseUnit() int64 {
	if p.tcpAvailable {
		return 2
	}
	return 0
}
