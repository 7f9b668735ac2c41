package model

//
// Measurement settings
//

// IperfServerDisabled is the sentinel [MeasurementSettings.IperfServerAddress]
// value meaning that bandwidth testing is disabled and the run should
// only sample signal strength.
const IperfServerDisabled = "localhost"

// MeasurementSettings is the caller-supplied configuration of a survey
// run. The engine treats it as a read-only value.
type MeasurementSettings struct {
	// IperfServerAddress is the iperf3 server expressed as "host" or
	// "host:port". The literal "localhost" disables bandwidth testing.
	IperfServerAddress string `json:"iperfServerAddress"`

	// TestDuration is the duration of each bandwidth sub-test in seconds.
	TestDuration int64 `json:"testDuration"`

	// TCPEnabled enables the TCP bandwidth sub-tests.
	TCPEnabled bool `json:"iperfTcpEnabled"`

	// UDPEnabled enables the UDP bandwidth sub-tests.
	UDPEnabled bool `json:"iperfUdpEnabled"`

	// InterfaceHint optionally names the wireless interface to use
	// instead of discovering one.
	InterfaceHint string `json:"interfaceHint,omitempty"`

	// SudoPassword is the password the macOS adapter uses to run
	// privileged wireless queries. Never logged.
	SudoPassword string `json:"sudoPassword,omitempty"`

	// IperfPath optionally overrides the iperf3 binary location.
	IperfPath string `json:"iperfPath,omitempty"`
}

// BandwidthTestingDisabled returns whether the settings disable
// bandwidth testing through the localhost sentinel.
func (s *MeasurementSettings) BandwidthTestingDisabled() bool {
	return s.IperfServerAddress == IperfServerDisabled
}
