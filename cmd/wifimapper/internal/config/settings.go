package config

// Iperf contains the bandwidth testing settings.
type Iperf struct {
	// ServerAddress is the iperf3 server expressed as "host" or
	// "host:port". The literal "localhost" disables bandwidth testing.
	ServerAddress string `json:"server_address"`

	// TestDuration is the duration of each bandwidth sub-test in seconds.
	TestDuration int64 `json:"test_duration"`

	// TCPEnabled enables the TCP bandwidth sub-tests.
	TCPEnabled bool `json:"tcp_enabled"`

	// UDPEnabled enables the UDP bandwidth sub-tests.
	UDPEnabled bool `json:"udp_enabled"`

	// BinaryPath optionally overrides the iperf3 binary location.
	BinaryPath string `json:"binary_path"`
}

// Sampling contains the wireless sampling settings.
type Sampling struct {
	// InterfaceHint optionally names the wireless interface to use
	// instead of discovering one.
	InterfaceHint string `json:"interface_hint"`

	// SudoPassword is the password used on macOS to run privileged
	// wireless queries. Never logged.
	SudoPassword string `json:"sudo_password"`

	// MaxAttempts is how many times a run is retried when the
	// network changes mid-run.
	MaxAttempts int64 `json:"max_attempts"`
}

// Advanced settings.
type Advanced struct {
	// DaemonAddress is the address where the serve command listens.
	DaemonAddress string `json:"daemon_address"`

	// SendCrashReports enables submitting crash reports to Sentry.
	SendCrashReports bool `json:"send_crash_reports"`
}
