// Package wifi implements the [model.WifiMeasurer] contract for each
// supported operating system.
//
// Each measurer wraps the wireless command-line toolchain of its
// platform: NetworkManager's nmcli (plus iw) on Linux, wdutil and
// system_profiler on macOS, netsh on Windows. The toolchain quirks,
// including privileged execution on macOS, stay inside this package;
// callers only ever see [model.WifiSnapshot] values and reason
// strings.
//
// Use [NewMeasurer] to construct the measurer for the platform on
// which we are running.
package wifi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/platform"
)

var (
	// ErrNoWifiInterface indicates that we could not find a wireless
	// network interface on this system.
	ErrNoWifiInterface = errors.New("wifi: no wireless interface found")

	// ErrNotAssociated indicates that the wireless interface is not
	// associated with any network.
	ErrNotAssociated = errors.New("wifi: not associated with any network")

	// ErrUnsupportedPlatform indicates that there is no measurer for
	// the platform on which we are running.
	ErrUnsupportedPlatform = errors.New("wifi: unsupported platform")

	// ErrCannotParseOutput indicates that a system tool produced
	// output we do not understand.
	ErrCannotParseOutput = errors.New("wifi: cannot parse tool output")
)

// NewMeasurer creates the [model.WifiMeasurer] for the platform on
// which we are running. We choose the measurer exactly once, here:
// the rest of the codebase never inspects the platform again.
func NewMeasurer(logger model.Logger) model.WifiMeasurer {
	logger = model.ValidLoggerOrDefault(logger)
	deps := &stdDependencies{}
	switch platform.Name() {
	case "linux":
		return &linuxMeasurer{deps: deps, logger: logger}
	case "macos":
		return &darwinMeasurer{deps: deps, logger: logger}
	case "windows":
		return &windowsMeasurer{deps: deps, logger: logger}
	default:
		return &unsupportedMeasurer{}
	}
}

// unsupportedMeasurer is the [model.WifiMeasurer] returned by
// [NewMeasurer] on platforms we do not support. Preflight always
// fails, so the orchestrator aborts before calling anything else.
type unsupportedMeasurer struct{}

var _ model.WifiMeasurer = &unsupportedMeasurer{}

// PreflightSettings implements model.WifiMeasurer.
func (*unsupportedMeasurer) PreflightSettings(settings *model.MeasurementSettings) string {
	return fmt.Sprintf("wifi measurements are not supported on %s", runtime.GOOS)
}

// CheckIperfServer implements model.WifiMeasurer.
func (*unsupportedMeasurer) CheckIperfServer(settings *model.MeasurementSettings) string {
	return fmt.Sprintf("wifi measurements are not supported on %s", runtime.GOOS)
}

// FindWifiInterface implements model.WifiMeasurer.
func (*unsupportedMeasurer) FindWifiInterface(settings *model.MeasurementSettings) (string, error) {
	return "", ErrUnsupportedPlatform
}

// ScanWifi implements model.WifiMeasurer.
func (*unsupportedMeasurer) ScanWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	return nil, ErrUnsupportedPlatform
}

// GetWifi implements model.WifiMeasurer.
func (*unsupportedMeasurer) GetWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	return nil, ErrUnsupportedPlatform
}
