package mocks

import "github.com/wifimap/survey-cli/internal/model"

// WifiMeasurer allows mocking a [model.WifiMeasurer].
type WifiMeasurer struct {
	MockPreflightSettings func(settings *model.MeasurementSettings) string

	MockCheckIperfServer func(settings *model.MeasurementSettings) string

	MockFindWifiInterface func(settings *model.MeasurementSettings) (string, error)

	MockScanWifi func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error)

	MockGetWifi func(settings *model.MeasurementSettings) (*model.WifiSnapshot, error)
}

var _ model.WifiMeasurer = &WifiMeasurer{}

// PreflightSettings calls MockPreflightSettings.
func (m *WifiMeasurer) PreflightSettings(settings *model.MeasurementSettings) string {
	return m.MockPreflightSettings(settings)
}

// CheckIperfServer calls MockCheckIperfServer.
func (m *WifiMeasurer) CheckIperfServer(settings *model.MeasurementSettings) string {
	return m.MockCheckIperfServer(settings)
}

// FindWifiInterface calls MockFindWifiInterface.
func (m *WifiMeasurer) FindWifiInterface(settings *model.MeasurementSettings) (string, error) {
	return m.MockFindWifiInterface(settings)
}

// ScanWifi calls MockScanWifi.
func (m *WifiMeasurer) ScanWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	return m.MockScanWifi(settings)
}

// GetWifi calls MockGetWifi.
func (m *WifiMeasurer) GetWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	return m.MockGetWifi(settings)
}
