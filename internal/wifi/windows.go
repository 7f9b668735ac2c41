package wifi

//
// Windows measurer
//

import (
	"strings"

	"github.com/wifimap/survey-cli/internal/model"
)

// windowsMeasurer implements [model.WifiMeasurer] using netsh. We
// parse the English key names: netsh localizes its output and we do
// not attempt to cover other locales.
type windowsMeasurer struct {
	deps   dependencies
	logger model.Logger
}

var _ model.WifiMeasurer = &windowsMeasurer{}

// PreflightSettings implements model.WifiMeasurer.
func (m *windowsMeasurer) PreflightSettings(settings *model.MeasurementSettings) string {
	if _, err := m.FindWifiInterface(settings); err != nil {
		return "no wifi interface found: is the WLAN service running?"
	}
	return ""
}

// CheckIperfServer implements model.WifiMeasurer.
func (m *windowsMeasurer) CheckIperfServer(settings *model.MeasurementSettings) string {
	return probeIperfServer(m.deps, settings)
}

// FindWifiInterface implements model.WifiMeasurer.
func (m *windowsMeasurer) FindWifiInterface(settings *model.MeasurementSettings) (string, error) {
	if settings.InterfaceHint != "" {
		return settings.InterfaceHint, nil
	}
	data, err := m.deps.Output(m.logger, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		return "", err
	}
	values := parseNetshKeyValues(string(data))
	if name := values["Name"]; name != "" {
		return name, nil
	}
	return "", ErrNoWifiInterface
}

// ScanWifi implements model.WifiMeasurer.
func (m *windowsMeasurer) ScanWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	data, err := m.deps.Output(m.logger, "netsh", "wlan", "show", "networks", "mode=bssid")
	if err != nil {
		return nil, err
	}
	snapshot := parseNetshNetworks(string(data))
	// scanning alone cannot tell the association, so mark the
	// current entry from the interface state, best effort
	if current, err := m.GetWifi(settings); err == nil {
		markCurrentNetwork(snapshot, &current.Networks[0])
	}
	return snapshot, nil
}

// GetWifi implements model.WifiMeasurer.
func (m *windowsMeasurer) GetWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	data, err := m.deps.Output(m.logger, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		return nil, err
	}
	network, err := parseNetshInterfaces(string(data))
	if err != nil {
		return nil, err
	}
	return &model.WifiSnapshot{Networks: []model.WifiNetwork{*network}}, nil
}

// parseNetshInterfaces parses `netsh wlan show interfaces` output
// into the currently associated network.
func parseNetshInterfaces(output string) (*model.WifiNetwork, error) {
	values := parseNetshKeyValues(output)
	if !strings.EqualFold(values["State"], "connected") {
		return nil, ErrNotAssociated
	}
	if values["SSID"] == "" {
		return nil, ErrNotAssociated
	}
	channel := parseLeadingInt(values["Channel"])
	signal := parseLeadingInt(values["Signal"])
	return &model.WifiNetwork{
		SSID:           values["SSID"],
		BSSID:          strings.ToLower(values["BSSID"]),
		Band:           channelToFrequencyMHz(channel),
		Channel:        channel,
		Security:       values["Authentication"],
		TxRate:         parseLeadingFloat(values["Transmit rate (Mbps)"]),
		PhyMode:        values["Radio type"],
		SignalStrength: signal,
		RSSI:           RSSIFromPercent(signal),
		CurrentSSID:    true,
	}, nil
}

// parseNetshKeyValues parses the "Key : Value" lines printed by
// netsh into a map. The first occurrence of a key wins, so with
// multiple interfaces we read the first one.
func parseNetshKeyValues(output string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if _, ok := values[key]; !ok {
			values[key] = value
		}
	}
	return values
}

// parseNetshNetworks parses `netsh wlan show networks mode=bssid`
// output. Each "SSID N" line opens a network block whose
// Authentication applies to every "BSSID N" entry nested under it.
func parseNetshNetworks(output string) *model.WifiSnapshot {
	snapshot := &model.WifiSnapshot{}
	var (
		ssid     string
		security string
		current  *model.WifiNetwork
	)
	flush := func() {
		if current != nil {
			snapshot.Networks = append(snapshot.Networks, *current)
			current = nil
		}
	}
	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch {
		case strings.HasPrefix(key, "SSID "):
			flush()
			ssid, security = value, ""
		case strings.HasPrefix(key, "BSSID "):
			flush()
			current = &model.WifiNetwork{
				SSID:     ssid,
				BSSID:    strings.ToLower(value),
				Security: security,
			}
		case key == "Authentication":
			security = value
		case current == nil:
			// keys between "SSID N" and the first BSSID describe
			// the network block, not an access point
		case key == "Signal":
			signal := parseLeadingInt(value)
			current.SignalStrength = signal
			current.RSSI = RSSIFromPercent(signal)
		case key == "Radio type":
			current.PhyMode = value
		case key == "Channel":
			current.Channel = parseLeadingInt(value)
			current.Band = channelToFrequencyMHz(current.Channel)
		}
	}
	flush()
	return snapshot
}

// markCurrentNetwork flags the scanned entry matching the associated
// network, appending the latter when the scan missed it.
func markCurrentNetwork(snapshot *model.WifiSnapshot, associated *model.WifiNetwork) {
	for idx := range snapshot.Networks {
		network := &snapshot.Networks[idx]
		if network.BSSID != "" && strings.EqualFold(network.BSSID, associated.BSSID) {
			network.CurrentSSID = true
			return
		}
	}
	snapshot.Networks = append(snapshot.Networks, *associated)
}
