package wifi

//
// Linux measurer
//

import (
	"strings"

	"github.com/wifimap/survey-cli/internal/model"
)

// nmcliWifiListFields is the field list we request when listing
// networks. Keep in sync with parseNmcliWifiList.
const nmcliWifiListFields = "ACTIVE,SSID,BSSID,CHAN,FREQ,SIGNAL,SECURITY,RATE"

// linuxMeasurer implements [model.WifiMeasurer] using NetworkManager's
// nmcli for network queries, with iw as the interface-discovery
// fallback. We always use terse (-t) output, which is stable across
// locales, while the human-readable output is localized.
type linuxMeasurer struct {
	deps   dependencies
	logger model.Logger
}

var _ model.WifiMeasurer = &linuxMeasurer{}

// PreflightSettings implements model.WifiMeasurer.
func (m *linuxMeasurer) PreflightSettings(settings *model.MeasurementSettings) string {
	if _, err := m.deps.LookPath("nmcli"); err != nil {
		return "nmcli not found: wifi measurements require NetworkManager"
	}
	if _, err := m.FindWifiInterface(settings); err != nil {
		return "no wireless interface found"
	}
	return ""
}

// CheckIperfServer implements model.WifiMeasurer.
func (m *linuxMeasurer) CheckIperfServer(settings *model.MeasurementSettings) string {
	return probeIperfServer(m.deps, settings)
}

// FindWifiInterface implements model.WifiMeasurer.
func (m *linuxMeasurer) FindWifiInterface(settings *model.MeasurementSettings) (string, error) {
	if settings.InterfaceHint != "" {
		return settings.InterfaceHint, nil
	}
	if data, err := m.deps.Output(m.logger, "iw", "dev"); err == nil {
		if iface := parseIwDevInterface(string(data)); iface != "" {
			return iface, nil
		}
	}
	// iw may not be installed; NetworkManager knows the device types anyway
	data, err := m.deps.Output(m.logger, "nmcli", "-t", "-f", "DEVICE,TYPE", "device", "status")
	if err != nil {
		return "", err
	}
	if iface := parseNmcliWifiDevice(string(data)); iface != "" {
		return iface, nil
	}
	return "", ErrNoWifiInterface
}

// ScanWifi implements model.WifiMeasurer.
func (m *linuxMeasurer) ScanWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	iface, err := m.FindWifiInterface(settings)
	if err != nil {
		return nil, err
	}
	data, err := m.deps.Output(m.logger, "nmcli", "-t", "-f", nmcliWifiListFields,
		"device", "wifi", "list", "ifname", iface)
	if err != nil {
		return nil, err
	}
	return parseNmcliWifiList(string(data)), nil
}

// GetWifi implements model.WifiMeasurer.
func (m *linuxMeasurer) GetWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	iface, err := m.FindWifiInterface(settings)
	if err != nil {
		return nil, err
	}
	// --rescan no reads the current association without triggering a
	// scan, which would perturb the signal we are sampling
	data, err := m.deps.Output(m.logger, "nmcli", "-t", "-f", nmcliWifiListFields,
		"device", "wifi", "list", "ifname", iface, "--rescan", "no")
	if err != nil {
		return nil, err
	}
	snapshot := parseNmcliWifiList(string(data))
	current, found := snapshot.Current()
	if !found {
		return nil, ErrNotAssociated
	}
	return &model.WifiSnapshot{Networks: []model.WifiNetwork{*current}}, nil
}

// parseIwDevInterface extracts the first interface name from the
// output of `iw dev`.
func parseIwDevInterface(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if name, found := strings.CutPrefix(line, "Interface "); found {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// parseNmcliWifiDevice extracts the first wifi-typed device from the
// output of `nmcli -t -f DEVICE,TYPE device status`.
func parseNmcliWifiDevice(output string) string {
	for _, line := range strings.Split(output, "\n") {
		fields := splitTerseLine(strings.TrimSpace(line))
		if len(fields) >= 2 && fields[1] == "wifi" {
			return fields[0]
		}
	}
	return ""
}

// parseNmcliWifiList parses the terse output of a `nmcli -t -f
// ACTIVE,SSID,BSSID,CHAN,FREQ,SIGNAL,SECURITY,RATE device wifi list`
// invocation into a snapshot. Lines we do not understand are
// skipped: a scan with unparsable entries is still useful.
func parseNmcliWifiList(output string) *model.WifiSnapshot {
	snapshot := &model.WifiSnapshot{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := splitTerseLine(line)
		if len(fields) < 8 {
			continue
		}
		channel := parseLeadingInt(fields[3])
		frequency := parseLeadingInt(fields[4])
		if frequency <= 0 {
			frequency = channelToFrequencyMHz(channel)
		}
		signal := parseLeadingInt(fields[5])
		snapshot.Networks = append(snapshot.Networks, model.WifiNetwork{
			SSID:           fields[1],
			BSSID:          strings.ToLower(fields[2]),
			Band:           frequency,
			Channel:        channel,
			Security:       fields[6],
			TxRate:         parseLeadingFloat(fields[7]),
			SignalStrength: signal,
			RSSI:           RSSIFromPercent(signal),
			CurrentSSID:    fields[0] == "yes",
		})
	}
	return snapshot
}

// splitTerseLine splits a nmcli -t output line into fields. Terse
// output separates fields with ":" and escapes literal colons and
// backslashes inside values, which matters for BSSIDs.
func splitTerseLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}
