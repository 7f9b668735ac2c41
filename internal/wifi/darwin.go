package wifi

//
// macOS measurer
//

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wifimap/survey-cli/internal/logx"
	"github.com/wifimap/survey-cli/internal/model"
)

// darwinMeasurer implements [model.WifiMeasurer] using wdutil for the
// current association and system_profiler for scanning. wdutil
// redacts the SSID and BSSID unless it runs as root, so we run it
// through sudo with the password from the settings and scrub the
// password from our own logs.
type darwinMeasurer struct {
	deps   dependencies
	logger model.Logger
}

var _ model.WifiMeasurer = &darwinMeasurer{}

// PreflightSettings implements model.WifiMeasurer.
func (m *darwinMeasurer) PreflightSettings(settings *model.MeasurementSettings) string {
	if settings.SudoPassword == "" {
		return "macOS needs the administrator password to read wifi details"
	}
	if _, err := m.FindWifiInterface(settings); err != nil {
		return "no wireless interface found"
	}
	return ""
}

// CheckIperfServer implements model.WifiMeasurer.
func (m *darwinMeasurer) CheckIperfServer(settings *model.MeasurementSettings) string {
	return probeIperfServer(m.deps, settings)
}

// FindWifiInterface implements model.WifiMeasurer.
func (m *darwinMeasurer) FindWifiInterface(settings *model.MeasurementSettings) (string, error) {
	if settings.InterfaceHint != "" {
		return settings.InterfaceHint, nil
	}
	report, err := m.fetchAirportReport()
	if err != nil {
		return "", err
	}
	for _, iface := range report.interfaces() {
		if iface.Name != "" {
			return iface.Name, nil
		}
	}
	return "", ErrNoWifiInterface
}

// ScanWifi implements model.WifiMeasurer.
func (m *darwinMeasurer) ScanWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	report, err := m.fetchAirportReport()
	if err != nil {
		return nil, err
	}
	snapshot := &model.WifiSnapshot{}
	for _, iface := range report.interfaces() {
		if iface.CurrentNetwork != nil {
			snapshot.Networks = append(snapshot.Networks,
				newNetworkFromAirport(iface.CurrentNetwork, true))
		}
		for idx := range iface.OtherNetworks {
			snapshot.Networks = append(snapshot.Networks,
				newNetworkFromAirport(&iface.OtherNetworks[idx], false))
		}
	}
	return snapshot, nil
}

// GetWifi implements model.WifiMeasurer.
func (m *darwinMeasurer) GetWifi(settings *model.MeasurementSettings) (*model.WifiSnapshot, error) {
	logger := &logx.ScrubberLogger{
		Logger:  m.logger,
		Secrets: []string{settings.SudoPassword},
	}
	data, err := m.deps.Output(logger, "sh", "-c", wdutilCommandLine(settings.SudoPassword))
	if err != nil {
		return nil, err
	}
	network, err := parseWdutilInfo(string(data))
	if err != nil {
		return nil, err
	}
	return &model.WifiSnapshot{Networks: []model.WifiNetwork{*network}}, nil
}

// fetchAirportReport runs system_profiler and parses its JSON report.
func (m *darwinMeasurer) fetchAirportReport() (*airportReport, error) {
	data, err := m.deps.Output(m.logger, "system_profiler", "SPAirPortDataType", "-json")
	if err != nil {
		return nil, err
	}
	var report airportReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// wdutilCommandLine builds the shell command reading the current
// association. The password goes to sudo's stdin, not the command
// line, but it still appears in the line we log, hence the scrubber
// in GetWifi.
func wdutilCommandLine(password string) string {
	return fmt.Sprintf("echo %s | sudo -S wdutil info", shellQuote(password))
}

// shellQuote wraps s in single quotes such that the shell passes it
// through verbatim.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// parseWdutilInfo parses the WIFI section of `wdutil info` output
// into the currently associated network.
func parseWdutilInfo(output string) (*model.WifiNetwork, error) {
	values := parseWdutilSection(output, "WIFI")
	if values["SSID"] == "" || strings.EqualFold(values["SSID"], "none") {
		return nil, ErrNotAssociated
	}
	channel, width := parseWdutilChannel(values["Channel"])
	rssi := parseLeadingInt(values["RSSI"])
	return &model.WifiNetwork{
		SSID:           values["SSID"],
		BSSID:          strings.ToLower(values["BSSID"]),
		Band:           channelToFrequencyMHz(channel),
		Channel:        channel,
		ChannelWidth:   width,
		Security:       values["Security"],
		TxRate:         parseLeadingFloat(values["Tx Rate"]),
		PhyMode:        values["PHY Mode"],
		SignalStrength: PercentFromRSSI(rssi),
		RSSI:           rssi,
		CurrentSSID:    true,
	}, nil
}

// parseWdutilSection collects the "Key : Value" pairs inside the
// named section of `wdutil info` output. Sections matter because
// keys such as "MAC Address" repeat across sections.
func parseWdutilSection(output, section string) map[string]string {
	values := make(map[string]string)
	inSection := false
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "—") || strings.HasPrefix(trimmed, "-") {
			continue
		}
		if !strings.Contains(trimmed, ":") {
			// a bare word between rulers is a section header
			inSection = trimmed == section
			continue
		}
		if !inSection {
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if _, ok := values[key]; !ok {
			values[key] = value
		}
	}
	return values
}

// parseWdutilChannel parses wdutil channel notation such as
// "5g44/80": band tag, channel number, optional width.
func parseWdutilChannel(value string) (channel int64, width int64) {
	if idx := strings.IndexByte(value, 'g'); idx >= 0 {
		value = value[idx+1:]
	}
	parts := strings.SplitN(value, "/", 2)
	channel = parseLeadingInt(parts[0])
	if len(parts) == 2 {
		width = parseLeadingInt(parts[1])
	}
	return
}

//
// system_profiler SPAirPortDataType -json subset
//

// airportReport models the system_profiler JSON report.
type airportReport struct {
	SPAirPortDataType []airportData `json:"SPAirPortDataType"`
}

// interfaces flattens the wireless interfaces across data entries.
func (r *airportReport) interfaces() []airportInterface {
	var all []airportInterface
	for _, data := range r.SPAirPortDataType {
		all = append(all, data.Interfaces...)
	}
	return all
}

// airportData is an entry of the SPAirPortDataType array.
type airportData struct {
	Interfaces []airportInterface `json:"spairport_airport_interfaces"`
}

// airportInterface is a wireless interface in the report.
type airportInterface struct {
	Name           string           `json:"_name"`
	CurrentNetwork *airportNetwork  `json:"spairport_current_network_information"`
	OtherNetworks  []airportNetwork `json:"spairport_airport_other_local_wireless_networks"`
}

// airportNetwork is a network in the report. The report never
// includes BSSIDs: recent macOS releases treat them as location
// data, which is why the current association comes from wdutil.
type airportNetwork struct {
	Name         string `json:"_name"`
	Channel      string `json:"spairport_network_channel"`
	PhyMode      string `json:"spairport_network_phymode"`
	SecurityMode string `json:"spairport_security_mode"`
	SignalNoise  string `json:"spairport_signal_noise"`
}

// airportSecurityNames maps system_profiler security constants to
// the names users expect.
var airportSecurityNames = map[string]string{
	"spairport_security_mode_none":            "None",
	"spairport_security_mode_wep":             "WEP",
	"spairport_security_mode_wpa_personal":    "WPA Personal",
	"spairport_security_mode_wpa2_personal":   "WPA2 Personal",
	"spairport_security_mode_wpa3_personal":   "WPA3 Personal",
	"spairport_security_mode_wpa2_enterprise": "WPA2 Enterprise",
	"spairport_security_mode_wpa3_enterprise": "WPA3 Enterprise",
	"spairport_security_mode_wpa3_transition": "WPA3 Personal Mixed",
}

// airportSecurityName resolves a security constant, falling back to
// the raw value for constants we do not know.
func airportSecurityName(mode string) string {
	if name, ok := airportSecurityNames[mode]; ok {
		return name
	}
	return mode
}

// parseAirportChannel parses system_profiler channel notation such
// as "44 (5GHz, 80MHz)".
func parseAirportChannel(value string) (channel int64, width int64) {
	channel = parseLeadingInt(value)
	if _, rest, found := strings.Cut(value, ","); found {
		width = parseLeadingInt(rest)
	}
	return
}

// newNetworkFromAirport converts a report network into a model one.
func newNetworkFromAirport(entry *airportNetwork, current bool) model.WifiNetwork {
	channel, width := parseAirportChannel(entry.Channel)
	rssi := parseLeadingInt(entry.SignalNoise)
	var strength int64
	if rssi != 0 {
		strength = PercentFromRSSI(rssi)
	}
	return model.WifiNetwork{
		SSID:           entry.Name,
		Band:           channelToFrequencyMHz(channel),
		Channel:        channel,
		ChannelWidth:   width,
		Security:       airportSecurityName(entry.SecurityMode),
		PhyMode:        entry.PhyMode,
		SignalStrength: strength,
		RSSI:           rssi,
		CurrentSSID:    current,
	}
}
