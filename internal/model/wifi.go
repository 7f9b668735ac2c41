package model

//
// Wi-Fi snapshots and the platform adapter contract
//

// WifiNetwork is a single network entry inside a [WifiSnapshot].
type WifiNetwork struct {
	// SSID is the network display name.
	SSID string `json:"ssid"`

	// BSSID identifies the access point we are talking to.
	BSSID string `json:"bssid"`

	// Band is the radio frequency in MHz (e.g., 2437, 5180).
	Band int64 `json:"band"`

	// Channel is the radio channel number.
	Channel int64 `json:"channel"`

	// ChannelWidth is the channel width in MHz.
	ChannelWidth int64 `json:"channelWidth"`

	// Security names the security protocol (e.g., "WPA2-PSK").
	Security string `json:"security"`

	// TxRate is the negotiated transmit rate in Mbit/s.
	TxRate float64 `json:"txRate"`

	// PhyMode is the PHY mode (e.g., "802.11ax").
	PhyMode string `json:"phyMode"`

	// SignalStrength is the signal quality as a 0-100 percentage.
	SignalStrength int64 `json:"signalStrength"`

	// RSSI is the received signal strength in dBm.
	RSSI int64 `json:"rssi"`

	// CurrentSSID marks the currently associated network. At most
	// one entry per snapshot has this flag set.
	CurrentSSID bool `json:"currentSSID"`
}

// WifiSnapshot is a point-in-time read of wireless network state
// produced by a [WifiMeasurer]. A snapshot is immutable once
// returned.
type WifiSnapshot struct {
	Networks []WifiNetwork `json:"networks"`
}

// Current returns the currently associated network entry, if any.
func (s *WifiSnapshot) Current() (*WifiNetwork, bool) {
	for idx := range s.Networks {
		if s.Networks[idx].CurrentSSID {
			return &s.Networks[idx], true
		}
	}
	return nil, false
}

// WifiMeasurer queries the wireless state of the machine we are
// running on. There is one implementation per supported operating
// system, each wrapping that system's command-line toolchain.
//
// Methods are synchronous and not preemptible: they typically run
// one or more subprocesses to completion. Credential handling,
// elevated-privilege execution, and output parsing are internal to
// each implementation; callers only see the contract's values.
type WifiMeasurer interface {
	// PreflightSettings checks whether the given settings suffice to
	// attempt a measurement. An empty reason means proceed; a
	// non-empty reason is a human-readable explanation of what is
	// missing and blocks the run before any sampling occurs.
	PreflightSettings(settings *MeasurementSettings) (reason string)

	// CheckIperfServer probes the configured bandwidth server for
	// reachability. A non-empty reason degrades bandwidth testing
	// to "skipped" rather than aborting the whole run.
	CheckIperfServer(settings *MeasurementSettings) (reason string)

	// FindWifiInterface resolves which wireless interface to query.
	FindWifiInterface(settings *MeasurementSettings) (string, error)

	// ScanWifi returns the set of visible networks. The orchestrator
	// calls this once, at the start of a run, to extract the
	// associated network's display name.
	ScanWifi(settings *MeasurementSettings) (*WifiSnapshot, error)

	// GetWifi returns current signal and metadata for the associated
	// network. The orchestrator calls this three times per run.
	GetWifi(settings *MeasurementSettings) (*WifiSnapshot, error)
}
