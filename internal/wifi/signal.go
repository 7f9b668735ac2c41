package wifi

//
// Signal conversions and text parsing helpers
//

import (
	"strconv"
	"strings"
)

// channelToFrequencyMHz maps a wifi channel number to its center
// frequency in MHz. Channel numbers above 177 belong to the 6 GHz
// band: the 6 GHz numbering overlaps the 2.4 GHz one, and every
// toolchain we parse reports the low numbers as 2.4 GHz. Returns
// zero for channels we cannot map.
func channelToFrequencyMHz(channel int64) int64 {
	switch {
	case channel >= 1 && channel <= 13:
		return 2407 + 5*channel
	case channel == 14:
		return 2484
	case channel >= 32 && channel <= 177:
		return 5000 + 5*channel
	case channel > 177:
		return 5950 + 5*channel
	default:
		return 0
	}
}

// PercentFromRSSI converts an RSSI reading in dBm into the 0-100
// percentage scale used for display, clamping out-of-range input.
func PercentFromRSSI(rssi int64) int64 {
	percentage := 2 * (rssi + 100)
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return percentage
}

// RSSIFromPercent is the inverse of [PercentFromRSSI] modulo
// rounding: it maps a 0-100 percentage back to dBm rounding half
// up.
func RSSIFromPercent(percentage int64) int64 {
	return (percentage+1)/2 - 100
}

// parseLeadingInt parses the integer prefix of strings such as
// "5220 MHz", "84%", or "-58 dBm", ignoring whatever follows the
// number. Returns zero when there is no integer prefix.
func parseLeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		if s[end] >= '0' && s[end] <= '9' {
			end++
			continue
		}
		if end == 0 && s[end] == '-' {
			end++
			continue
		}
		break
	}
	value, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// parseLeadingFloat is like [parseLeadingInt] but parses the float
// prefix of strings such as "780.0 Mbps" or "270 Mbit/s".
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		if s[end] >= '0' && s[end] <= '9' || s[end] == '.' {
			end++
			continue
		}
		if end == 0 && s[end] == '-' {
			end++
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return value
}
