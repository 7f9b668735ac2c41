package model

import "github.com/wifimap/survey-cli/internal/optional"

//
// Bandwidth sub-test results
//

// BandwidthTestResult is the outcome of a single bandwidth sub-test,
// that is, one direction/protocol combination. The zero value is the
// canonical "not run" result with every field empty.
//
// An empty BitsPerSecond means the sub-test failed or did not run;
// it never means zero throughput, which is itself normalized to
// empty. The UDP-only fields are always empty on TCP results.
type BandwidthTestResult struct {
	// BitsPerSecond is the measured throughput.
	BitsPerSecond optional.Value[float64] `json:"bitsPerSecond"`

	// Retransmits is the TCP retransmission count.
	Retransmits optional.Value[int64] `json:"retransmits"`

	// JitterMs is the UDP jitter in milliseconds.
	JitterMs optional.Value[float64] `json:"jitterMs"`

	// LostPackets is the number of lost UDP packets.
	LostPackets optional.Value[int64] `json:"lostPackets"`

	// PacketsReceived is the number of UDP packets received.
	PacketsReceived optional.Value[int64] `json:"packetsReceived"`
}

// BandwidthSurveyResult aggregates the four bandwidth sub-tests of a
// survey run. Each entry defaults to the "not run" result.
type BandwidthSurveyResult struct {
	TCPDownload BandwidthTestResult `json:"tcpDownload"`
	TCPUpload   BandwidthTestResult `json:"tcpUpload"`
	UDPDownload BandwidthTestResult `json:"udpDownload"`
	UDPUpload   BandwidthTestResult `json:"udpUpload"`
}
