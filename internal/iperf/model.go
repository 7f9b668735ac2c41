package iperf

//
// Raw iperf3 -J output model
//

// Output is the top-level structure of iperf3's JSON output. We only
// model the subset of fields we consume. A nil End means the tool
// failed before producing a completion section, in which case Error
// usually explains why.
type Output struct {
	Start Start  `json:"start"`
	End   *End   `json:"end"`
	Error string `json:"error"`
}

// Start is the start section of the output.
type Start struct {
	Version   string    `json:"version"`
	TestStart TestStart `json:"test_start"`
}

// TestStart describes the negotiated test parameters.
type TestStart struct {
	Protocol string `json:"protocol"`
	Duration int64  `json:"duration"`
	Reverse  int64  `json:"reverse"`
}

// End is the completion section of the output. Which summary fields
// are present depends on the tool's schema version: newer versions
// emit SumSent and SumReceived alongside Sum, older versions emit
// only Sum. Presence of SumReceived is the version discriminator.
type End struct {
	Streams     []EndStream `json:"streams"`
	Sum         *Summary    `json:"sum"`
	SumSent     *Summary    `json:"sum_sent"`
	SumReceived *Summary    `json:"sum_received"`
}

// EndStream is a per-stream entry in the completion section.
type EndStream struct {
	Sender   *Summary `json:"sender"`
	Receiver *Summary `json:"receiver"`
	UDP      *Summary `json:"udp"`
}

// Summary is a traffic summary. TCP summaries populate Retransmits
// while UDP summaries populate JitterMs, LostPackets, and Packets;
// Retransmits is a pointer because the field is absent from UDP
// payloads and we must preserve that absence.
type Summary struct {
	Seconds       float64 `json:"seconds"`
	Bytes         int64   `json:"bytes"`
	BitsPerSecond float64 `json:"bits_per_second"`
	Retransmits   *int64  `json:"retransmits"`
	JitterMs      float64 `json:"jitter_ms"`
	LostPackets   int64   `json:"lost_packets"`
	Packets       int64   `json:"packets"`
}
