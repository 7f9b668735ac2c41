package iperf

//
// Output normalization
//

import (
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/optional"
)

// endSummary is the schema-specific view of a completion section.
// There are exactly two implementations, one per deployed iperf3
// output schema, and [detectSchema] picks the right one.
type endSummary interface {
	// throughput returns the summary from which to read the
	// throughput, or nil when the payload carries none.
	throughput(isUDP bool) *Summary

	// retransmits returns the retransmit count when the payload
	// carries one. We read it unconditionally per schema and keep
	// whatever the source provides, so it stays empty for UDP
	// payloads, which lack the field.
	retransmits() optional.Value[int64]

	// udpStats returns the summary carrying the UDP statistics,
	// or nil when the payload carries none.
	udpStats() *Summary
}

// splitEnd is the newer schema, where the completion section has
// distinct sum_received and sum_sent sections beside the combined
// sum.
type splitEnd struct {
	end *End
}

var _ endSummary = &splitEnd{}

// throughput implements [endSummary]. For TCP we read the received
// section. For UDP we read the combined sum instead: the received
// figure covers a single stream's measured rate while the sum
// reflects the rate the test reported for the whole transfer.
func (s *splitEnd) throughput(isUDP bool) *Summary {
	if isUDP {
		return s.end.Sum
	}
	return s.end.SumReceived
}

// retransmits implements [endSummary] by reading the sent section.
func (s *splitEnd) retransmits() optional.Value[int64] {
	if s.end.SumSent == nil || s.end.SumSent.Retransmits == nil {
		return optional.None[int64]()
	}
	return optional.Some(*s.end.SumSent.Retransmits)
}

// udpStats implements [endSummary].
func (s *splitEnd) udpStats() *Summary {
	return s.end.Sum
}

// combinedEnd is the older schema, where the completion section only
// has the combined sum.
type combinedEnd struct {
	end *End
}

var _ endSummary = &combinedEnd{}

// throughput implements [endSummary]. The combined sum is all we
// have, regardless of protocol.
func (c *combinedEnd) throughput(isUDP bool) *Summary {
	return c.end.Sum
}

// retransmits implements [endSummary] by reading the combined sum.
func (c *combinedEnd) retransmits() optional.Value[int64] {
	if c.end.Sum == nil || c.end.Sum.Retransmits == nil {
		return optional.None[int64]()
	}
	return optional.Some(*c.end.Sum.Retransmits)
}

// udpStats implements [endSummary].
func (c *combinedEnd) udpStats() *Summary {
	return c.end.Sum
}

// detectSchema classifies a completion section by schema version. The
// presence of the received section is the discriminator.
func detectSchema(end *End) endSummary {
	if end.SumReceived != nil {
		return &splitEnd{end}
	}
	return &combinedEnd{end}
}

// Extract normalizes a raw iperf3 payload into a
// [model.BandwidthTestResult].
//
// A payload without a completion section yields the all-empty "not
// run" result. A throughput of exactly zero is normalized to empty:
// zero bits per second is never a meaningful measurement and always
// indicates a tool or parsing failure. UDP statistics are only read
// when isUDP is true and forced empty otherwise, whatever the
// payload contains.
func Extract(logger model.Logger, output *Output, isUDP bool) *model.BandwidthTestResult {
	logger = model.ValidLoggerOrDefault(logger)
	result := &model.BandwidthTestResult{}
	if output.End == nil {
		if output.Error != "" {
			logger.Warnf("iperf: tool reported failure: %s", output.Error)
		}
		return result
	}
	summary := detectSchema(output.End)
	if tp := summary.throughput(isUDP); tp != nil && tp.BitsPerSecond != 0 {
		result.BitsPerSecond = optional.Some(tp.BitsPerSecond)
	}
	result.Retransmits = summary.retransmits()
	if isUDP {
		if stats := summary.udpStats(); stats != nil {
			result.JitterMs = optional.Some(stats.JitterMs)
			result.LostPackets = optional.Some(stats.LostPackets)
			result.PacketsReceived = optional.Some(stats.Packets)
		}
	}
	return result
}
