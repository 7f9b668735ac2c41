package model

//
// Progress events
//

// Type of a [ProgressEvent].
const (
	// EventTypeUpdate labels intermediate progress events.
	EventTypeUpdate = "update"

	// EventTypeDone labels the final event of a run. Every run emits
	// exactly one done event, on every terminal path.
	EventTypeDone = "done"
)

// ProgressEvent is the wire message describing the state of the
// current survey run. Field names are part of the contract with the
// visualization layer, hence the camelCase tags.
type ProgressEvent struct {
	// Type is either "update" or "done".
	Type string `json:"type"`

	// Header is the headline of the current phase.
	Header string `json:"header"`

	// Status contains the newline-joined status lines (signal
	// strength, TCP, UDP).
	Status string `json:"status"`

	// TCPEnabled mirrors the TCP setting of the current run.
	TCPEnabled bool `json:"tcpEnabled"`

	// UDPEnabled mirrors the UDP setting of the current run.
	UDPEnabled bool `json:"udpEnabled"`

	// Progress is a 0-100 percentage. It is monotonically
	// non-decreasing within a run and is exactly 100 when
	// Type is "done".
	Progress int64 `json:"progress"`
}

// ProgressPublisher delivers progress events, in publish order, to an
// external observer such as the CLI progress bar or the daemon's
// websocket hub. Publish must not block the measurement.
type ProgressPublisher interface {
	Publish(ev *ProgressEvent)
}

// DiscardPublisher is a [ProgressPublisher] dropping every event.
var DiscardPublisher ProgressPublisher = discardPublisher{}

type discardPublisher struct{}

func (discardPublisher) Publish(ev *ProgressEvent) {}

// ValidPublisherOrDefault is a factory that either returns the
// publisher provided as argument, if not nil, or [DiscardPublisher].
func ValidPublisherOrDefault(publisher ProgressPublisher) ProgressPublisher {
	if publisher != nil {
		return publisher
	}
	return DiscardPublisher
}
