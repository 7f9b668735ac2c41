// Package progress contains code to scale progress percentages.
package progress

// Handler handles scaled progress percentages.
type Handler func(percentage int64)

// Scaler maps the 0-100 progress range of a single task onto the
// [offset, limit] share that task occupies in a larger operation.
// We use a Scaler to map each bandwidth sub-test's intra-test
// percentage into its equal share of the whole survey's progress.
type Scaler struct {
	handler Handler
	offset  int64
	limit   int64
}

// NewScaler creates a [Scaler] emitting into the given handler. The
// offset must be >= 0 and less than limit; the limit must be <= 100.
func NewScaler(handler Handler, offset, limit int64) *Scaler {
	return &Scaler{
		handler: handler,
		offset:  offset,
		limit:   limit,
	}
}

// OnProgress takes in input a percentage in the 0-100 range local to
// the task and emits the corresponding overall percentage. Integer
// arithmetic floors, so the emitted values stay monotone and never
// overshoot the limit.
func (s *Scaler) OnProgress(percentage int64) {
	s.handler(s.offset + percentage*(s.limit-s.offset)/100)
}
