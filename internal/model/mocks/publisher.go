package mocks

import "github.com/wifimap/survey-cli/internal/model"

// ProgressPublisher allows mocking a [model.ProgressPublisher].
type ProgressPublisher struct {
	MockPublish func(ev *model.ProgressEvent)
}

var _ model.ProgressPublisher = &ProgressPublisher{}

// Publish calls MockPublish.
func (p *ProgressPublisher) Publish(ev *model.ProgressEvent) {
	p.MockPublish(ev)
}
