package mocks

import "github.com/wifimap/survey-cli/internal/model"

// SurveyStore allows mocking a [model.SurveyStore].
type SurveyStore struct {
	MockCreatePoint func(point *model.SurveyPoint) error

	MockDeletePoint func(token string) error

	MockListPoints func() ([]*model.SurveyPoint, error)

	MockSummarizeBySSID func() ([]*model.SSIDSummary, error)

	MockClose func() error
}

var _ model.SurveyStore = &SurveyStore{}

// CreatePoint calls MockCreatePoint.
func (s *SurveyStore) CreatePoint(point *model.SurveyPoint) error {
	return s.MockCreatePoint(point)
}

// DeletePoint calls MockDeletePoint.
func (s *SurveyStore) DeletePoint(token string) error {
	return s.MockDeletePoint(token)
}

// ListPoints calls MockListPoints.
func (s *SurveyStore) ListPoints() ([]*model.SurveyPoint, error) {
	return s.MockListPoints()
}

// SummarizeBySSID calls MockSummarizeBySSID.
func (s *SurveyStore) SummarizeBySSID() ([]*model.SSIDSummary, error) {
	return s.MockSummarizeBySSID()
}

// Close calls MockClose.
func (s *SurveyStore) Close() error {
	return s.MockClose()
}
