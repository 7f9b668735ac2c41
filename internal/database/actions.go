package database

//
// Survey point actions
//

import (
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/upper/db/v4"
	"github.com/wifimap/survey-cli/internal/model"
)

// surveyPointsTable is the table holding survey points.
const surveyPointsTable = "survey_points"

// ErrNoSuchPoint indicates the requested point does not exist.
var ErrNoSuchPoint = errors.New("database: no such survey point")

// Store persists survey points inside an upper/db session. Use
// [NewStore] to construct.
type Store struct {
	logger model.Logger
	sess   db.Session
}

var _ model.SurveyStore = &Store{}

// NewStore creates a [Store] backed by the given session.
func NewStore(sess db.Session, logger model.Logger) *Store {
	return &Store{
		logger: model.ValidLoggerOrDefault(logger),
		sess:   sess,
	}
}

// CreatePoint implements [model.WritableSurveyStore]. It fills the
// point's ID, Token, and CreatedAt fields.
func (s *Store) CreatePoint(point *model.SurveyPoint) error {
	point.Token = uuid.NewString()
	point.CreatedAt = time.Now().UTC()
	res, err := s.sess.Collection(surveyPointsTable).Insert(point)
	if err != nil {
		return errors.Wrap(err, "creating survey point")
	}
	point.ID = res.ID().(int64)
	s.logger.Debugf("database: created point %s", point.Token)
	return nil
}

// DeletePoint implements [model.WritableSurveyStore].
func (s *Store) DeletePoint(token string) error {
	res := s.sess.Collection(surveyPointsTable).Find(db.Cond{"token": token})
	count, err := res.Count()
	if err != nil {
		return errors.Wrap(err, "deleting survey point")
	}
	if count < 1 {
		return ErrNoSuchPoint
	}
	return errors.Wrap(res.Delete(), "deleting survey point")
}

// ListPoints implements [model.ReadableSurveyStore].
func (s *Store) ListPoints() ([]*model.SurveyPoint, error) {
	points := []*model.SurveyPoint{}
	err := s.sess.Collection(surveyPointsTable).Find().
		OrderBy("created_at", "id").All(&points)
	if err != nil {
		return nil, errors.Wrap(err, "listing survey points")
	}
	return points, nil
}

// SummarizeBySSID implements [model.ReadableSurveyStore]. Networks
// appear in the order their first point was stored.
func (s *Store) SummarizeBySSID() ([]*model.SSIDSummary, error) {
	points, err := s.ListPoints()
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]*model.SurveyPoint)
	var order []string
	for _, point := range points {
		if _, found := groups[point.SSID]; !found {
			order = append(order, point.SSID)
		}
		groups[point.SSID] = append(groups[point.SSID], point)
	}
	summaries := []*model.SSIDSummary{}
	for _, ssid := range order {
		summaries = append(summaries, summarizePoints(ssid, groups[ssid]))
	}
	return summaries, nil
}

// Close implements [model.WritableSurveyStore].
func (s *Store) Close() error {
	return s.sess.Close()
}

// summarizePoints aggregates the points of a single network. The
// points slice must not be empty.
func summarizePoints(ssid string, points []*model.SurveyPoint) *model.SSIDSummary {
	var signals []float64
	var downloads []float64
	for _, point := range points {
		signals = append(signals, float64(point.SignalStrength))
		if point.TCPDownloadBps != nil {
			downloads = append(downloads, *point.TCPDownloadBps)
		}
	}
	summary := &model.SSIDSummary{
		SSID:   ssid,
		Points: int64(len(points)),
	}
	summary.SignalMin, _ = stats.Min(signals)
	summary.SignalMean, _ = stats.Mean(signals)
	summary.SignalMedian, _ = stats.Median(signals)
	summary.SignalMax, _ = stats.Max(signals)
	if len(downloads) > 0 {
		summary.TCPDownloadMean, _ = stats.Mean(downloads)
	}
	return summary
}

