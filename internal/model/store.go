package model

import "time"

//
// Survey point storage
//

// SurveyPoint is a stored measurement bound to a floor plan position.
// The engine itself never persists anything; the apps build a
// SurveyPoint from a successful [SurveyResult] and hand it to the
// store. Bandwidth columns are nil when the sub-test did not run.
type SurveyPoint struct {
	ID             int64     `db:"id,omitempty" json:"id"`
	Token          string    `db:"token" json:"token"`
	X              float64   `db:"x" json:"x"`
	Y              float64   `db:"y" json:"y"`
	SSID           string    `db:"ssid" json:"ssid"`
	BSSID          string    `db:"bssid" json:"bssid"`
	Band           int64     `db:"band" json:"band"`
	Channel        int64     `db:"channel" json:"channel"`
	SignalStrength int64     `db:"signal_strength" json:"signalStrength"`
	RSSI           int64     `db:"rssi" json:"rssi"`
	TCPDownloadBps *float64  `db:"tcp_download_bps" json:"tcpDownloadBps"`
	TCPUploadBps   *float64  `db:"tcp_upload_bps" json:"tcpUploadBps"`
	UDPDownloadBps *float64  `db:"udp_download_bps" json:"udpDownloadBps"`
	UDPUploadBps   *float64  `db:"udp_upload_bps" json:"udpUploadBps"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// NewSurveyPointFromResult builds a storable point from a finished
// run and its floor plan coordinates. ID, Token, and CreatedAt are
// assigned by the store on insertion.
func NewSurveyPointFromResult(result *SurveyResult, x, y float64) *SurveyPoint {
	point := &SurveyPoint{
		X:      x,
		Y:      y,
		Status: result.Status,
	}
	if result.Wifi != nil {
		point.SSID = result.Wifi.SSID
		point.BSSID = result.Wifi.BSSID
		point.Band = result.Wifi.Band
		point.Channel = result.Wifi.Channel
		point.SignalStrength = result.Wifi.SignalStrength
		point.RSSI = result.Wifi.RSSI
	}
	if result.Bandwidth != nil {
		point.TCPDownloadBps = bpsColumn(result.Bandwidth.TCPDownload)
		point.TCPUploadBps = bpsColumn(result.Bandwidth.TCPUpload)
		point.UDPDownloadBps = bpsColumn(result.Bandwidth.UDPDownload)
		point.UDPUploadBps = bpsColumn(result.Bandwidth.UDPUpload)
	}
	return point
}

// bpsColumn converts a sub-test outcome to a nullable column.
func bpsColumn(result BandwidthTestResult) *float64 {
	if result.BitsPerSecond.IsNone() {
		return nil
	}
	value := result.BitsPerSecond.Unwrap()
	return &value
}

// SSIDSummary aggregates the stored points of one network.
type SSIDSummary struct {
	SSID            string  `json:"ssid"`
	Points          int64   `json:"points"`
	SignalMin       float64 `json:"signalMin"`
	SignalMean      float64 `json:"signalMean"`
	SignalMedian    float64 `json:"signalMedian"`
	SignalMax       float64 `json:"signalMax"`
	TCPDownloadMean float64 `json:"tcpDownloadMeanBps"`
}

// WritableSurveyStore is the mutating side of survey point storage.
type WritableSurveyStore interface {
	// CreatePoint inserts a new survey point, assigning its ID,
	// Token, and CreatedAt fields.
	CreatePoint(point *SurveyPoint) error

	// DeletePoint removes the point with the given token.
	DeletePoint(token string) error

	// Close closes the underlying database.
	Close() error
}

// ReadableSurveyStore is the querying side of survey point storage.
type ReadableSurveyStore interface {
	// ListPoints returns all stored points, oldest first.
	ListPoints() ([]*SurveyPoint, error)

	// SummarizeBySSID aggregates stored points per network name.
	SummarizeBySSID() ([]*SSIDSummary, error)
}

// SurveyStore is both sides of survey point storage.
type SurveyStore interface {
	WritableSurveyStore
	ReadableSurveyStore
}
