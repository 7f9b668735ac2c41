// Package output renders user facing output as structured log events,
// so that --batch consumers can parse what interactive users see.
package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/mitchellh/go-wordwrap"
	"github.com/wifimap/survey-cli/internal/model"
)

// PointItem logs a stored survey point.
func PointItem(point *model.SurveyPoint, index, totalCount int) {
	log.WithFields(log.Fields{
		"type":             "point_item",
		"index":            index,
		"total_count":      totalCount,
		"token":            point.Token,
		"x":                point.X,
		"y":                point.Y,
		"ssid":             point.SSID,
		"bssid":            point.BSSID,
		"band":             point.Band,
		"channel":          point.Channel,
		"signal_strength":  point.SignalStrength,
		"rssi":             point.RSSI,
		"tcp_download_bps": bpsField(point.TCPDownloadBps),
		"tcp_upload_bps":   bpsField(point.TCPUploadBps),
		"udp_download_bps": bpsField(point.UDPDownloadBps),
		"udp_upload_bps":   bpsField(point.UDPUploadBps),
		"status":           point.Status,
		"created_at":       point.CreatedAt,
	}).Info("point item")
}

// bpsField converts a nullable throughput column to a loggable value.
func bpsField(value *float64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

// SummaryItem logs the aggregate values of one network.
func SummaryItem(summary *model.SSIDSummary) {
	log.WithFields(log.Fields{
		"type":                  "summary_item",
		"ssid":                  summary.SSID,
		"points":                summary.Points,
		"signal_min":            summary.SignalMin,
		"signal_mean":           summary.SignalMean,
		"signal_median":         summary.SignalMedian,
		"signal_max":            summary.SignalMax,
		"tcp_download_mean_bps": summary.TCPDownloadMean,
	}).Info("summary item")
}

// PointsSummaryData is the metadata about a set of stored points.
type PointsSummaryData struct {
	TotalPoints   int64
	TotalNetworks int64
}

// PointsSummary logs the totals of a set of stored points.
func PointsSummary(summary PointsSummaryData) {
	log.WithFields(log.Fields{
		"type":           "points_summary",
		"total_points":   summary.TotalPoints,
		"total_networks": summary.TotalNetworks,
	}).Info("points summary")
}

// SectionTitle is the title of a section
func SectionTitle(text string) {
	log.WithFields(log.Fields{
		"type":  "section_title",
		"title": text,
	}).Info(text)
}

func Paragraph(text string) {
	const width = 80
	fmt.Println(wordwrap.WrapString(text, width))
}

func Bullet(text string) {
	const width = 80
	fmt.Printf("• %s\n", wordwrap.WrapString(text, width))
}

func PressEnterToContinue(text string) error {
	fmt.Print(text)
	_, err := bufio.NewReader(os.Stdin).ReadBytes('\n')
	return err
}
