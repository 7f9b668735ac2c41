package database

//
// CSV export
//

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/wifimap/survey-cli/internal/model"
)

// csvHeader is the header row of the CSV export.
var csvHeader = []string{
	"token", "created_at", "x", "y", "ssid", "bssid", "band", "channel",
	"signal_strength", "rssi", "tcp_download_bps", "tcp_upload_bps",
	"udp_download_bps", "udp_upload_bps", "status",
}

// WriteCSV writes the given points as CSV. Bandwidth columns of
// sub-tests that did not run are empty.
func WriteCSV(w io.Writer, points []*model.SurveyPoint) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, point := range points {
		record := []string{
			point.Token,
			point.CreatedAt.UTC().Format(time.RFC3339),
			formatFloat(point.X),
			formatFloat(point.Y),
			point.SSID,
			point.BSSID,
			strconv.FormatInt(point.Band, 10),
			strconv.FormatInt(point.Channel, 10),
			strconv.FormatInt(point.SignalStrength, 10),
			strconv.FormatInt(point.RSSI, 10),
			formatNullableFloat(point.TCPDownloadBps),
			formatNullableFloat(point.TCPUploadBps),
			formatNullableFloat(point.UDPDownloadBps),
			formatNullableFloat(point.UDPUploadBps),
			point.Status,
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "writing CSV record")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing CSV")
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatNullableFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}
