package database

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wifimap/survey-cli/internal/model"
)

func TestWriteCSV(t *testing.T) {
	t.Run("renders every column", func(t *testing.T) {
		download := 500000000.0
		upload := 250000000.0
		points := []*model.SurveyPoint{{
			Token:          "eed15aa8-6a0f-4ad5-b46e-ce41f430d9c6",
			X:              1.5,
			Y:              2.25,
			SSID:           "HomeNet",
			BSSID:          "aa:bb:cc:dd:ee:01",
			Band:           5220,
			Channel:        44,
			SignalStrength: 84,
			RSSI:           -58,
			TCPDownloadBps: &download,
			TCPUploadBps:   &upload,
			CreatedAt:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		}, {
			Token:     "a7a1f120-9a1c-4b86-a063-953b5a0424e5",
			X:         3,
			Y:         4,
			Status:    "test was cancelled",
			CreatedAt: time.Date(2026, 8, 25, 10, 5, 0, 0, time.UTC),
		}}
		var sb strings.Builder
		if err := WriteCSV(&sb, points); err != nil {
			t.Fatal(err)
		}
		expect := strings.Join([]string{
			"token,created_at,x,y,ssid,bssid,band,channel,signal_strength," +
				"rssi,tcp_download_bps,tcp_upload_bps,udp_download_bps," +
				"udp_upload_bps,status",
			"eed15aa8-6a0f-4ad5-b46e-ce41f430d9c6,2026-08-25T10:00:00Z,1.5,2.25," +
				"HomeNet,aa:bb:cc:dd:ee:01,5220,44,84,-58,500000000,250000000,,,",
			"a7a1f120-9a1c-4b86-a063-953b5a0424e5,2026-08-25T10:05:00Z,3,4," +
				",,0,0,0,0,,,,,test was cancelled",
			"",
		}, "\n")
		if diff := cmp.Diff(expect, sb.String()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with no points we still emit the header", func(t *testing.T) {
		var sb strings.Builder
		if err := WriteCSV(&sb, nil); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(sb.String(), "token,created_at,") {
			t.Fatalf("unexpected output: %q", sb.String())
		}
	})

	t.Run("propagates write errors", func(t *testing.T) {
		expected := errors.New("mocked error")
		writer := &failingWriter{err: expected}
		err := WriteCSV(writer, nil)
		if !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
	})
}

// failingWriter is an [io.Writer] that always fails.
type failingWriter struct {
	err error
}

func (w *failingWriter) Write(data []byte) (int, error) {
	return 0, w.err
}
