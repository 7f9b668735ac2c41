package logx

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
)

func TestHandler(t *testing.T) {
	// make the output deterministic regardless of the terminal
	prev := color.NoColor
	color.NoColor = true
	defer func() {
		color.NoColor = prev
	}()

	t.Run("for a message without fields", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewHandler(&buf)
		handler.StartTime = time.Now()
		logger := &log.Logger{Level: log.DebugLevel, Handler: handler}
		logger.Info("antani")
		out := buf.String()
		if !strings.Contains(out, "<info> antani") {
			t.Fatal("unexpected output", out)
		}
		if !strings.HasPrefix(out, "[") {
			t.Fatal("expected the elapsed-time prefix", out)
		}
	})

	t.Run("for a message with fields", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewHandler(&buf)
		logger := &log.Logger{Level: log.DebugLevel, Handler: handler}
		logger.WithField("ssid", "HomeLab").Warn("signal degraded")
		out := buf.String()
		if !strings.Contains(out, "<warn> signal degraded") {
			t.Fatal("unexpected output", out)
		}
		if !strings.Contains(out, "ssid") {
			t.Fatal("expected to see the fields", out)
		}
	})
}
