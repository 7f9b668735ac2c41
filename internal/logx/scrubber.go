package logx

import (
	"fmt"
	"strings"

	"github.com/wifimap/survey-cli/internal/model"
)

// ScrubberLogger is a [model.Logger] that removes the given secrets
// from every message before emitting it. We wrap the logger we pass
// to the macOS adapter with a ScrubberLogger carrying the operator's
// sudo password, so the password never reaches the logs even though
// shellx logs the full command lines it executes.
//
// The zero value is invalid; you MUST set the Logger field.
type ScrubberLogger struct {
	// Logger is the MANDATORY underlying logger to use.
	Logger model.Logger

	// Secrets contains the strings to scrub.
	Secrets []string
}

// scrubbed is the string replacing every secret.
const scrubbed = `[scrubbed]`

func (s *ScrubberLogger) scrub(message string) string {
	for _, secret := range s.Secrets {
		if secret != "" {
			message = strings.ReplaceAll(message, secret, scrubbed)
		}
	}
	return message
}

// Debug scrubs the message and emits it at debug level.
func (s *ScrubberLogger) Debug(message string) {
	s.Logger.Debug(s.scrub(message))
}

// Debugf formats, scrubs, and emits a debug message.
func (s *ScrubberLogger) Debugf(format string, v ...interface{}) {
	s.Debug(fmt.Sprintf(format, v...))
}

// Info scrubs the message and emits it at info level.
func (s *ScrubberLogger) Info(message string) {
	s.Logger.Info(s.scrub(message))
}

// Infof formats, scrubs, and emits an informational message.
func (s *ScrubberLogger) Infof(format string, v ...interface{}) {
	s.Info(fmt.Sprintf(format, v...))
}

// Warn scrubs the message and emits it at warning level.
func (s *ScrubberLogger) Warn(message string) {
	s.Logger.Warn(s.scrub(message))
}

// Warnf formats, scrubs, and emits a warning message.
func (s *ScrubberLogger) Warnf(format string, v ...interface{}) {
	s.Warn(fmt.Sprintf(format, v...))
}
