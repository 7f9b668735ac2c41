// Package logx contains logging extensions.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
)

// Colors maps log levels to the color used to print them.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Handler is an apex/log handler writing colored log lines prefixed
// with the time elapsed since the handler was created.
type Handler struct {
	// StartTime is when we started logging.
	StartTime time.Time

	// Writer is the underlying writer.
	Writer io.Writer

	mu sync.Mutex
}

var _ log.Handler = &Handler{}

// NewHandler creates a [Handler] writing to the given writer.
func NewHandler(w io.Writer) *Handler {
	if f, ok := w.(*os.File); ok {
		w = colorable.NewColorable(f)
	}
	return &Handler{
		StartTime: time.Now(),
		Writer:    w,
	}
}

// NewHandlerWithDefaultSettings creates a [Handler] with default settings.
func NewHandlerWithDefaultSettings() *Handler {
	return NewHandler(os.Stderr)
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	elapsed := time.Since(h.StartTime).Seconds()
	s := fmt.Sprintf("[%14.6f] <%s> %s", elapsed, e.Level, e.Message)
	if len(e.Fields) > 0 {
		s += fmt.Sprintf(": %+v", e.Fields)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.Writer, Colors[e.Level].Sprint(s))
	return err
}
