package server

import (
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ConsoleMessage is one log line forwarded to the browser
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// WebLogger implements core.Logger by copying every line to the server log
// and sending it to a console channel
type WebLogger struct {
	base        core.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one render. A nil base discards server
// side output.
func NewWebLogger(base core.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	if base == nil {
		base = core.NewNopLogger()
	}
	return &WebLogger{base: base, consoleChan: consoleChan}
}

func (wl *WebLogger) DebugEnabled() bool { return wl.base.DebugEnabled() }

func (wl *WebLogger) Debugf(format string, args ...any) {
	if !wl.base.DebugEnabled() {
		return
	}
	wl.base.Debugf(format, args...)
	wl.send("debug", format, args...)
}

func (wl *WebLogger) Infof(format string, args ...any) {
	wl.base.Infof(format, args...)
	wl.send("info", format, args...)
}

func (wl *WebLogger) Warnf(format string, args ...any) {
	wl.base.Warnf(format, args...)
	wl.send("warning", format, args...)
}

func (wl *WebLogger) Errorf(format string, args ...any) {
	wl.base.Errorf(format, args...)
	wl.send("error", format, args...)
}

// send never blocks; messages are dropped when the channel is full
func (wl *WebLogger) send(level, format string, args ...any) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}
