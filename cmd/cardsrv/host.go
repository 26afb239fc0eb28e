package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// consoleHost stands in for the desktop application: notifications are printed
// and delayed callbacks run on timers.
type consoleHost struct {
	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger
}

func newConsoleHost(out io.Writer, logger zerolog.Logger) *consoleHost {
	return &consoleHost{out: out, logger: logger}
}

func (h *consoleHost) Notify(msg string) {
	h.logger.Info().Str("notification", msg).Send()
	h.mu.Lock()
	fmt.Fprintln(h.out, msg)
	h.mu.Unlock()
}

func (h *consoleHost) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
