package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshforce/pkg/layout"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation when it completes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Layout complete (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// iterationLogger returns an observer that reports each iteration at debug
// level.
func iterationLogger(l *log.Logger) func(layout.Iteration) {
	return func(it layout.Iteration) {
		l.Debug("iteration",
			"i", it.Index+1,
			"of", it.Total,
			"temp", it.Temperature,
			"max_step", it.MaxStep,
			"moved", it.Moved)
	}
}
