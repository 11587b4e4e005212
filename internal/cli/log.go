package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps to the hundredth of a
// second, no caller, level set by --verbose.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs it with its elapsed time.
type stage struct {
	logger *log.Logger
	start  time.Time
}

func startStage(l *log.Logger) stage {
	return stage{logger: l, start: time.Now()}
}

// done logs msg at info level with the given key/value pairs and the
// elapsed time appended.
func (s stage) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}
