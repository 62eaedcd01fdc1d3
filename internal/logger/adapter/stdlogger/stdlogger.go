// Package stdlogger bridges printf style loggers, such as gorm's, onto zerolog.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards Printf calls to the global zerolog logger.
type Logger struct {
	level     zerolog.Level
	component string
}

// New returns a Logger writing at debug level, tagged with the given component.
func New(component string) *Logger {
	return &Logger{level: zerolog.DebugLevel, component: component}
}

// WithLevel returns a copy writing at level l.
func (l *Logger) WithLevel(lvl zerolog.Level) *Logger {
	return &Logger{level: lvl, component: l.component}
}

// Printf implements gorm's logger.Writer.
func (l *Logger) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	log.WithLevel(l.level).Str("component", l.component).Msg(msg)
}
