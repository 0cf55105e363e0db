package storage

import (
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger routes badger's internal messages to zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func newBadgerLogger(log zerolog.Logger) *badgerLogger {
	return &badgerLogger{log: log.With().Str("component", "badger").Logger()}
}

// badger terminates most messages with a newline.
func trim(format string) string {
	return strings.TrimRight(format, "\n")
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(trim(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(trim(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(trim(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(trim(format), args...)
}
