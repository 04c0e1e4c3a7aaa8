// Package log wraps logrus behind a small interface and provides the
// text sink codecs render layers to.
package log

import "sync"

type Logger interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsDebugEnabled() bool
}

var (
	once   sync.Once
	logger Logger
)

// GetLogger returns the process-wide logger. Init must run first;
// before that a default console logger is installed lazily.
func GetLogger() Logger {
	once.Do(func() {
		if logger == nil {
			logger = newLogrusAdapter(Config{Level: "info"})
		}
	})
	return logger
}

// Init installs the logger from configuration. Only the first of Init
// or GetLogger wins.
func Init(cfg Config) {
	once.Do(func() {
		logger = newLogrusAdapter(cfg)
	})
}
