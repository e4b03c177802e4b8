// Package diag provides an optional, off-by-default diagnostic logger for
// the merkletree package's internals. The core library performs no
// logging of its own on any proof-generation or verification path; this
// exists solely so an embedder can opt into visibility on the handful of
// non-hot-path events (a tree rebuild, a rejected proof envelope) where a
// log line is more useful than silence.
package diag

import "github.com/sirupsen/logrus"

var logger = logrus.New()

func init() {
	// Silent until SetOutput/SetLevel is called by an embedder; never
	// chatty by default.
	logger.SetLevel(logrus.PanicLevel)
}

// Logger returns the package's shared logrus logger. Embedders that want
// diagnostic output call logger.SetLevel and logger.SetOutput on the
// returned value; the merkletree package itself only ever calls its
// leveled methods, never its configuration ones.
func Logger() *logrus.Logger {
	return logger
}

// SetLevel adjusts the diagnostic logger's verbosity. Call it once at
// startup; it is not safe to call concurrently with logging calls.
func SetLevel(level logrus.Level) {
	logger.SetLevel(level)
}
