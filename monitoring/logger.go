// Package monitoring holds the shared diagnostic logging hook for the
// reconstruction pipeline.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf;
// callers may redirect it with SetLogger, and tests commonly mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
