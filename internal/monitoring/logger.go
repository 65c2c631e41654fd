// Package monitoring holds the diagnostic logger shared by the binmorph
// packages.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger so tests can capture or mute engine output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Elapsed logs how long a named step took since start, rounded to the
// microsecond.
func Elapsed(component, step string, start time.Time) {
	Logf("[%s] %s took %s", component, step, time.Since(start).Round(time.Microsecond))
}
