package configs

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Log is the shared structured logger for both binaries. A handful of
// print helpers sit behind boolean toggles (ShowDebugInfo, ShowWarnings)
// but route everything through one logrus.Logger so fields like
// node/phase/uid/scenario stay structured instead of interpolated into
// format strings.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetDebug raises the logger to Debug level and flips on the per-message
// tracing toggle.
func SetDebug(on bool) {
	ShowDebugInfo = on
	if on {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// DPrintf is the debug-gated trace line for failed send attempts and
// ack-poll lock timeouts, with optional structured fields attached.
func DPrintf(fields logrus.Fields, format string, a ...interface{}) {
	if ShowDebugInfo {
		Log.WithFields(fields).Debugf(format, a...)
	}
}

// Warn logs only when cond is false (an unexpected condition was
// observed) and warnings are enabled.
func Warn(cond bool, fields logrus.Fields, msg string) bool {
	if ShowWarnings && !cond {
		Log.WithFields(fields).Warn(msg)
	}
	return cond
}

// Assert panics on a violated invariant: a "this must never happen"
// condition such as the winner not being a node's own UID right after
// self-recognition.
func Assert(cond bool, msg string) bool {
	if !cond {
		panic("[ERROR] assertion failed: " + msg)
	}
	return cond
}

// JToString is used by the sender's per-attempt debug tracing.
func JToString(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
