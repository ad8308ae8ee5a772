package vantage

import (
	"fmt"
	"os"
)

// Debug enables diagnostic logging for conditions that are silently tolerated
// in release mode, such as drawing from a disposed Graphic.
var Debug bool

// diagf prints a diagnostic line to stderr when Debug is enabled.
func diagf(format string, args ...any) {
	if !Debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[vantage] "+format+"\n", args...)
}

// checkLiveGraphic reports whether a batch's graphic is usable at playback.
// A disposed graphic makes the batch a no-op; the skip is logged in debug mode.
func checkLiveGraphic(key *BatchKey, op string) bool {
	if key.Graphic == nil {
		return false
	}
	if key.Graphic.disposed {
		diagf("%s: batch references a disposed graphic; skipping", op)
		return false
	}
	return true
}
