package timeline

import (
	"fmt"
	"os"
	"time"
)

// debugLogCache prints cache fill stats to stderr. Only called when the
// timeline is in debug mode.
func debugLogCache(field string, samples, seeks int, elapsed time.Duration) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[timeline] cache %q: %d samples | label seeks: %d | took: %v\n",
		field, samples, seeks, elapsed)
}

// debugMaxFrames is the keyframe time past which a warning is printed: a
// track this long usually means a keyframe was dropped at the wrong scale.
const debugMaxFrames = 36000

// debugCheckLength warns on stderr when a field is suspiciously long.
func debugCheckLength(f *Field) {
	if last := f.Last().time; last > debugMaxFrames {
		_, _ = fmt.Fprintf(os.Stderr, "[timeline] warning: field %q ends at frame %d (threshold %d)\n",
			f.name, last, debugMaxFrames)
	}
}

// debugCheckStopped panics when a stopped animator is used again.
func debugCheckStopped(a *Animator, op string) {
	if a.stopped {
		panic(fmt.Sprintf("timeline debug: %s on stopped animator", op))
	}
}
