package calculation

import "time"

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests). Nil restores time.Now.
func SetNowFunc(f func() time.Time) {
	if f == nil {
		nowFunc = time.Now
		return
	}
	nowFunc = f
}
