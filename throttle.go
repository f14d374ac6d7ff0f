package tablesplit

import "time"

// throttleEvery and throttleSleep define the effective pacing of the
// unevenly-sized chunker's server round-trips: sleep 100ms every 10
// iterations, the same ratio as 1s per 100 queries at finer granularity.
const (
	throttleEvery = 10
	throttleSleep = 100 * time.Millisecond
)

// Throttle paces a sequence of server round-trips. It's a pure function
// of the iteration count, with no shared state, so it's safe to call
// from a single-threaded chunking loop without any synchronization.
type Throttle struct {
	sleep func(time.Duration)
	bar   ProgressBar
}

// NewThrottle returns a Throttle that sleeps via time.Sleep and,
// optionally, reports each iteration to bar (may be nil).
func NewThrottle(bar ProgressBar) Throttle {
	return Throttle{sleep: time.Sleep, bar: bar}
}

// Tick is called once per iteration of the unevenly-sized chunking loop.
// Every throttleEvery iterations it sleeps throttleSleep to bound
// pressure on the source server. time.Sleep can't be interrupted in Go,
// so there's no wake-on-interrupt path to handle: Tick never aborts
// chunking.
func (t Throttle) Tick(table Table, iteration int) {
	if t.bar != nil {
		t.bar.Increment()
	}
	if iteration == 0 || iteration%throttleEvery != 0 {
		return
	}
	Log.WithFields(map[string]interface{}{
		"table":     table.Name,
		"iteration": iteration,
	}).Debug("throttling unevenly-sized chunking")
	t.sleep(throttleSleep)
}
