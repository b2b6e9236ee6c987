package tui

import "time"

// shotTimerState tracks the current state of the extraction timer.
type shotTimerState int

const (
	shotTimerStopped shotTimerState = iota
	shotTimerRunning
)

// shotTimer is a stopwatch for timing an extraction. Nothing is persisted;
// the captured seconds prefill the shot form.
type shotTimer struct {
	state     shotTimerState
	startTime time.Time
	elapsed   time.Duration

	// lastSeconds holds the result of the most recent run until a new run
	// starts or the form consumes it.
	lastSeconds int
}

func (t *shotTimer) start() {
	t.state = shotTimerRunning
	t.startTime = time.Now()
	t.elapsed = 0
	t.lastSeconds = 0
}

// stop captures the elapsed whole seconds and returns them.
func (t *shotTimer) stop() int {
	if t.state != shotTimerRunning {
		return t.lastSeconds
	}
	t.state = shotTimerStopped
	t.elapsed = time.Since(t.startTime)
	t.lastSeconds = int(t.elapsed.Seconds())
	return t.lastSeconds
}

func (t *shotTimer) toggle() {
	if t.state == shotTimerRunning {
		t.stop()
	} else {
		t.start()
	}
}

func (t *shotTimer) tick() {
	if t.state == shotTimerRunning {
		t.elapsed = time.Since(t.startTime)
	}
}

func (t *shotTimer) reset() {
	t.state = shotTimerStopped
	t.elapsed = 0
	t.lastSeconds = 0
}

// takeSeconds consumes the captured run, returning 0 when there is none.
func (t *shotTimer) takeSeconds() int {
	secs := t.lastSeconds
	t.lastSeconds = 0
	return secs
}

func (t shotTimer) running() bool {
	return t.state == shotTimerRunning
}

func (t shotTimer) currentElapsed() time.Duration {
	if t.state == shotTimerRunning {
		return time.Since(t.startTime)
	}
	return t.elapsed
}
