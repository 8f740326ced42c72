package viewstate

import "time"

// Runner decides where background reads execute. Screens never spawn goroutines directly, so
// tests and debugging sessions can run everything inline.
type Runner interface {
	Do(fn func())
}

// AsyncRunner runs each function on its own goroutine.
type AsyncRunner struct{}

func (AsyncRunner) Do(fn func()) { go fn() }

// SyncRunner runs each function on the caller's goroutine.
type SyncRunner struct{}

func (SyncRunner) Do(fn func()) { fn() }

// Clock schedules the notice timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
