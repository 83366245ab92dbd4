// Package clock abstracts wall-clock time so the streak engine and the reset
// scheduler can be tested with fixed or advancing time. The logical day is
// the UTC calendar date.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	// Today returns the start of the current logical day (UTC midnight).
	Today() time.Time
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same UTC date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

type SystemClock struct{}

func (SystemClock) Now() time.Time   { return time.Now().UTC() }
func (SystemClock) Today() time.Time { return DateOf(time.Now()) }

// Fake is a settable clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Today() time.Time {
	return DateOf(f.Now())
}

func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.UTC()
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
