package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	instant := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), DateOf(instant))
}

func TestDateOfNormalizesZone(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	instant := time.Date(2025, 3, 14, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), DateOf(instant))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC)
	night := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2025, 3, 15, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, nextDay))
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	assert.Equal(t, start, fake.Now())
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), fake.Today())

	fake.Advance(3 * time.Hour)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), fake.Today())

	fake.Set(start)
	assert.Equal(t, start, fake.Now())
}

func TestSystemClockIsUTC(t *testing.T) {
	now := SystemClock{}.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, DateOf(now), SystemClock{}.Today())
}
