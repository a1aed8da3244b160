package fakeclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvance_fires_in_deadline_order(t *testing.T) {
	c := New(time.Unix(0, 0))

	var got []string
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	c.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	c.AfterFunc(5*time.Second, func() { got = append(got, "c") })

	c.Advance(3 * time.Second)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, c.Pending())
	assert.Equal(t, time.Unix(3, 0), c.Now())
}

func TestStop_prevents_callback(t *testing.T) {
	c := New(time.Unix(0, 0))

	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop reports already stopped")

	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestStop_after_fire_returns_false(t *testing.T) {
	c := New(time.Unix(0, 0))
	tm := c.AfterFunc(time.Second, func() {})

	c.Advance(time.Second)

	assert.False(t, tm.Stop())
}

func TestAdvance_runs_nested_timers_inside_window(t *testing.T) {
	c := New(time.Unix(0, 0))

	var fired []time.Time
	c.AfterFunc(time.Second, func() {
		fired = append(fired, c.Now())
		c.AfterFunc(time.Second, func() { fired = append(fired, c.Now()) })
	})

	c.Advance(3 * time.Second)

	assert.Equal(t, []time.Time{time.Unix(1, 0), time.Unix(2, 0)}, fired)
}
