package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorderQueue() (*PostedEventQueue, *[]float64, func(label float64) PostedHandler) {
	var fired []float64
	q := NewPostedEventQueue(nil)
	mk := func(label float64) PostedHandler {
		return func(t float64) { fired = append(fired, label) }
	}
	return q, &fired, mk
}

func TestPostedEventQueue_OrderingWithTies(t *testing.T) {
	q, fired, mk := recorderQueue()

	// posted at 5, 3, 3, 7; ties broken by insertion order
	q.Post(5, mk(5))
	q.Post(3, mk(3.1))
	q.Post(3, mk(3.2))
	q.Post(7, mk(7))

	due := q.PopDue(6)
	require.Len(t, due, 3)
	assert.Equal(t, []float64{3, 3, 5}, []float64{due[0].Time, due[1].Time, due[2].Time})
	for _, f := range due {
		f.Handler(f.Time)
	}
	assert.Equal(t, []float64{3.1, 3.2, 5}, *fired)

	due = q.PopDue(10)
	require.Len(t, due, 1)
	assert.Equal(t, 7.0, due[0].Time)
}

func TestPostedEventQueue_Unpost(t *testing.T) {
	q, fired, mk := recorderQueue()

	id := q.Post(4, mk(4))
	q.Post(5, mk(5))
	q.Unpost(id)

	due := q.PopDue(10)
	require.Len(t, due, 1)
	assert.Equal(t, 5.0, due[0].Time)
	for _, f := range due {
		f.Handler(f.Time)
	}
	assert.Equal(t, []float64{5}, *fired)

	// unposting again, or unposting a fired event, is a no-op
	q.Unpost(id)
	q.Unpost(999)
	assert.Equal(t, 0, q.Pending())
}

func TestPostedEventQueue_NextTimeSkipsTombstones(t *testing.T) {
	q, _, mk := recorderQueue()
	id := q.Post(1, mk(1))
	q.Post(2, mk(2))
	q.Unpost(id)

	next, ok := q.NextTime()
	require.True(t, ok)
	assert.Equal(t, 2.0, next)

	q.Unpost(q.Post(3, mk(3)))
	assert.Equal(t, 1, q.Pending())
}

func TestPostedEventQueue_PastEventPanics(t *testing.T) {
	now := 10.0
	q := NewPostedEventQueue(func() float64 { return now })
	assert.PanicsWithError(t, ErrPastEvent.Error(), func() {
		q.Post(9, func(float64) {})
	})
	// posting exactly at the clock is allowed
	assert.NotPanics(t, func() { q.Post(10, func(float64) {}) })
}

func TestPostedEventQueue_Repeating(t *testing.T) {
	q, fired, mk := recorderQueue()
	q.PostRepeating(1, 2, mk(1))

	due := q.PopDue(6)
	times := make([]float64, len(due))
	for i, f := range due {
		times[i] = f.Time
		f.Handler(f.Time)
	}
	assert.Equal(t, []float64{1, 3, 5}, times)
	assert.Len(t, *fired, 3)

	// the series continues with a fresh occurrence at 7
	next, ok := q.NextTime()
	require.True(t, ok)
	assert.Equal(t, 7.0, next)
}

func TestPostedEventQueue_RepeatingIDChangesPerOccurrence(t *testing.T) {
	q, _, mk := recorderQueue()
	id := q.PostRepeating(1, 1, mk(1))

	// cancelling before the first firing kills the series
	q.Unpost(id)
	assert.Empty(t, q.PopDue(5))

	// after a firing the original id no longer controls the series
	id = q.PostRepeating(1, 1, mk(2))
	due := q.PopDue(1)
	require.Len(t, due, 1)
	q.Unpost(id)
	due = q.PopDue(2)
	assert.Len(t, due, 1, "re-posted occurrence carries a new id and survives")
}
