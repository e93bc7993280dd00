package sim

import "container/heap"

// PostedHandler reacts to a posted event firing at its scheduled time.
type PostedHandler func(t float64)

// postedEvent is one queue entry. Cancellation tombstones the entry
// (live = false) instead of deleting it: deletion from the middle of a heap
// is O(n), while a tombstone costs one map lookup and is discarded when it
// reaches the head.
type postedEvent struct {
	time     float64
	seq      int64 // insertion order, breaks time ties
	id       int64
	handler  PostedHandler
	interval float64 // > 0 for repeating events
	live     bool
}

// postedHeap implements heap.Interface ordered by (time, insertion order).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type postedHeap []*postedEvent

func (h postedHeap) Len() int { return len(h) }
func (h postedHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h postedHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *postedHeap) Push(x any) {
	*h = append(*h, x.(*postedEvent))
}

func (h *postedHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}

// PostedEventQueue holds events bound to specific future simulation times,
// interleaved by the dynamics with stochastically drawn events. The queue
// does not advance time itself; the owning dynamics tells it how far time
// has moved via PopDue.
type PostedEventQueue struct {
	h       postedHeap
	live    map[int64]*postedEvent
	nextID  int64
	nextSeq int64
	now     func() float64
}

// NewPostedEventQueue creates an empty queue. now reports the current
// simulation time and guards against posting into the past; nil means a
// clock pinned at zero.
func NewPostedEventQueue(now func() float64) *PostedEventQueue {
	if now == nil {
		now = func() float64 { return 0 }
	}
	return &PostedEventQueue{
		h:    make(postedHeap, 0),
		live: make(map[int64]*postedEvent),
		now:  now,
	}
}

// Post schedules handler to fire at time t and returns an id usable with
// Unpost. Posting at a time earlier than the current clock panics with
// ErrPastEvent: it signals misuse of the posting API, not a recoverable
// condition.
func (q *PostedEventQueue) Post(t float64, handler PostedHandler) int64 {
	return q.post(t, 0, handler)
}

// PostRepeating schedules handler to fire at t and then every interval time
// units after. Each occurrence carries a fresh id, so the returned id only
// cancels the series before the first firing; callers that need to cancel a
// recurring activity should post individual events instead.
func (q *PostedEventQueue) PostRepeating(t, interval float64, handler PostedHandler) int64 {
	if interval <= 0 {
		panic(ErrPastEvent)
	}
	return q.post(t, interval, handler)
}

func (q *PostedEventQueue) post(t, interval float64, handler PostedHandler) int64 {
	if t < q.now() {
		panic(ErrPastEvent)
	}
	ev := &postedEvent{
		time:     t,
		seq:      q.nextSeq,
		id:       q.nextID,
		handler:  handler,
		interval: interval,
		live:     true,
	}
	q.nextSeq++
	q.nextID++
	q.live[ev.id] = ev
	heap.Push(&q.h, ev)
	return ev.id
}

// Unpost cancels the event with the given id. Idempotent: cancelling an
// already-fired or already-cancelled id is a no-op.
func (q *PostedEventQueue) Unpost(id int64) {
	ev, ok := q.live[id]
	if !ok {
		return
	}
	ev.live = false
	delete(q.live, id)
}

// Pending returns the number of live posted events.
func (q *PostedEventQueue) Pending() int { return len(q.live) }

// NextTime returns the scheduled time of the earliest live event, discarding
// any tombstones found at the head. The second return is false when the
// queue holds no live events.
func (q *PostedEventQueue) NextTime() (float64, bool) {
	for q.h.Len() > 0 && !q.h[0].live {
		heap.Pop(&q.h)
	}
	if q.h.Len() == 0 {
		return 0, false
	}
	return q.h[0].time, true
}

// PostedFiring is one due event returned by PopDue.
type PostedFiring struct {
	Time    float64
	Handler PostedHandler
}

// PopDue removes and returns every live event scheduled at or before upto,
// in ascending time order with ties broken by insertion order. Tombstoned
// entries encountered at the head are discarded silently. A repeating event
// re-enters the queue at its next occurrence (with a new id) as it is
// popped, so a repeat falling within upto appears again later in the same
// result.
func (q *PostedEventQueue) PopDue(upto float64) []PostedFiring {
	var due []PostedFiring
	for {
		next, ok := q.NextTime()
		if !ok || next > upto {
			return due
		}
		ev := heap.Pop(&q.h).(*postedEvent)
		delete(q.live, ev.id)
		due = append(due, PostedFiring{Time: ev.time, Handler: ev.handler})
		if ev.interval > 0 {
			// Re-post directly, bypassing the past-time check: when the
			// clock has jumped over several occurrences the catch-up
			// repost is legitimately earlier than the clock.
			re := &postedEvent{
				time:     ev.time + ev.interval,
				seq:      q.nextSeq,
				id:       q.nextID,
				handler:  ev.handler,
				interval: ev.interval,
				live:     true,
			}
			q.nextSeq++
			q.nextID++
			q.live[re.id] = re
			heap.Push(&q.h, re)
		}
	}
}
