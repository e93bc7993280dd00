package sim

// EventHandler reacts to an event firing at simulation time t on a drawn
// element of the event's locus. Handlers run to completion before the
// scheduler considers the next event and mutate the graph only through the
// owning Process's mutation interface.
type EventHandler func(t float64, elem Element)

// EventKind distinguishes how an event's effective rate is computed.
type EventKind int

const (
	// PerElement events have effective rate probability * locus size: every
	// element is an independent site at which the event can occur.
	PerElement EventKind = iota

	// FixedRate events have effective rate equal to their probability while
	// the locus is non-empty, and zero otherwise.
	FixedRate
)

// EventDescriptor binds a locus to an event probability (or rate) and a
// handler. Descriptors are immutable once built; only locus sizes change
// between firings.
type EventDescriptor struct {
	Name    string // optional, reported to the event tap
	Locus   EventLocus
	Prob    float64
	Handler EventHandler
	Kind    EventKind
}

// rate returns the descriptor's current effective rate.
func (d *EventDescriptor) rate() float64 {
	n := d.Locus.Len()
	if n == 0 {
		return 0
	}
	if d.Kind == PerElement {
		return d.Prob * float64(n)
	}
	return d.Prob
}

// EventRate is one entry of an event distribution snapshot: a descriptor and
// its effective rate at snapshot time. Snapshots are valid only until the
// next graph mutation.
type EventRate struct {
	Desc *EventDescriptor
	Rate float64
}

// snapshot computes the live rates for a descriptor list.
func snapshot(descs []*EventDescriptor) []EventRate {
	out := make([]EventRate, 0, len(descs))
	for _, d := range descs {
		out = append(out, EventRate{Desc: d, Rate: d.rate()})
	}
	return out
}

// totalRate sums the rates of one or more distribution snapshots.
func totalRate(dists ...[]EventRate) float64 {
	var r float64
	for _, dist := range dists {
		for _, er := range dist {
			r += er.Rate
		}
	}
	return r
}
