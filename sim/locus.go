package sim

import "math/rand"

// Element is a graph element tracked by a locus: a NodeID or an Edge.
type Element any

// EventLocus is the view of a locus the scheduler needs: its name, its
// current size, and a uniform draw. Concrete loci are typed over NodeID or
// Edge; the scheduler is agnostic.
type EventLocus interface {
	Name() string
	Len() int
	DrawAny(rng *rand.Rand) Element
	ContainsAny(e Element) bool
	ElementsAny() []Element
}

// Locus is a dynamic set of graph elements that is the target of some class
// of event. It is kept consistent incrementally on every graph mutation by
// the owning Process, never recomputed by scan.
//
// Membership tests are O(1) through a side map. Draws are O(log n) through a
// treap augmented with subtree cardinalities: a uniform k in [0, size) is
// drawn from the shared random stream and the k-th element is selected by
// rank, without materializing the element sequence. Event selection draws
// hundreds of thousands of times per run against a set that mutates on every
// event, so a draw that lists the elements would dominate the run at scale.
type Locus[E comparable] struct {
	name    string
	less    func(a, b E) bool
	members map[E]struct{}
	root    *treapNode[E]
	prio    *rand.Rand
}

// NewLocus creates an empty locus. less supplies the total order over
// elements; prio supplies treap priorities and is the run's shared stream.
func NewLocus[E comparable](name string, less func(a, b E) bool, prio *rand.Rand) *Locus[E] {
	return &Locus[E]{
		name:    name,
		less:    less,
		members: make(map[E]struct{}),
		prio:    prio,
	}
}

// NewNodeLocus creates an empty locus over nodes.
func NewNodeLocus(name string, rng *rand.Rand) *Locus[NodeID] {
	return NewLocus(name, func(a, b NodeID) bool { return a < b }, rng)
}

// NewEdgeLocus creates an empty locus over edges.
func NewEdgeLocus(name string, rng *rand.Rand) *Locus[Edge] {
	return NewLocus(name, edgeLess, rng)
}

// Name returns the locus name, unique within a simulation.
func (l *Locus[E]) Name() string { return l.name }

// Len returns the current number of elements.
func (l *Locus[E]) Len() int { return len(l.members) }

// Contains reports whether e is currently in the locus.
func (l *Locus[E]) Contains(e E) bool {
	_, ok := l.members[e]
	return ok
}

// Add inserts e. Adding a present element is a no-op.
func (l *Locus[E]) Add(e E) {
	if l.Contains(e) {
		return
	}
	l.members[e] = struct{}{}
	l.root = l.insert(l.root, &treapNode[E]{elem: e, prio: l.prio.Int63(), size: 1})
}

// Remove deletes e. Removing an absent element is a no-op.
func (l *Locus[E]) Remove(e E) {
	if !l.Contains(e) {
		return
	}
	delete(l.members, e)
	l.root = l.remove(l.root, e)
}

// Elements returns the current elements in ascending order. The slice is
// fresh; callers may retain it across mutations as a snapshot.
func (l *Locus[E]) Elements() []E {
	out := make([]E, 0, len(l.members))
	var walk func(n *treapNode[E])
	walk = func(n *treapNode[E]) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.elem)
		walk(n.right)
	}
	walk(l.root)
	return out
}

// Draw returns a uniformly random element. Drawing from an empty locus is a
// programming error: the scheduler only offers events on non-empty loci, so
// an empty draw means a process bypassed that check. Panics with
// ErrEmptyLocus.
func (l *Locus[E]) Draw(rng *rand.Rand) E {
	if l.root == nil {
		panic(ErrEmptyLocus)
	}
	return l.kth(l.root, rng.Intn(l.root.size))
}

// DrawAny implements EventLocus.
func (l *Locus[E]) DrawAny(rng *rand.Rand) Element { return l.Draw(rng) }

// ContainsAny implements EventLocus.
func (l *Locus[E]) ContainsAny(e Element) bool {
	ee, ok := e.(E)
	return ok && l.Contains(ee)
}

// ElementsAny implements EventLocus.
func (l *Locus[E]) ElementsAny() []Element {
	es := l.Elements()
	out := make([]Element, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// === treap internals ===

type treapNode[E comparable] struct {
	elem        E
	prio        int64
	size        int
	left, right *treapNode[E]
}

func (l *Locus[E]) size(n *treapNode[E]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (l *Locus[E]) recount(n *treapNode[E]) {
	n.size = 1 + l.size(n.left) + l.size(n.right)
}

func (l *Locus[E]) rotateRight(n *treapNode[E]) *treapNode[E] {
	p := n.left
	n.left = p.right
	p.right = n
	l.recount(n)
	l.recount(p)
	return p
}

func (l *Locus[E]) rotateLeft(n *treapNode[E]) *treapNode[E] {
	p := n.right
	n.right = p.left
	p.left = n
	l.recount(n)
	l.recount(p)
	return p
}

func (l *Locus[E]) insert(n, nn *treapNode[E]) *treapNode[E] {
	if n == nil {
		return nn
	}
	if l.less(nn.elem, n.elem) {
		n.left = l.insert(n.left, nn)
		if n.left.prio > n.prio {
			n = l.rotateRight(n)
		} else {
			l.recount(n)
		}
	} else {
		n.right = l.insert(n.right, nn)
		if n.right.prio > n.prio {
			n = l.rotateLeft(n)
		} else {
			l.recount(n)
		}
	}
	return n
}

func (l *Locus[E]) remove(n *treapNode[E], e E) *treapNode[E] {
	if n == nil {
		return nil
	}
	switch {
	case l.less(e, n.elem):
		n.left = l.remove(n.left, e)
	case l.less(n.elem, e):
		n.right = l.remove(n.right, e)
	default:
		// Rotate the doomed node down until it is a leaf, keeping the
		// heap property over priorities.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = l.rotateRight(n)
			n.right = l.remove(n.right, e)
		} else {
			n = l.rotateLeft(n)
			n.left = l.remove(n.left, e)
		}
	}
	l.recount(n)
	return n
}

func (l *Locus[E]) kth(n *treapNode[E], k int) E {
	for {
		ls := l.size(n.left)
		switch {
		case k < ls:
			n = n.left
		case k == ls:
			return n.elem
		default:
			k -= ls + 1
			n = n.right
		}
	}
}
