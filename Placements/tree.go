/*
Package Placements implements an incrementally maintained tree of placements.

For slots 0..n, one of which is the anchor, and a bound k, a placement is a
sequence anchor, s1, ..., sm, anchor of distinct non anchor slots with
m = min(k, n). The Tree stores every placement once, sharing common prefixes,
and caches at each node an aggregate folded from the weights of the slots and
transitions on its root path. Changing one weight only recomputes the nodes
below the positions where that slot or transition occurs, which are found
through indexes built at construction.

The tree's shape never changes after New. A Tree is not safe for concurrent
use.
*/
package Placements

import (
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

// Tree of placements over slots of type S, slot weights V, transition weights E
// and aggregates D. Nodes are addressed by handles of type S as well, so S must
// be wide enough for both; New checks this.
type Tree[S constraints.Unsigned, V, E, D any] struct {
	arena[D, S]
	x        index[S]
	vertices []V // weight of each slot.
	edges    []E // weight of each transition, row major, w*w.
	w        int // n+1
	combine  Combine[V, E, D]
	less     Less[D]
	n, k     S // k is clamped to n.
	anchor   S
	rank     *ranking[D, S]
	lg       *zap.Logger
}

// New builds the tree of placements over slots 0..n around anchor with at most
// k non anchor slots each. The root's aggregate is initial; every other
// aggregate is computed from it with all weights at their zero value, so the
// tree is consistent before the first update.
// It fails with a *PreconditionViolation if anchor > n or if the tree doesn't fit
// handles of type S.
func New[S constraints.Unsigned, V, E, D any](n, k, anchor S, initial D, combine Combine[V, E, D], less Less[D], opts ...Option) (*Tree[S, V, E, D], error) {
	maxS := uint64(^S(0))
	if anchor > n {
		return nil, violation("New", "anchor", uint64(anchor), uint64(n))
	}
	if uint64(n) >= maxS {
		return nil, violation("New", "n", uint64(n), maxS-1)
	}
	k = min(k, n)
	if c, ok := nodeCount(uint64(n), uint64(k)); !ok || c >= maxS {
		return nil, violation("New", "k", uint64(k), maxDepth(uint64(n), maxS))
	}
	o := newOptions(opts)

	u := &Tree[S, V, E, D]{
		w:       int(n) + 1,
		combine: combine,
		less:    less,
		n:       n,
		k:       k,
		anchor:  anchor,
		lg:      o.lg,
	}
	u.ifs = buildShape(n, k, anchor)
	u.vs = make([]D, len(u.ifs))
	u.vs[root] = initial
	u.vertices = make([]V, u.w)
	u.edges = make([]E, u.w*u.w)
	u.x = fill(&u.arena, n)
	if o.rank {
		u.rank = newRanking[D, S](o.degree, less)
	}
	u.Recompute()
	u.lg.Info("placements tree built",
		zap.Uint64("n", uint64(n)),
		zap.Uint64("k", uint64(k)),
		zap.Uint64("anchor", uint64(anchor)),
		zap.Uint64("nodes", uint64(u.Size())),
		zap.Bool("ranking", u.rank != nil))
	return u, nil
}

// maxDepth is the largest k for which the tree over n slots has fewer than
// limit nodes.
func maxDepth(n, limit uint64) uint64 {
	var k uint64
	for ; k < n; k++ {
		if c, ok := nodeCount(n, k+1); !ok || c >= limit {
			break
		}
	}
	return k
}

// UpdateSlot applies diff to the weight of slot s and recomputes every node
// whose aggregate depends on it. Returns the smallest aggregate among the
// recomputed complete placements; the second return value is false when s
// occurs on no path, in which case only the weight changed.
func (u *Tree[S, V, E, D]) UpdateSlot(s S, diff Diff[V]) (D, bool, error) {
	if s > u.n {
		var d D
		return d, false, violation("UpdateSlot", "slot", uint64(s), uint64(u.n))
	}
	u.vertices[s] = diff.Apply(u.vertices[s])
	hs := u.x.slot(s)
	m, ok := u.recalc(hs)
	u.lg.Debug("slot weight updated",
		zap.Uint64("slot", uint64(s)),
		zap.Int("affected", len(hs)),
		zap.Bool("effect", ok))
	return m, ok, nil
}

// UpdateTransition applies diff to the weight of the transition from -> to and
// recomputes every node whose aggregate depends on it. Results are as for
// UpdateSlot.
func (u *Tree[S, V, E, D]) UpdateTransition(from, to S, diff Diff[E]) (D, bool, error) {
	var d D
	if err := u.checkTransition("UpdateTransition", from, to); err != nil {
		return d, false, err
	}
	i := int(from)*u.w + int(to)
	u.edges[i] = diff.Apply(u.edges[i])
	hs := u.x.transition(from, to)
	d, ok := u.recalc(hs)
	u.lg.Debug("transition weight updated",
		zap.Uint64("from", uint64(from)),
		zap.Uint64("to", uint64(to)),
		zap.Int("affected", len(hs)),
		zap.Bool("effect", ok))
	return d, ok, nil
}

func (u *Tree[S, V, E, D]) checkTransition(op string, from, to S) error {
	if from > u.n {
		return violation(op, "from", uint64(from), uint64(u.n))
	}
	if to > u.n {
		return violation(op, "to", uint64(to), uint64(u.n))
	}
	if from == to {
		return selfTransition(op, uint64(from))
	}
	return nil
}

// SetInitial replaces the aggregate of the root and recomputes the whole tree.
// Returns the smallest aggregate among all complete placements.
func (u *Tree[S, V, E, D]) SetInitial(d D) D {
	u.vs[root] = d
	m := u.Recompute()
	u.lg.Debug("root aggregate replaced", zap.Uint64("nodes", uint64(u.Size())))
	return m
}

// Slot returns the weight of slot s.
func (u *Tree[S, V, E, D]) Slot(s S) (V, error) {
	if s > u.n {
		var v V
		return v, violation("Slot", "slot", uint64(s), uint64(u.n))
	}
	return u.vertices[s], nil
}

// Transition returns the weight of the transition from -> to.
func (u *Tree[S, V, E, D]) Transition(from, to S) (E, error) {
	if err := u.checkTransition("Transition", from, to); err != nil {
		var e E
		return e, err
	}
	return u.edges[int(from)*u.w+int(to)], nil
}

// N is the largest slot.
func (u *Tree[S, V, E, D]) N() S {
	return u.n
}

// K is the number of non anchor slots on every placement, min(k, n).
func (u *Tree[S, V, E, D]) K() S {
	return u.k
}

func (u *Tree[S, V, E, D]) Anchor() S {
	return u.anchor
}

// Aggregate returns the cached aggregate of the node reached from the root by
// following path, the root's own slot excluded. An empty path is the root.
func (u *Tree[S, V, E, D]) Aggregate(path ...S) (D, bool) {
	h := S(root)
	for _, s := range path {
		if h = u.child(h, s); h == 0 {
			var d D
			return d, false
		}
	}
	return u.vs[h], true
}

// Placements calls f for every complete placement, in ascending lexicographic
// order, with its slots from anchor to anchor and its aggregate, until f
// returns false. path is reused between calls.
func (u *Tree[S, V, E, D]) Placements(f func(path []S, agg D) bool) {
	buf := make([]S, 0, int(u.k)+2)
	u.walk(func(h S) bool {
		if !u.isLeaf(h) {
			return true
		}
		buf = u.path(h, buf)
		return f(buf, u.vs[h])
	})
}

// Best returns the complete placement with the smallest aggregate and its slots
// from anchor to anchor. Ties go to the placement first in breadth first
// order. The last return value is false unless the tree was built WithRanking.
func (u *Tree[S, V, E, D]) Best() (D, []S, bool) {
	if u.rank == nil {
		var d D
		return d, nil, false
	}
	r, _ := u.rank.best()
	return r.agg, u.path(r.leaf, make([]S, 0, int(u.k)+2)), true
}
