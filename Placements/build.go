package Placements

import (
	"math/bits"
	"slices"

	"golang.org/x/exp/constraints"
)

// draft is a node of the tree under construction. Children are draft ids
// ordered ascending by slot.
type draft[S constraints.Unsigned] struct {
	slot S
	kids []int
}

type builder[S constraints.Unsigned] struct {
	ds []draft[S] // ds[0] is the root.
}

func (b *builder[S]) add(slot S) int {
	b.ds = append(b.ds, draft[S]{slot: slot})
	return len(b.ds) - 1
}

// insert slot below at with depth levels left. The new child and every existing
// child of at are cross inserted into each other, so a slot never repeats on a
// path while different prefixes still get all their continuations.
// Recursive, depth bounded by k.
func (b *builder[S]) insert(at int, slot S, depth S) {
	if depth == 0 {
		return
	}
	c := b.add(slot)
	pos := -1
	for i := 0; i < len(b.ds[at].kids); i++ {
		e := b.ds[at].kids[i]
		if pos < 0 && slot < b.ds[e].slot {
			pos = i
		}
		b.insert(e, slot, depth-1)
		b.insert(c, b.ds[e].slot, depth-1)
	}
	if pos < 0 {
		pos = len(b.ds[at].kids)
	}
	b.ds[at].kids = slices.Insert(b.ds[at].kids, pos, c)
}

// finish closes every path with an anchor leaf.
func (b *builder[S]) finish(anchor S) {
	for i, m := 0, len(b.ds); i < m; i++ {
		if len(b.ds[i].kids) == 0 {
			c := b.add(anchor)
			b.ds[i].kids = append(b.ds[i].kids, c)
		}
	}
}

// compact lays the drafts out breadth first, making the children of every node
// a contiguous range of handles.
func (b *builder[S]) compact() []info[S] {
	ifs := make([]info[S], 2, len(b.ds)+1)
	ifs[root].slot = b.ds[0].slot
	q := makeCircQ[int](len(b.ds) / 2)
	q.Push(0)
	for h := S(root); !q.Empty(); h++ {
		d, _ := q.Pop()
		ifs[h].first, ifs[h].count = S(len(ifs)), S(len(b.ds[d].kids))
		for _, kid := range b.ds[d].kids {
			ifs = append(ifs, info[S]{parent: h, slot: b.ds[kid].slot})
			q.Push(kid)
		}
	}
	return ifs
}

// buildShape constructs the placement tree for slots 0..n under anchor with at
// most k non anchor slots per path. k must already be clamped to n, and n+1
// must fit in S.
func buildShape[S constraints.Unsigned](n, k, anchor S) []info[S] {
	b := builder[S]{}
	b.add(anchor)
	for s := S(0); s < anchor; s++ {
		b.insert(0, s, k)
	}
	for s := anchor + 1; s <= n; s++ {
		b.insert(0, s, k)
	}
	b.finish(anchor)
	return b.compact()
}

// nodeCount returns the number of nodes of the tree for n non anchor slots and
// depth k: the root, one node per j-permutation for every 1<=j<=k, and one
// anchor leaf per k-permutation. ok is false on uint64 overflow.
func nodeCount(n, k uint64) (uint64, bool) {
	nodes, perm := uint64(1), uint64(1)
	var hi, carry uint64
	for j := uint64(1); j <= k; j++ {
		if hi, perm = bits.Mul64(perm, n-j+1); hi != 0 {
			return 0, false
		}
		if nodes, carry = bits.Add64(nodes, perm, 0); carry != 0 {
			return 0, false
		}
	}
	if nodes, carry = bits.Add64(nodes, perm, 0); carry != 0 {
		return 0, false
	}
	return nodes, true
}
