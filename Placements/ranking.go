package Placements

import (
	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

// defaultDegree of the ranking btree.
const defaultDegree = 8

// ranked is one complete placement, identified by its anchor leaf.
type ranked[D any, S constraints.Unsigned] struct {
	agg  D
	leaf S
}

// ranking keeps every complete placement ordered by aggregate, ties broken by
// leaf handle, so the global best is always at Min.
type ranking[D any, S constraints.Unsigned] struct {
	t *btree.BTreeG[ranked[D, S]]
}

func newRanking[D any, S constraints.Unsigned](degree int, less Less[D]) *ranking[D, S] {
	if degree < 2 {
		degree = defaultDegree
	}
	return &ranking[D, S]{btree.NewG(degree, func(a, b ranked[D, S]) bool {
		if less(a.agg, b.agg) {
			return true
		} else if less(b.agg, a.agg) {
			return false
		}
		return a.leaf < b.leaf
	})}
}

// move re-keys leaf from old to cur. old must be the value the leaf was last
// ranked with; a leaf that was never ranked is simply inserted.
func (u *ranking[D, S]) move(leaf S, old, cur D) {
	u.t.Delete(ranked[D, S]{old, leaf})
	u.t.ReplaceOrInsert(ranked[D, S]{cur, leaf})
}

func (u *ranking[D, S]) best() (ranked[D, S], bool) {
	return u.t.Min()
}

func (u *ranking[D, S]) Len() int {
	return u.t.Len()
}
