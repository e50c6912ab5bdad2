package Placements

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// A node in the arena.
// The zero value is the nil node: ifs[0] is never a real node and a parent of 0
// means "no parent".
type info[S constraints.Unsigned] struct {
	parent, first, count, slot S // children are ifs[first:first+count], ascending by slot.
}

// arena holds every node of a placements tree. Handles are assigned breadth
// first, so parent < child for every edge and a sweep over 1..len-1 visits
// parents before children.
type arena[D any, S constraints.Unsigned] struct {
	ifs []info[S] // ifs[0] is the nil node. ifs[1] is the root.
	vs  []D       // vs[i] is the aggregate of ifs[i]; vs[0] is unused.
}

const root = 1

func (u *arena[D, S]) isRoot(h S) bool {
	return h == root
}

func (u *arena[D, S]) isLeaf(h S) bool {
	return u.ifs[h].count == 0
}

// children returns the half open handle range of h's children.
func (u *arena[D, S]) children(h S) (S, S) {
	n := &u.ifs[h]
	return n.first, n.first + n.count
}

// Size is the number of nodes, the nil node excluded.
func (u *arena[D, S]) Size() S {
	return S(len(u.ifs) - 1)
}

// path writes the slots from the root down to h into buf.
func (u *arena[D, S]) path(h S, buf []S) []S {
	buf = buf[:0]
	for ; h != 0; h = u.ifs[h].parent {
		buf = append(buf, u.ifs[h].slot)
	}
	slices.Reverse(buf)
	return buf
}

// child finds the child of h at slot s with a binary search over the
// contiguous, ascending child range. Returns 0 if there is none.
func (u *arena[D, S]) child(h S, s S) S {
	lo, hi := u.children(h)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if c := u.ifs[mid].slot; c == s {
			return mid
		} else if c < s {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return 0
}
