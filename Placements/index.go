package Placements

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"golang.org/x/exp/constraints"
)

// walk visits every node of the arena in pre-order, children ascending by slot,
// until f returns false.
func (u *arena[D, S]) walk(f func(h S) bool) {
	st := arraystack.New()
	st.Push(S(root))
	for v, ok := st.Pop(); ok; v, ok = st.Pop() {
		h := v.(S)
		if !f(h) {
			return
		}
		for lo, c := u.children(h); c > lo; {
			c--
			st.Push(c)
		}
	}
}

// index maps every slot and every transition to the nodes positioned at it.
// Built once after the shape is final and never modified afterwards.
type index[S constraints.Unsigned] struct {
	n           int
	slots       [][]S // slots[s] are the nodes at slot s, anchor leaves included.
	transitions [][]S // transitions[from*(n+1)+to] are the nodes reached by the edge from->to.
}

func (u *index[S]) slot(s S) []S {
	return u.slots[s]
}

func (u *index[S]) transition(from, to S) []S {
	return u.transitions[int(from)*(u.n+1)+int(to)]
}

// fill the index with a single pass over the arena.
func fill[D any, S constraints.Unsigned](a *arena[D, S], n S) index[S] {
	w := int(n) + 1
	x := index[S]{n: int(n), slots: make([][]S, w), transitions: make([][]S, w*w)}
	a.walk(func(h S) bool {
		nd := a.ifs[h]
		x.slots[nd.slot] = append(x.slots[nd.slot], h)
		if !a.isRoot(h) {
			i := int(a.ifs[nd.parent].slot)*w + int(nd.slot)
			x.transitions[i] = append(x.transitions[i], h)
		}
		return true
	})
	return x
}
