package Placements

// step computes the aggregate of the non root node h from its parent.
func (u *Tree[S, V, E, D]) step(h S) D {
	p := u.ifs[h].parent
	ps := u.ifs[p].slot
	return u.combine(u.vs[p], u.vertices[ps], u.edges[int(ps)*u.w+int(u.ifs[h].slot)])
}

func (u *Tree[S, V, E, D]) set(h S, d D) {
	if u.rank != nil && u.isLeaf(h) {
		u.rank.move(h, u.vs[h], d)
	}
	u.vs[h] = d
}

// subtree recomputes h, unless it's the root, and everything below it. Returns
// the smallest aggregate among the complete placements of the subtree.
// Recursive, depth bounded by k+1.
func (u *Tree[S, V, E, D]) subtree(h S) D {
	if !u.isRoot(h) {
		u.set(h, u.step(h))
	}
	if u.isLeaf(h) {
		return u.vs[h]
	}
	return u.below(h)
}

// below recomputes the subtrees of h's children, leaving h itself alone. h must
// have children.
func (u *Tree[S, V, E, D]) below(h S) D {
	lo, hi := u.children(h)
	m := u.subtree(lo)
	for c := lo + 1; c < hi; c++ {
		if r := u.subtree(c); u.less(r, m) {
			m = r
		}
	}
	return m
}

// recalc every node in hs and everything depending on it. The second return
// value is false if hs is empty, in which case nothing was touched.
func (u *Tree[S, V, E, D]) recalc(hs []S) (m D, ok bool) {
	for i, h := range hs {
		var r D
		if u.isRoot(h) {
			r = u.below(h)
		} else {
			r = u.subtree(h)
		}
		if i == 0 || u.less(r, m) {
			m = r
		}
	}
	return m, len(hs) > 0
}

// Recompute every aggregate from the root aggregate and the current weights,
// ignoring what is cached. Returns the smallest aggregate among all complete
// placements.
// Iterative: handles are breadth first, so parents are always done first.
func (u *Tree[S, V, E, D]) Recompute() D {
	var m D
	first := true
	for h := S(root + 1); int(h) < len(u.ifs); h++ {
		u.set(h, u.step(h))
		if u.isLeaf(h) && (first || u.less(u.vs[h], m)) {
			m, first = u.vs[h], false
		}
	}
	return m
}
