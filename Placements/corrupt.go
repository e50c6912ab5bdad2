package Placements

func (u *Tree[S, V, E, D]) equal(a, b D) bool {
	return !u.less(a, b) && !u.less(b, a)
}

// Corrupt returns whether the tree violates any of its invariants: the shape
// (ordered contiguous children, anchor at both ends, no slot twice on a path,
// every path of length k), the indexes, the ranking, or a cached aggregate that
// differs from what its parent and the current weights give.
func (u *Tree[S, V, E, D]) Corrupt() bool {
	if len(u.ifs) < 3 || u.ifs[root].parent != 0 || u.ifs[root].slot != u.anchor {
		return true
	}
	leaves := 0
	for h := S(root + 1); int(h) < len(u.ifs); h++ {
		nd := u.ifs[h]
		if nd.parent == 0 || nd.parent >= h || nd.slot > u.n {
			return true
		}
		if lo, hi := u.children(nd.parent); h < lo || h >= hi {
			return true
		} else if h > lo && u.ifs[h-1].slot >= nd.slot {
			return true
		}
		if !u.equal(u.vs[h], u.step(h)) {
			return true
		}
		if u.isLeaf(h) != (nd.slot == u.anchor) {
			return true
		} else if u.isLeaf(h) {
			leaves++
		}
	}
	if u.rank != nil && u.rank.Len() != leaves {
		return true
	}

	seen := newSlotSet(u.w)
	var buf []S
	corrupt := false
	u.walk(func(h S) bool {
		if !u.isLeaf(h) {
			return true
		}
		buf = u.path(h, buf)
		if len(buf) != int(u.k)+2 {
			corrupt = true
			return false
		}
		for _, s := range buf[1 : len(buf)-1] {
			if seen.Get(uint64(s)) {
				corrupt = true
			}
			seen.Up(uint64(s))
		}
		for _, s := range buf {
			seen.Down(uint64(s))
		}
		return !corrupt
	})
	if corrupt {
		return true
	}

	var nSlots, nTransitions int
	for s := range u.x.slots {
		for _, h := range u.x.slots[s] {
			if int(u.ifs[h].slot) != s {
				return true
			}
		}
		nSlots += len(u.x.slots[s])
	}
	for i := range u.x.transitions {
		for _, h := range u.x.transitions[i] {
			if p := u.ifs[h].parent; int(u.ifs[p].slot)*u.w+int(u.ifs[h].slot) != i {
				return true
			}
		}
		nTransitions += len(u.x.transitions[i])
	}
	return nSlots != int(u.Size()) || nTransitions != int(u.Size())-1
}
