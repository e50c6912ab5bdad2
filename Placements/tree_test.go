package Placements

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var _R = rand.New(rand.NewSource(0))

func TestUpdate(t *testing.T) {
	u := newSum(t, 2, 2, 0)
	steps := []struct {
		slot     bool
		from, to uint32
		w, want  int64
	}{
		{true, 1, 0, 1, 1},
		{true, 2, 0, 1, 2},
		{false, 0, 1, 1, 3},
		{false, 0, 2, 2, 4},
		{false, 1, 0, 3, 7},
		{false, 1, 2, 4, 7},
		{false, 2, 0, 5, 12},
		{false, 2, 1, 6, 13},
		{true, 0, 0, 1, 13},
	}
	for i, st := range steps {
		var got int64
		var ok bool
		var err error
		if st.slot {
			got, ok, err = u.UpdateSlot(st.from, Replace[int64]{st.w})
		} else {
			got, ok, err = u.UpdateTransition(st.from, st.to, Replace[int64]{st.w})
		}
		require.NoError(t, err, "step %d", i)
		require.True(t, ok, "step %d", i)
		assert.Equal(t, st.want, got, "step %d", i)
	}
	assert.False(t, u.Corrupt())
}

func TestRecompute(t *testing.T) {
	u := newSum(t, 2, 2, 0)
	edges := [][]int64{{0, 1, 2}, {3, 0, 4}, {5, 6, 0}}
	for from := range edges {
		for to, w := range edges[from] {
			if from != to {
				_, _, err := u.UpdateTransition(uint32(from), uint32(to), Replace[int64]{w})
				require.NoError(t, err)
			}
		}
	}
	assert.Equal(t, int64(10), u.Recompute())
	got, ok := u.Aggregate(1, 2, 0)
	assert.True(t, ok)
	assert.Equal(t, int64(10), got)
	got, ok = u.Aggregate(2, 1, 0)
	assert.True(t, ok)
	assert.Equal(t, int64(11), got)
	got, ok = u.Aggregate(2)
	assert.True(t, ok)
	assert.Equal(t, int64(2), got)
	_, ok = u.Aggregate(2, 2)
	assert.False(t, ok)
	got, ok = u.Aggregate()
	assert.True(t, ok)
	assert.Zero(t, got)
}

func TestInitial(t *testing.T) {
	u, err := New[uint32, int64, int64, int64](3, 2, 1, 100, sum, lt)
	require.NoError(t, err)
	u.Placements(func(path []uint32, agg int64) bool {
		assert.Equal(t, int64(100), agg, "%v", path)
		return true
	})
	assert.Equal(t, int64(-5), u.SetInitial(-5))
	got, _ := u.Aggregate(0, 2, 1)
	assert.Equal(t, int64(-5), got)
	assert.False(t, u.Corrupt())
}

func TestNoEffect(t *testing.T) {
	u := newSum(t, 3, 1, 0)
	before := slices.Clone(u.vs)
	_, ok, err := u.UpdateTransition(1, 2, Replace[int64]{9})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, u.vs)
	w, err := u.Transition(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), w)

	m, ok, err := u.UpdateTransition(2, 0, Replace[int64]{9})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(9), m)
}

func TestPreconditions(t *testing.T) {
	var pv *PreconditionViolation

	_, err := New[uint32, int64, int64, int64](2, 2, 3, 0, sum, lt)
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, "anchor", pv.Arg)
	assert.EqualValues(t, 3, pv.Value)
	assert.EqualValues(t, 2, pv.Bound)

	_, err = New[uint8, int64, int64, int64](255, 0, 0, 0, sum, lt)
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, "n", pv.Arg)

	_, err = New[uint8, int64, int64, int64](6, 6, 0, 0, sum, lt)
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, "k", pv.Arg)
	assert.EqualValues(t, 2, pv.Bound)
	_, err = New[uint8, int64, int64, int64](6, 2, 0, 0, sum, lt)
	require.NoError(t, err)

	u := newSum(t, 2, 2, 0)
	before := slices.Clone(u.vs)
	vertices, edges := slices.Clone(u.vertices), slices.Clone(u.edges)

	_, ok, err := u.UpdateSlot(3, Replace[int64]{1})
	assert.False(t, ok)
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, "slot", pv.Arg)

	for _, c := range []struct {
		from, to uint32
		arg      string
	}{{3, 0, "from"}, {0, 3, "to"}, {0, 0, "transition"}, {2, 2, "transition"}} {
		_, ok, err = u.UpdateTransition(c.from, c.to, Replace[int64]{1})
		assert.False(t, ok)
		require.ErrorAs(t, err, &pv)
		assert.Equal(t, c.arg, pv.Arg)
		assert.True(t, IsPreconditionViolation(err))
		assert.Equal(t, "UpdateTransition", pv.Op)
	}
	assert.Contains(t, err.Error(), "self transition")

	_, err = u.Slot(3)
	assert.True(t, IsPreconditionViolation(err))
	_, err = u.Transition(1, 1)
	assert.True(t, IsPreconditionViolation(err))

	assert.Equal(t, before, u.vs)
	assert.Equal(t, vertices, u.vertices)
	assert.Equal(t, edges, u.edges)
	assert.False(t, IsPreconditionViolation(nil))
}

// affected returns the smallest aggregate among the placements that contain s,
// or the transition from s to to when to is not nil.
func affected(u *Tree[uint32, int64, int64, int64], s uint32, to *uint32) (int64, bool) {
	var m int64
	found := false
	u.Placements(func(path []uint32, agg int64) bool {
		hit := false
		for i := range path {
			if to == nil && path[i] == s && i < len(path)-1 {
				hit = true
			} else if to != nil && i > 0 && path[i-1] == s && path[i] == *to {
				hit = true
			}
		}
		if hit && (!found || agg < m) {
			m, found = agg, true
		}
		return true
	})
	return m, found
}

func TestIncremental(t *testing.T) {
	for _, c := range []struct{ n, k, anchor uint32 }{{4, 4, 0}, {5, 3, 2}, {6, 2, 6}, {3, 1, 1}, {1, 1, 0}} {
		u := newSum(t, c.n, c.k, c.anchor, WithRanking(4))
		for range 200 {
			from, to := uint32(_R.Intn(int(c.n)+1)), uint32(_R.Intn(int(c.n)+1))
			w := int64(_R.Intn(100) - 20)
			var got int64
			var ok bool
			var err error
			if from == to {
				got, ok, err = u.UpdateSlot(from, Replace[int64]{w})
				require.NoError(t, err)
				want, found := affected(u, from, nil)
				require.Equal(t, found, ok)
				assert.Equal(t, want, got)
			} else {
				got, ok, err = u.UpdateTransition(from, to, Replace[int64]{w})
				require.NoError(t, err)
				want, found := affected(u, from, &to)
				require.Equal(t, found, ok)
				if ok {
					assert.Equal(t, want, got)
				}
			}
		}
		incremental := slices.Clone(u.vs)
		u.Recompute()
		assert.Equal(t, incremental, u.vs, "%+v", c)
		assert.False(t, u.Corrupt(), "%+v", c)
	}
}

func TestIdempotent(t *testing.T) {
	u := newSum(t, 4, 3, 1)
	for s := uint32(0); s <= 4; s++ {
		_, _, err := u.UpdateSlot(s, Replace[int64]{int64(s) * 3})
		require.NoError(t, err)
		for to := uint32(0); to <= 4; to++ {
			if to != s {
				_, _, err = u.UpdateTransition(s, to, Replace[int64]{int64(s*7+to) % 5})
				require.NoError(t, err)
			}
		}
	}
	before := slices.Clone(u.vs)
	for s := uint32(0); s <= 4; s++ {
		w, err := u.Slot(s)
		require.NoError(t, err)
		_, _, err = u.UpdateSlot(s, Replace[int64]{w})
		require.NoError(t, err)
		_, _, err = u.UpdateSlot(s, Merge[int64](func(cur int64) int64 { return cur }))
		require.NoError(t, err)
		assert.Equal(t, before, u.vs)
	}
	_, _, err := u.UpdateTransition(2, 3, Merge[int64](func(cur int64) int64 { return cur + 0 }))
	require.NoError(t, err)
	assert.Equal(t, before, u.vs)
}

func TestMerge(t *testing.T) {
	u := newSum(t, 3, 3, 0)
	add := Merge[int64](func(cur int64) int64 { return cur + 2 })
	for range 3 {
		_, _, err := u.UpdateSlot(1, add)
		require.NoError(t, err)
	}
	w, _ := u.Slot(1)
	assert.Equal(t, int64(6), w)
	m, ok, err := u.UpdateTransition(3, 0, add)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(8), m)
}

// Optional weights: a path is only priced once every weight on it is set.
func TestOptional(t *testing.T) {
	type cost struct {
		v      int64
		priced bool
	}
	combine := func(d cost, v Optional[int64], e Optional[int64]) cost {
		return cost{d.v + v.Value + e.Value, d.priced && v.Present && e.Present}
	}
	less := func(a, b cost) bool {
		if a.priced != b.priced {
			return a.priced
		}
		return a.v < b.v
	}
	u, err := New[uint16, Optional[int64], Optional[int64], cost](2, 2, 0, cost{0, true}, combine, less)
	require.NoError(t, err)
	for s := uint16(0); s <= 2; s++ {
		_, _, err = u.UpdateSlot(s, Wrap[int64](1))
		require.NoError(t, err)
	}
	for _, e := range [][2]uint16{{0, 1}, {1, 2}, {2, 1}} {
		m, _, err := u.UpdateTransition(e[0], e[1], Wrap[int64](1))
		require.NoError(t, err)
		assert.False(t, m.priced)
	}
	m, ok, err := u.UpdateTransition(2, 0, Wrap[int64](10))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cost{15, true}, m)

	m, _, err = u.UpdateTransition(0, 1, Unset[int64]())
	require.NoError(t, err)
	assert.False(t, m.priced)
	w, _ := u.Transition(0, 1)
	assert.False(t, w.Present)
}

func TestBest(t *testing.T) {
	u := newSum(t, 5, 3, 0)
	_, _, ok := u.Best()
	assert.False(t, ok)

	u = newSum(t, 5, 3, 0, WithRanking(0))
	for range 300 {
		from, to := uint32(_R.Intn(6)), uint32(_R.Intn(6))
		if from == to {
			_, _, err := u.UpdateSlot(from, Replace[int64]{int64(_R.Intn(50))})
			require.NoError(t, err)
		} else {
			_, _, err := u.UpdateTransition(from, to, Replace[int64]{int64(_R.Intn(50))})
			require.NoError(t, err)
		}
		m, path, ok := u.Best()
		require.True(t, ok)
		var want int64
		first := true
		u.Placements(func(p []uint32, agg int64) bool {
			if first || agg < want {
				want, first = agg, false
			}
			return true
		})
		require.Equal(t, want, m)
		got, _ := u.Aggregate(path[1:]...)
		require.Equal(t, m, got)
		require.Len(t, path, 5)
	}
	assert.False(t, u.Corrupt())
}

func TestPlacementsStop(t *testing.T) {
	u := newSum(t, 4, 4, 0)
	calls := 0
	u.Placements(func([]uint32, int64) bool {
		calls++
		return calls < 5
	})
	assert.Equal(t, 5, calls)
	assert.EqualValues(t, 4, u.N())
	assert.EqualValues(t, 4, u.K())
	assert.EqualValues(t, 0, u.Anchor())
}

func TestCorrupt(t *testing.T) {
	u := newSum(t, 3, 2, 0, WithRanking(2))
	require.False(t, u.Corrupt())
	u.vs[5]++
	assert.True(t, u.Corrupt())
	u.Recompute()
	require.False(t, u.Corrupt())

	u.ifs[3].slot, u.ifs[4].slot = u.ifs[4].slot, u.ifs[3].slot
	assert.True(t, u.Corrupt())
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	u := newSum(t, 3, 2, 0, WithLogger(zap.New(core)))
	built := logs.FilterMessage("placements tree built").All()
	require.Len(t, built, 1)
	assert.EqualValues(t, 3, built[0].ContextMap()["n"])

	_, _, err := u.UpdateSlot(2, Replace[int64]{1})
	require.NoError(t, err)
	updated := logs.FilterMessage("slot weight updated").All()
	require.Len(t, updated, 1)
	assert.Equal(t, true, updated[0].ContextMap()["effect"])

	newSum(t, 1, 1, 0, WithLogger(nil))
}
