package Placements

// Diff is a change applied to a single weight cell. Apply returns the new value
// of the cell given its current value.
type Diff[T any] interface {
	Apply(cur T) T
}

// Replace overwrites the cell with Value.
type Replace[T any] struct {
	Value T
}

func (u Replace[T]) Apply(T) T {
	return u.Value
}

// Merge combines the current value of the cell into a new one.
type Merge[T any] func(cur T) T

func (u Merge[T]) Apply(cur T) T {
	return u(cur)
}

// Optional is a weight that may be absent. Its zero value is absent, so a tree
// whose weights are Optional starts with every weight unset.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Wrap makes a diff that sets an Optional cell to the present value v.
func Wrap[T any](v T) Replace[Optional[T]] {
	return Replace[Optional[T]]{Optional[T]{v, true}}
}

// Unset makes a diff that clears an Optional cell.
func Unset[T any]() Replace[Optional[T]] {
	return Replace[Optional[T]]{}
}

// Combine folds the weights of one step into an aggregate: the aggregate of the
// parent, the weight of the parent's slot and the weight of the transition from
// the parent's slot to the child's.
type Combine[V, E, D any] func(parent D, slot V, transition E) D

// Less orders aggregates. Minimums use it strictly: ties keep the earliest.
type Less[D any] func(a, b D) bool
