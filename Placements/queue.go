package Placements

// circQ is a circular array queue of draft node ids. The zero value is an
// empty queue with no capacity.
type circQ[T any] struct {
	sz, head, tail int
	content        []T
}

func makeCircQ[T any](initCap int) circQ[T] {
	return circQ[T]{content: make([]T, max(initCap, 1))}
}

func (u *circQ[T]) Empty() bool {
	return u.sz == 0
}

func (u *circQ[T]) Size() int {
	return u.sz
}

func (u *circQ[T]) resize(newLen int) {
	nc := make([]T, newLen)
	if u.head < u.tail {
		copy(nc, u.content[u.head:u.tail])
	} else if u.sz > 0 {
		copy(nc, u.content[u.head:])
		copy(nc[len(u.content)-u.head:], u.content[:u.tail])
	}
	u.head, u.tail = 0, u.sz
	u.content = nc
}

func (u *circQ[T]) Push(item T) {
	if u.sz == len(u.content) {
		u.resize(u.sz*3/2 + 1)
	}
	u.content[u.tail] = item
	u.tail = (u.tail + 1) % len(u.content)
	u.sz++
}

// Pop the head. The second return value is false when the queue is empty.
func (u *circQ[T]) Pop() (T, bool) {
	var item T
	if u.Empty() {
		return item, false
	}
	item, u.content[u.head] = u.content[u.head], item
	u.head = (u.head + 1) % len(u.content)
	u.sz--
	return item, true
}
