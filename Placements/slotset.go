package Placements

import "math/bits"

// slotSet is a fixed size bit array over slots.
type slotSet struct {
	bits []uint
}

func newSlotSet(size int) slotSet {
	return slotSet{bits: make([]uint, (size+bits.UintSize-1)/bits.UintSize)}
}

func (u slotSet) Len() int {
	return len(u.bits) * bits.UintSize
}

func (u slotSet) Get(i uint64) bool {
	return (u.bits[i/bits.UintSize]>>(i%bits.UintSize))&1 == 1
}

func (u slotSet) Up(i uint64) {
	u.bits[i/bits.UintSize] |= 1 << (i % bits.UintSize)
}

func (u slotSet) Down(i uint64) {
	u.bits[i/bits.UintSize] &^= 1 << (i % bits.UintSize)
}
