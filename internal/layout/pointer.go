package layout

// PointerIterator yields the storage positions of a layout in a traversal order.
// Iterators are finite and not restartable.
type PointerIterator interface {
	// HasNext reports whether another position is available.
	HasNext() bool
	// Next returns the next storage position.
	Next() int
	// Position returns the traversal index of the last returned position, -1 before the first call.
	Position() int
	// Size returns the number of positions the iterator yields.
	Size() int
}

// NewPointerIterator returns a pointer iterator over l in the given order.
// Layouts that can be walked as a single run use a plain counter.
func NewPointerIterator(l *StrideLayout, order Order) PointerIterator {
	loop := NewLoopIterator(l, order)
	if loop.Runs() <= 1 {
		start := l.offset
		if loop.HasNext() {
			start = loop.Next()
		}
		return &densePointerIterator{start: start, step: loop.Step, size: l.Size(), pos: -1}
	}
	return &stridePointerIterator{loop: loop, size: l.Size(), pos: -1, inRun: loop.Size}
}

type densePointerIterator struct {
	start, step int
	size        int
	pos         int
}

func (it *densePointerIterator) HasNext() bool { return it.pos+1 < it.size }

func (it *densePointerIterator) Next() int {
	if !it.HasNext() {
		panicf(ErrOutOfRange, "pointer iterator: no more positions")
	}
	it.pos++
	return it.start + it.pos*it.step
}

func (it *densePointerIterator) Position() int { return it.pos }

func (it *densePointerIterator) Size() int { return it.size }

type stridePointerIterator struct {
	loop  *LoopIterator
	size  int
	pos   int
	run   int
	inRun int
}

func (it *stridePointerIterator) HasNext() bool { return it.pos+1 < it.size }

func (it *stridePointerIterator) Next() int {
	if !it.HasNext() {
		panicf(ErrOutOfRange, "pointer iterator: no more positions")
	}
	if it.inRun == it.loop.Size {
		it.run = it.loop.Next()
		it.inRun = 0
	}
	p := it.run + it.inRun*it.loop.Step
	it.inRun++
	it.pos++
	return p
}

func (it *stridePointerIterator) Position() int { return it.pos }

func (it *stridePointerIterator) Size() int { return it.size }
