package layout

// StrideLoop is a loop descriptor: the traversal of a layout decomposed into runs of Size
// elements. Run r starts at Offsets[r] and advances by Step, so kernels are written as
//
//	for _, off := range loop.Offsets {
//		for i := 0; i < loop.Size; i++ {
//			p := off + i*loop.Step
//		}
//	}
type StrideLoop struct {
	Size    int
	Step    int
	Offsets []int
}

// Count returns the number of elements visited by the loop.
func (l *StrideLoop) Count() int {
	return l.Size * len(l.Offsets)
}

// NewLoop builds the loop descriptor of a layout traversed in the given order.
func NewLoop(l *StrideLayout, order Order) *StrideLoop {
	return NewJointLoops(order, l)[0]
}

// NewJointLoops builds one loop descriptor per layout so that run r, element i of every
// loop refer to the same logical index. All layouts must have the same shape.
// The traversal axes are taken from the first layout; axes are merged only when the merge
// is valid for every layout.
func NewJointLoops(order Order, layouts ...*StrideLayout) []*StrideLoop {
	if len(layouts) == 0 {
		panicf(ErrIllegalArgument, "loop: no layouts given")
	}
	shape := layouts[0].shape
	for _, l := range layouts[1:] {
		if !l.shape.Equal(shape) {
			panicf(ErrShapeMismatch, "loop: layouts have different shapes %v and %v", shape, l.shape)
		}
	}
	plan := newLoopPlan(order, layouts)
	loops := make([]*StrideLoop, len(layouts))
	for k, l := range layouts {
		loop := &StrideLoop{Size: plan.size, Step: 1}
		if len(plan.axes) > 0 {
			loop.Step = plan.strides[k][0]
		}
		loop.Offsets = plan.offsets(l.offset, plan.strides[k])
		loops[k] = loop
	}
	return loops
}

// loopPlan holds the merged traversal axes shared by a set of layouts.
// dims[0] is the run axis; the remaining axes are enumerated fastest first.
type loopPlan struct {
	size    int
	axes    []int
	dims    []int
	strides [][]int
	runs    int
}

func newLoopPlan(order Order, layouts []*StrideLayout) *loopPlan {
	first := layouts[0]
	p := &loopPlan{strides: make([][]int, len(layouts))}
	if first.Size() == 0 {
		return p
	}
	for _, ax := range first.traversalAxes(order) {
		d := first.shape.dims[ax]
		if d == 1 {
			continue
		}
		if n := len(p.dims); n > 0 && mergeable(layouts, ax, p.strides, p.dims[n-1]) {
			p.dims[n-1] *= d
			continue
		}
		p.axes = append(p.axes, ax)
		p.dims = append(p.dims, d)
		for k, l := range layouts {
			p.strides[k] = append(p.strides[k], l.strides[ax])
		}
	}
	if len(p.dims) == 0 {
		p.size, p.runs = 1, 1
		return p
	}
	p.size = p.dims[0]
	p.runs = 1
	for _, d := range p.dims[1:] {
		p.runs *= d
	}
	return p
}

// mergeable reports whether axis ax can be folded into the previous merged axis for all layouts.
func mergeable(layouts []*StrideLayout, ax int, strides [][]int, dim int) bool {
	for k, l := range layouts {
		last := strides[k][len(strides[k])-1]
		if l.strides[ax] != last*dim {
			return false
		}
	}
	return true
}

// offsets enumerates the start positions of every run with an odometer over the outer axes.
func (p *loopPlan) offsets(base int, strides []int) []int {
	if p.size == 0 {
		return nil
	}
	out := make([]int, 0, p.runs)
	outer := len(p.dims) - 1
	if outer <= 0 {
		return append(out, base)
	}
	idx := make([]int, outer)
	pos := base
	for {
		out = append(out, pos)
		i := 0
		for ; i < outer; i++ {
			idx[i]++
			pos += strides[i+1]
			if idx[i] < p.dims[i+1] {
				break
			}
			pos -= idx[i] * strides[i+1]
			idx[i] = 0
		}
		if i == outer {
			return out
		}
	}
}

// LoopIterator walks the runs of a layout lazily, without materializing the offsets.
// It is finite and not restartable.
type LoopIterator struct {
	Size int
	Step int

	plan    *loopPlan
	strides []int
	idx     []int
	pos     int
	left    int
}

// NewLoopIterator creates a lazy loop over the runs of l in the given order.
func NewLoopIterator(l *StrideLayout, order Order) *LoopIterator {
	plan := newLoopPlan(order, []*StrideLayout{l})
	it := &LoopIterator{Size: plan.size, Step: 1, plan: plan, pos: l.offset}
	if plan.size == 0 {
		return it
	}
	it.left = plan.runs
	if len(plan.dims) > 0 {
		it.Step = plan.strides[0][0]
		it.strides = plan.strides[0]
		it.idx = make([]int, len(plan.dims)-1)
	}
	return it
}

// HasNext reports whether another run is available.
func (it *LoopIterator) HasNext() bool {
	return it.left > 0
}

// Next returns the start position of the next run.
func (it *LoopIterator) Next() int {
	if it.left <= 0 {
		panicf(ErrOutOfRange, "loop iterator: no more runs")
	}
	current := it.pos
	it.left--
	if it.left == 0 {
		return current
	}
	for i := range it.idx {
		it.idx[i]++
		it.pos += it.strides[i+1]
		if it.idx[i] < it.plan.dims[i+1] {
			break
		}
		it.pos -= it.idx[i] * it.strides[i+1]
		it.idx[i] = 0
	}
	return current
}

// Runs returns the total number of runs.
func (it *LoopIterator) Runs() int {
	return it.plan.runs
}
