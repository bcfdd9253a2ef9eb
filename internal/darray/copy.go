package darray

import (
	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"k8s.io/klog/v2"
)

// Copy returns a new dense array with the same elements, laid out in the given order.
// S and A produce the source's fast order when it has one and C otherwise.
func (a *DArray[N]) Copy(order layout.Order) *DArray[N] {
	order = a.copyOrder(order)
	out := a.factory().Zeros(a.Shape(), order)
	if a.layout.IsDense() && a.layout.StorageFastOrder() == order {
		start := a.layout.Offset()
		copy(out.storage.Data(), a.storage.Data()[start:start+a.Size()])
		return out
	}
	a.CopyTo(out, order)
	return out
}

func (a *DArray[N]) copyOrder(order layout.Order) layout.Order {
	switch order {
	case layout.C, layout.F:
		return order
	default:
		if fast := a.layout.StorageFastOrder(); fast == layout.F {
			return layout.F
		}
		return layout.C
	}
}

// CopyTo copies the elements of a into dst, which must have the same shape, walking both
// in the given order. Large arrays are split into tiles copied in parallel.
func (a *DArray[N]) CopyTo(dst *DArray[N], order layout.Order) *DArray[N] {
	if !a.Shape().Equal(dst.Shape()) {
		panicf(ErrShapeMismatch, "copyTo: source shape %v differs from destination shape %v", a.Shape(), dst.Shape())
	}
	limit := copyTileLimit(a.m.L2CacheBytes(), a.dt.Bytes(), a.m.Threads())
	if a.m.Threads() <= 1 || a.Size() <= limit {
		copyDirect(dst, a, order)
		return dst
	}
	tiles := planTiles(a.Shape().Dims(), limit)
	klog.V(2).Infof("darray: copy of shape %v split into %d tiles (limit %d elements)", a.Shape(), len(tiles), limit)
	b := a.m.pool.NewBatch()
	for _, t := range tiles {
		src := a.NarrowAll(true, t.starts, t.ends)
		out := dst.NarrowAll(true, t.starts, t.ends)
		b.Go(func() error {
			copyDirect(out, src, order)
			return nil
		})
	}
	if err := b.Wait(); err != nil {
		panic(err)
	}
	return dst
}

// copyFrom copies src into a on the calling goroutine.
func (a *DArray[N]) copyFrom(src *DArray[N]) {
	if !a.Shape().Equal(src.Shape()) {
		panicf(ErrShapeMismatch, "copy: source shape %v differs from destination shape %v", src.Shape(), a.Shape())
	}
	copyDirect(a, src, layout.S)
}

// copyDirect walks dst and src with joint loops, copying run by run.
func copyDirect[N dtype.Num](dst, src *DArray[N], order layout.Order) {
	loops := layout.NewJointLoops(order, src.layout, dst.layout)
	sl, dl := loops[0], loops[1]
	s, d := src.storage.Data(), dst.storage.Data()
	for r, off := range sl.Offsets {
		q := dl.Offsets[r]
		if sl.Step == 1 && dl.Step == 1 {
			copy(d[q:q+dl.Size], s[off:off+sl.Size])
			continue
		}
		for i, p := 0, off; i < sl.Size; i, p, q = i+1, p+sl.Step, q+dl.Step {
			d[q] = s[p]
		}
	}
}

// copyTileLimit is the largest tile, in elements, a copy task handles.
func copyTileLimit(l2Bytes, elemBytes, threads int) int {
	return max(l2Bytes/(elemBytes*2*threads*8), 1)
}

type tile struct {
	starts, ends []int
}

func (t tile) size() int {
	n := 1
	for i := range t.starts {
		n *= t.ends[i] - t.starts[i]
	}
	return n
}

// planTiles halves the largest tile axis until a tile holds at most limit elements, then
// enumerates the resulting grid of tiles in C order with an explicit stack.
func planTiles(dims []int, limit int) []tile {
	rank := len(dims)
	sizes := append([]int(nil), dims...)
	for {
		n, largest := 1, 0
		for i, s := range sizes {
			n *= s
			if s > sizes[largest] {
				largest = i
			}
		}
		if n <= limit || rank == 0 || sizes[largest] <= 1 {
			break
		}
		sizes[largest] = (sizes[largest] + 1) / 2
	}

	type frame struct {
		axis   int
		starts []int
	}
	var tiles []tile
	stack := []frame{{axis: 0, starts: nil}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.axis == rank {
			t := tile{starts: f.starts, ends: make([]int, rank)}
			for i, s := range f.starts {
				t.ends[i] = min(s+sizes[i], dims[i])
			}
			tiles = append(tiles, t)
			continue
		}
		if dims[f.axis] == 0 {
			return nil
		}
		// pushed in reverse so tiles pop in ascending order
		last := (dims[f.axis] - 1) / sizes[f.axis] * sizes[f.axis]
		for s := last; s >= 0; s -= sizes[f.axis] {
			starts := append(append(make([]int, 0, rank), f.starts...), s)
			stack = append(stack, frame{axis: f.axis + 1, starts: starts})
		}
	}
	return tiles
}

// Cast returns a copy of a converted to element type M, laid out in the given order.
// Missing values map to the missing marker of M; integral targets saturate.
func Cast[M, N dtype.Num](a *DArray[N], order layout.Order) *DArray[M] {
	order = a.copyOrder(order)
	out := Of[M](a.m).Zeros(a.Shape(), order)
	loops := layout.NewJointLoops(order, a.layout, out.layout)
	sl, dl := loops[0], loops[1]
	s, d := a.storage.Data(), out.storage.Data()
	for r, off := range sl.Offsets {
		q := dl.Offsets[r]
		for i, p := 0, off; i < sl.Size; i, p, q = i+1, p+sl.Step, q+dl.Step {
			d[q] = dtype.Convert[M](s[p])
		}
	}
	return out
}
