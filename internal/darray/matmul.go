package darray

import (
	"math"

	"github.com/born-ml/darray/internal/dtype"
	"github.com/born-ml/darray/internal/layout"
	"k8s.io/klog/v2"
)

// mmPlan holds the blocking parameters of a matrix multiplication.
//
// tile is the side of a square block whose elements fit in a per-thread share of the L2
// cache, rounded down to a multiple of 8. vectorChunk is the span of the inner dimension
// walked by one dot product run; innerChunk is the row and column block size.
type mmPlan struct {
	tile        int
	vectorChunk int
	innerChunk  int
}

func newMmPlan(l2Bytes, threads, elemBytes int) mmPlan {
	elems := l2Bytes / (2 * threads * elemBytes)
	tile := int(math.Sqrt(float64(elems))) / 8 * 8
	tile = max(tile, 8)
	return mmPlan{
		tile:        tile,
		vectorChunk: tile * 4,
		innerChunk:  tile,
	}
}

// rowBlocks partitions [0, rows) into consecutive blocks of innerChunk rows.
// Every output row belongs to exactly one block.
func (p mmPlan) rowBlocks(rows int) [][2]int {
	blocks := make([][2]int, 0, (rows+p.innerChunk-1)/p.innerChunk)
	for r := 0; r < rows; r += p.innerChunk {
		blocks = append(blocks, [2]int{r, min(r+p.innerChunk, rows)})
	}
	return blocks
}

// Mm returns the matrix product of a (m x n) and b (n x p) as a new m x p array laid out
// in order, which must be C or F.
//
// The product is blocked for cache reuse and row blocks are computed in parallel by the
// manager's pool. Each task writes a disjoint set of output rows.
func (a *DArray[N]) Mm(b *DArray[N], order layout.Order) *DArray[N] {
	if order != layout.C && order != layout.F {
		panicf(ErrIllegalArgument, "mm: result order must be C or F, got %v", order)
	}
	a.checkMm("mm", b)
	out := a.factory().Zeros(layout.ShapeOf(a.Dim(0), b.Dim(1)), order)
	a.mmInto(b, out)
	return out
}

func (a *DArray[N]) checkMm(op string, b *DArray[N]) {
	if a.Rank() != 2 || b.Rank() != 2 || a.Dim(1) != b.Dim(0) {
		panicf(ErrShapeMismatch, "%s: incompatible shapes %v and %v", op, a.Shape(), b.Shape())
	}
}

// mmInto accumulates a x b into out, which must be zeroed.
func (a *DArray[N]) mmInto(b, out *DArray[N]) {
	plan := newMmPlan(a.m.L2CacheBytes(), a.m.Threads(), a.dt.Bytes())
	blocks := plan.rowBlocks(a.Dim(0))
	klog.V(2).Infof("darray: mm %v x %v tile=%d vectorChunk=%d innerChunk=%d blocks=%d",
		a.Shape(), b.Shape(), plan.tile, plan.vectorChunk, plan.innerChunk, len(blocks))
	if len(blocks) <= 1 || a.m.Threads() <= 1 {
		for _, blk := range blocks {
			mmBlock(a, b, out, blk[0], blk[1], plan)
		}
		return
	}
	batch := a.m.pool.NewBatch()
	for _, blk := range blocks {
		batch.Go(func() error {
			mmBlock(a, b, out, blk[0], blk[1], plan)
			return nil
		})
	}
	if err := batch.Wait(); err != nil {
		panic(err)
	}
}

// mmBlock computes output rows [r0, r1). The inner dimension is walked in vectorChunk
// spans and the partial dot products are added to the output.
func mmBlock[N dtype.Num](a, b, out *DArray[N], r0, r1 int, plan mmPlan) {
	n, p := a.Dim(1), b.Dim(1)
	ad, bd, od := a.storage.Data(), b.storage.Data(), out.storage.Data()
	aOff, as0, as1 := a.layout.Offset(), a.layout.Stride(0), a.layout.Stride(1)
	bOff, bs0, bs1 := b.layout.Offset(), b.layout.Stride(0), b.layout.Stride(1)
	oOff, os0, os1 := out.layout.Offset(), out.layout.Stride(0), out.layout.Stride(1)

	for k0 := 0; k0 < n; k0 += plan.vectorChunk {
		k1 := min(k0+plan.vectorChunk, n)
		for j0 := 0; j0 < p; j0 += plan.innerChunk {
			j1 := min(j0+plan.innerChunk, p)
			for i := r0; i < r1; i++ {
				row := aOff + i*as0
				for j := j0; j < j1; j++ {
					var sum N
					pa, pb := row+k0*as1, bOff+k0*bs0+j*bs1
					for k := k0; k < k1; k++ {
						sum += ad[pa] * bd[pb]
						pa += as1
						pb += bs0
					}
					od[oOff+i*os0+j*os1] += sum
				}
			}
		}
	}
}

// Bmm multiplies batches of matrices: a (B x m x n) and b (B x n x p) give B x m x p.
// Every (matrix, row block) pair is a separate task.
func (a *DArray[N]) Bmm(b *DArray[N], order layout.Order) *DArray[N] {
	if order != layout.C && order != layout.F {
		panicf(ErrIllegalArgument, "bmm: result order must be C or F, got %v", order)
	}
	if a.Rank() != 3 || b.Rank() != 3 || a.Dim(0) != b.Dim(0) || a.Dim(2) != b.Dim(1) {
		panicf(ErrShapeMismatch, "bmm: incompatible shapes %v and %v", a.Shape(), b.Shape())
	}
	out := a.factory().Zeros(layout.ShapeOf(a.Dim(0), a.Dim(1), b.Dim(2)), order)
	plan := newMmPlan(a.m.L2CacheBytes(), a.m.Threads(), a.dt.Bytes())
	blocks := plan.rowBlocks(a.Dim(1))
	err := a.m.pool.ForBatch(a.Dim(0), len(blocks), func(i, k int) error {
		mmBlock(a.SelSq(0, i), b.SelSq(0, i), out.SelSq(0, i), blocks[k][0], blocks[k][1], plan)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return out
}

// AddBmm would add the sum of batched products to a. It is not supported yet.
func (a *DArray[N]) AddBmm(b, c *DArray[N]) *DArray[N] {
	panicf(ErrNotImplemented, "addBmm: batched add of shapes %v and %v", b.Shape(), c.Shape())
	return nil
}
