package layout

// Reshape computes a layout over the same storage that reads, in the given order, the
// same element sequence as l read in that order but with the target shape.
// It returns false when no such layout exists and the data must be copied.
//
// Axes are grouped into runs that are contiguous in the requested order; each run of
// source axes must be exactly covered by a run of target axes. S and A resolve to the
// source fast order when it has one, otherwise to the default order.
func (l *StrideLayout) Reshape(shape Shape, order Order) (*StrideLayout, bool) {
	if shape.Size() != l.Size() {
		panicf(ErrIllegalArgument, "reshape: incompatible shapes %v -> %v (different number of elements)", l.shape, shape)
	}
	order = l.ReshapeOrder(order)
	if l.Size() == 0 {
		return Dense(shape, l.offset, order), true
	}

	fortran := order == F
	oldDims := make([]int, 0, l.Rank())
	oldStrides := make([]int, 0, l.Rank())
	for i, d := range l.shape.dims {
		if d != 1 {
			oldDims = append(oldDims, d)
			oldStrides = append(oldStrides, l.strides[i])
		}
	}
	newDims := shape.dims
	newStrides := make([]int, len(newDims))

	oi, oj := 0, 1
	ni, nj := 0, 1
	for ni < len(newDims) && oi < len(oldDims) {
		np, op := newDims[ni], oldDims[oi]
		for np != op {
			if np < op {
				np *= newDims[nj]
				nj++
			} else {
				op *= oldDims[oj]
				oj++
			}
		}
		// the source axes [oi, oj) must be walkable with a single stride
		for ok := oi; ok < oj-1; ok++ {
			if fortran {
				if oldStrides[ok+1] != oldDims[ok]*oldStrides[ok] {
					return nil, false
				}
			} else if oldStrides[ok] != oldDims[ok+1]*oldStrides[ok+1] {
				return nil, false
			}
		}
		if fortran {
			newStrides[ni] = oldStrides[oi]
			for nk := ni + 1; nk < nj; nk++ {
				newStrides[nk] = newStrides[nk-1] * newDims[nk-1]
			}
		} else {
			newStrides[nj-1] = oldStrides[oj-1]
			for nk := nj - 1; nk > ni; nk-- {
				newStrides[nk-1] = newStrides[nk] * newDims[nk]
			}
		}
		ni = nj
		nj++
		oi = oj
		oj++
	}

	// trailing axes of size one
	last := 1
	if ni >= 1 {
		last = newStrides[ni-1]
		if fortran {
			last *= newDims[ni-1]
		}
	}
	for nk := ni; nk < len(newDims); nk++ {
		newStrides[nk] = last
	}
	return &StrideLayout{shape: Shape{dims: append([]int(nil), newDims...)}, offset: l.offset, strides: newStrides}, true
}

// ReshapeOrder returns the order Reshape resolves order to: C and F are kept, S and A
// become F for column-major layouts and the default order otherwise.
func (l *StrideLayout) ReshapeOrder(order Order) Order {
	switch order {
	case C, F:
		return order
	default:
		if fast := l.StorageFastOrder(); fast == F {
			return F
		}
		return DefaultOrder
	}
}
