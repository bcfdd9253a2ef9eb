package layout

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Examples:
//
//	(3, 1, 5) + (4, 5) → (3, 4, 5)
//	(3, 5) + (3, 5) → (3, 5)
//	(3, 4) + (4, 5) → error
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	maxLen := 0
	for _, s := range shapes {
		maxLen = max(maxLen, s.Rank())
	}
	result := make([]int, maxLen)
	for i := range result {
		result[i] = 1
	}

	for i := 0; i < maxLen; i++ {
		out := maxLen - 1 - i
		for _, s := range shapes {
			idx := s.Rank() - 1 - i
			if idx < 0 {
				continue
			}
			d := s.dims[idx]
			switch {
			case d == result[out]:
			case result[out] == 1:
				result[out] = d
			case d == 1:
			default:
				return Shape{}, newMismatch(shapes, out, result[out], d)
			}
		}
	}
	if _, ok := CheckedSize(result...); !ok {
		return Shape{}, wrapf(ErrShapeMismatch, "broadcast shape %v of %v overflows int", result, shapes)
	}
	return Shape{dims: result}, nil
}

// CanBroadcast reports whether the shapes are compatible for broadcasting.
func CanBroadcast(shapes ...Shape) bool {
	_, err := BroadcastShapes(shapes...)
	return err == nil
}

func newMismatch(shapes []Shape, axis, a, b int) error {
	return wrapf(ErrShapeMismatch, "shapes not compatible for broadcasting: %v (dimension %d: %d vs %d)", shapes, axis, a, b)
}
