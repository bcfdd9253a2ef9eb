package layout

// Order describes a traversal order over the logical elements of an array.
type Order int

// Supported traversal orders.
const (
	// C is row-major order: the last axis varies fastest.
	C Order = iota
	// F is column-major order: the first axis varies fastest.
	F
	// S is storage order: the order in which elements can be visited fastest in memory.
	S
	// A infers the order from the source's natural order, falling back to the default.
	A
)

// DefaultOrder is used when an order cannot be inferred.
const DefaultOrder = C

// String returns the order name.
func (o Order) String() string {
	switch o {
	case C:
		return "C"
	case F:
		return "F"
	case S:
		return "S"
	case A:
		return "A"
	default:
		return "unknown"
	}
}

// AutoFC maps an order to C or F. S and A resolve to the default order.
func AutoFC(o Order) Order {
	if o == F {
		return F
	}
	return DefaultOrder
}
