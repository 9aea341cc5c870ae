package arrayschema

import "fmt"

// Coordinate is the set of scalar Go types a coordinate dimension or a
// fixed-size attribute value may be stored as.
type Coordinate interface {
	int32 | int64 | float32 | float64
}

// Integer restricts Coordinate to the two kinds for which tile-grid
// arithmetic (tile_pos, next_tile_coords, tile_num) is defined.
type Integer interface {
	int32 | int64
}

// CoordSlice is a tagged variant over {[]int32, []int64, []float32,
// []float64}, replacing the original's raw-byte-blob-plus-type-tag
// representation of domain and tile-extents data (see SPEC_FULL §9). Every
// geometry and codec operation that touches a CoordSlice switches on Kind
// exactly once and then works with a typed slice, with no unsafe casts.
type CoordSlice struct {
	Kind ScalarKind
	I32  []int32
	I64  []int64
	F32  []float32
	F64  []float64
}

func Int32Coords(v []int32) CoordSlice   { return CoordSlice{Kind: Int32, I32: v} }
func Int64Coords(v []int64) CoordSlice   { return CoordSlice{Kind: Int64, I64: v} }
func Float32Coords(v []float32) CoordSlice { return CoordSlice{Kind: Float32, F32: v} }
func Float64Coords(v []float64) CoordSlice { return CoordSlice{Kind: Float64, F64: v} }

// Len returns the number of scalars stored, regardless of kind.
func (c CoordSlice) Len() int {
	switch c.Kind {
	case Int32:
		return len(c.I32)
	case Int64:
		return len(c.I64)
	case Float32:
		return len(c.F32)
	case Float64:
		return len(c.F64)
	default:
		return 0
	}
}

func (c CoordSlice) equal(other CoordSlice) bool {
	if c.Kind != other.Kind || c.Len() != other.Len() {
		return false
	}
	switch c.Kind {
	case Int32:
		for i, v := range c.I32 {
			if v != other.I32[i] {
				return false
			}
		}
	case Int64:
		for i, v := range c.I64 {
			if v != other.I64[i] {
				return false
			}
		}
	case Float32:
		for i, v := range c.F32 {
			if v != other.F32[i] {
				return false
			}
		}
	case Float64:
		for i, v := range c.F64 {
			if v != other.F64[i] {
				return false
			}
		}
	}
	return true
}

func (c CoordSlice) clone() CoordSlice {
	switch c.Kind {
	case Int32:
		v := make([]int32, len(c.I32))
		copy(v, c.I32)
		return Int32Coords(v)
	case Int64:
		v := make([]int64, len(c.I64))
		copy(v, c.I64)
		return Int64Coords(v)
	case Float32:
		v := make([]float32, len(c.F32))
		copy(v, c.F32)
		return Float32Coords(v)
	case Float64:
		v := make([]float64, len(c.F64))
		copy(v, c.F64)
		return Float64Coords(v)
	default:
		return CoordSlice{}
	}
}

func (c CoordSlice) String() string {
	switch c.Kind {
	case Int32:
		return fmt.Sprintf("%v", c.I32)
	case Int64:
		return fmt.Sprintf("%v", c.I64)
	case Float32:
		return fmt.Sprintf("%v", c.F32)
	case Float64:
		return fmt.Sprintf("%v", c.F64)
	default:
		return "[]"
	}
}
