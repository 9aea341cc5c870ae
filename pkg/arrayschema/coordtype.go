package arrayschema

// ScalarKind is the closed set of scalar types an attribute or coordinate
// can take. It is serialized as a single stable byte code (see the
// byteCode* constants below) so the wire format never depends on
// iteration order or platform width.
type ScalarKind uint8

const (
	Char ScalarKind = iota
	Int32
	Int64
	Float32
	Float64
)

// Stable wire byte codes, fixed independently of ScalarKind's own
// iota-assigned values so reordering the constants above can never change
// the wire format.
const (
	byteCodeChar    uint8 = 0
	byteCodeInt32   uint8 = 1
	byteCodeInt64   uint8 = 2
	byteCodeFloat32 uint8 = 3
	byteCodeFloat64 uint8 = 4
)

var scalarKindToByte = map[ScalarKind]uint8{
	Char:    byteCodeChar,
	Int32:   byteCodeInt32,
	Int64:   byteCodeInt64,
	Float32: byteCodeFloat32,
	Float64: byteCodeFloat64,
}

var byteToScalarKind = map[uint8]ScalarKind{
	byteCodeChar:    Char,
	byteCodeInt32:   Int32,
	byteCodeInt64:   Int64,
	byteCodeFloat32: Float32,
	byteCodeFloat64: Float64,
}

// SizeOf returns the in-memory width, in bytes, of a single scalar of this
// kind.
func (k ScalarKind) SizeOf() int {
	switch k {
	case Char:
		return 1
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// IsIntegral reports whether this kind has integer (as opposed to
// floating-point) semantics. Char counts as integral — it is a one-byte
// integer for the purposes of geometry math, never a coordinate type.
func (k ScalarKind) IsIntegral() bool {
	switch k {
	case Char, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsLegalDenseCoord reports whether this kind may be used as the
// coordinate type of a dense array. Dense arrays forbid floating-point
// coordinates.
func (k ScalarKind) IsLegalDenseCoord() bool {
	return k == Int32 || k == Int64
}

// IsLegalCoord reports whether this kind may be used as a coordinate type
// at all (dense or sparse). Char coordinates never survive past the
// builder — a "char:var" coordinate token activates key-value mode and is
// resolved to four Int32 dimensions before a Schema exists.
func (k ScalarKind) IsLegalCoord() bool {
	switch k {
	case Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

func (k ScalarKind) String() string {
	switch k {
	case Char:
		return "char"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

func (k ScalarKind) byteCode() uint8 {
	return scalarKindToByte[k]
}

func scalarKindFromByte(b uint8) (ScalarKind, bool) {
	k, ok := byteToScalarKind[b]
	return k, ok
}

func parseScalarKindToken(tok string) (ScalarKind, bool) {
	switch tok {
	case "char":
		return Char, true
	case "int32":
		return Int32, true
	case "int64":
		return Int64, true
	case "float32":
		return Float32, true
	case "float64":
		return Float64, true
	default:
		return 0, false
	}
}
