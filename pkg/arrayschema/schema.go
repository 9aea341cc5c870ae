package arrayschema

import (
	"fmt"

	"github.com/arkilian/arrayschema/internal/hilbert"
)

// CoordsAttributeName is the reserved name AttributeID and
// GetAttributeIDs recognize as referring to the coordinate pseudo-
// attribute, at index AttributeNum().
const CoordsAttributeName = "__coords"

type attributeInfo struct {
	name        string
	typ         ScalarKind
	valNum      int32 // positive count, or ValNumVar
	compression Compressor
	cellSize    int64 // -1 when valNum == ValNumVar
}

// Schema is an immutable description of a multidimensional array's logical
// shape: its dimensions, attributes, tiling, orderings and per-cell
// layout. Values are constructed exclusively by Build; there is no
// exported way to mutate one after construction, so every accessor is
// safe to call concurrently from any number of goroutines.
type Schema struct {
	name     string
	dense    bool
	keyValue bool

	dimensions []string
	attributes []attributeInfo

	coordKind        ScalarKind
	coordCompression Compressor

	domain CoordSlice

	hasTileExtents bool
	tileExtents    CoordSlice

	tileOrder Order
	cellOrder Order

	capacity          int64
	consolidationStep int32
	varAttributeNum   int

	// derived, computed once at construction
	coordsSize     int64
	cellSizes      []int64 // len attribute_num+1, last entry is coordsSize
	cellNumPerTile int64
	tileSizes      []int64 // len attribute_num+1
	hasTileDomain  bool
	tileDomain     CoordSlice
	hilbertBits    int
	hilbertAdapter *hilbert.Adapter
}

// Name returns the array's canonical name.
func (s *Schema) Name() string { return s.name }

// Dense reports whether this is a dense (every cell materialized) array.
func (s *Schema) Dense() bool { return s.dense }

// KeyValue reports whether this schema was built from a "char:var"
// coordinate token — its dimensions are four synthesized int32 key/value
// slots rather than user-named dimensions.
func (s *Schema) KeyValue() bool { return s.keyValue }

// DimNum returns the number of dimensions.
func (s *Schema) DimNum() int { return len(s.dimensions) }

// Dimensions returns the ordered dimension names. The returned slice must
// not be mutated by the caller.
func (s *Schema) Dimensions() []string { return s.dimensions }

// AttributeNum returns the number of user attributes, excluding the
// synthetic coordinate pseudo-attribute.
func (s *Schema) AttributeNum() int { return len(s.attributes) }

// Attributes returns the ordered user attribute names. The synthetic
// coordinate pseudo-attribute is not included; use CoordsAttributeName
// with AttributeID to resolve it.
func (s *Schema) Attributes() []string {
	names := make([]string, len(s.attributes))
	for i, a := range s.attributes {
		names[i] = a.name
	}
	return names
}

// Types returns one ScalarKind per attribute plus a trailing entry for
// the coordinate type, matching the data model's attribute_num+1 type
// sequence.
func (s *Schema) Types() []ScalarKind {
	out := make([]ScalarKind, len(s.attributes)+1)
	for i, a := range s.attributes {
		out[i] = a.typ
	}
	out[len(s.attributes)] = s.coordKind
	return out
}

// CoordKind returns the coordinate scalar type.
func (s *Schema) CoordKind() ScalarKind { return s.coordKind }

// ValNum returns one val_num per attribute (ValNumVar for variable-sized
// attributes). Coordinates have no val_num entry.
func (s *Schema) ValNum() []int32 {
	out := make([]int32, len(s.attributes))
	for i, a := range s.attributes {
		out[i] = a.valNum
	}
	return out
}

// VarAttributeNum returns the count of variable-sized attributes.
func (s *Schema) VarAttributeNum() int { return s.varAttributeNum }

// Compressions returns one Compressor per attribute plus a trailing entry
// for the coordinates.
func (s *Schema) Compressions() []Compressor {
	out := make([]Compressor, len(s.attributes)+1)
	for i, a := range s.attributes {
		out[i] = a.compression
	}
	out[len(s.attributes)] = s.coordCompression
	return out
}

// Domain returns the per-dimension [lo, hi] pairs, in coordinate type.
func (s *Schema) Domain() CoordSlice { return s.domain }

// TileExtents returns the per-dimension tile extents and whether any are
// present (dense schemas always have them; sparse schemas may or may
// not).
func (s *Schema) TileExtents() (CoordSlice, bool) { return s.tileExtents, s.hasTileExtents }

// TileOrder returns the declared tile order. Meaningless (but still
// recorded) when TileExtents is absent.
func (s *Schema) TileOrder() Order { return s.tileOrder }

// CellOrder returns the declared cell order.
func (s *Schema) CellOrder() Order { return s.cellOrder }

// Capacity returns the sparse-irregular cells-per-tile hint. Ignored when
// TileExtents is present.
func (s *Schema) Capacity() int64 { return s.capacity }

// ConsolidationStep returns the consolidation policy hint.
func (s *Schema) ConsolidationStep() int32 { return s.consolidationStep }

// CoordsSize returns the fixed byte width of one coordinate tuple
// (dim_num x coord type size).
func (s *Schema) CoordsSize() int64 { return s.coordsSize }

// CellSizes returns one fixed cell byte width per attribute plus a
// trailing coordinate entry. Variable-sized attributes report -1.
func (s *Schema) CellSizes() []int64 {
	out := make([]int64, len(s.cellSizes))
	copy(out, s.cellSizes)
	return out
}

// CellNumPerTile returns the number of cells in a regular tile (dense), or
// the capacity for sparse schemas without tile extents. It is 0, and
// unused, for sparse schemas with tile extents.
func (s *Schema) CellNumPerTile() int64 { return s.cellNumPerTile }

// TileSizes returns one fixed tile byte width per attribute plus a
// trailing coordinate entry.
func (s *Schema) TileSizes() []int64 {
	out := make([]int64, len(s.tileSizes))
	copy(out, s.tileSizes)
	return out
}

// TileDomain returns the zero-based per-dimension tile-count-minus-one
// vector, and whether it is present (only computed when TileExtents is
// present).
func (s *Schema) TileDomain() (CoordSlice, bool) { return s.tileDomain, s.hasTileDomain }

// HilbertBits returns the bit width of the Hilbert curve, present only
// when CellOrder is Hilbert.
func (s *Schema) HilbertBits() (int, bool) {
	if s.cellOrder != Hilbert {
		return 0, false
	}
	return s.hilbertBits, true
}

// AttributeID resolves an attribute or CoordsAttributeName to its dense
// index. The coordinate pseudo-attribute resolves to AttributeNum().
func (s *Schema) AttributeID(name string) (int, error) {
	if name == CoordsAttributeName {
		return len(s.attributes), nil
	}
	for i, a := range s.attributes {
		if a.name == name {
			return i, nil
		}
	}
	return 0, newNotFoundError("UNKNOWN_ATTRIBUTE", fmt.Sprintf("no attribute named %q", name))
}

// GetAttributeIDs resolves every name in names, in order, failing on the
// first miss.
func (s *Schema) GetAttributeIDs(names []string) ([]int, error) {
	ids := make([]int, len(names))
	for i, n := range names {
		id, err := s.AttributeID(n)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// Equal reports whether two schemas are identical in every primary and
// derived field. Used by the round-trip tests; exported because
// collaborators comparing a cached schema against a freshly deserialized
// one need the same notion of equality.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.name != other.name || s.dense != other.dense || s.keyValue != other.keyValue {
		return false
	}
	if !stringSlicesEqual(s.dimensions, other.dimensions) {
		return false
	}
	if len(s.attributes) != len(other.attributes) {
		return false
	}
	for i, a := range s.attributes {
		b := other.attributes[i]
		if a.name != b.name || a.typ != b.typ || a.valNum != b.valNum || a.compression != b.compression || a.cellSize != b.cellSize {
			return false
		}
	}
	if s.coordKind != other.coordKind || s.coordCompression != other.coordCompression {
		return false
	}
	if !s.domain.equal(other.domain) {
		return false
	}
	if s.hasTileExtents != other.hasTileExtents {
		return false
	}
	if s.hasTileExtents && !s.tileExtents.equal(other.tileExtents) {
		return false
	}
	if s.tileOrder != other.tileOrder || s.cellOrder != other.cellOrder {
		return false
	}
	if s.capacity != other.capacity || s.consolidationStep != other.consolidationStep {
		return false
	}
	if s.varAttributeNum != other.varAttributeNum {
		return false
	}
	if s.coordsSize != other.coordsSize || s.cellNumPerTile != other.cellNumPerTile {
		return false
	}
	if !int64SlicesEqual(s.cellSizes, other.cellSizes) || !int64SlicesEqual(s.tileSizes, other.tileSizes) {
		return false
	}
	if s.hasTileDomain != other.hasTileDomain {
		return false
	}
	if s.hasTileDomain && !s.tileDomain.equal(other.tileDomain) {
		return false
	}
	if s.hilbertBits != other.hilbertBits {
		return false
	}
	return true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64SlicesEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
