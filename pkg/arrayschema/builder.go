package arrayschema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arkilian/arrayschema/internal/hilbert"
)

// Input is the complete bundle a collaborator hands to Build. It carries
// every primary field the schema needs; Build is a pure function over it
// — there is no stateful builder object and no setter-ordering contract
// for callers to get wrong (see SPEC_FULL §9 for why this replaces the
// original's imperative setter sequence).
//
// AttributeTypes elements are tokens of the form "kind", "kind:N" (fixed
// val_num N) or "kind:var" (variable-sized). CoordType is a bare kind
// token, or the literal "char:var" to activate key-value mode.
type Input struct {
	Name string
	Dense bool

	Attributes     []string
	AttributeTypes []string

	Dimensions []string
	CoordType  string

	Domain      CoordSlice
	TileExtents *CoordSlice

	CellOrder string
	TileOrder string

	Capacity          int64
	ConsolidationStep int32

	Compressions []string
}

const (
	defaultCapacity          int64 = 10000
	defaultConsolidationStep int32 = 1
)

// Build validates and normalizes in, then constructs the derived fields,
// returning a finished immutable Schema or the first validation error
// encountered. The internal step order — attributes, capacity,
// dimensions, compression, consolidation step, dense, types, tile
// extents, cell order, tile order, domain — mirrors the original's
// setter-dependency chain (SPEC_FULL §4.4): each step below only reads
// state a strictly earlier step has already produced.
func Build(in Input) (*Schema, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, newValidationError("EMPTY_NAME", "schema name must not be empty")
	}

	attributes, err := buildAttributeShells(in.Attributes)
	if err != nil {
		return nil, err
	}

	capacity := in.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	dimensions, err := validateDimensionNames(in.Dimensions, attributes)
	if err != nil {
		return nil, err
	}

	compressions, err := resolveCompressions(in.Compressions, len(attributes))
	if err != nil {
		return nil, err
	}

	consolidationStep := in.ConsolidationStep
	if consolidationStep <= 0 {
		consolidationStep = defaultConsolidationStep
	}

	dense := in.Dense

	attributes, varAttributeNum, err := resolveAttributeTypes(attributes, in.AttributeTypes)
	if err != nil {
		return nil, err
	}
	for i := range attributes {
		attributes[i].compression = compressions[i]
	}

	coordKind, dimensions, keyValue, err := resolveCoordType(in.CoordType, dimensions)
	if err != nil {
		return nil, err
	}
	dimNum := len(dimensions)

	if dense && !coordKind.IsLegalDenseCoord() {
		return nil, newValidationError("DENSE_FLOAT_COORD", fmt.Sprintf("dense arrays cannot use %s coordinates", coordKind))
	}

	tileExtents, hasTileExtents, err := resolveTileExtents(in.TileExtents, coordKind, dimNum, dense)
	if err != nil {
		return nil, err
	}

	cellOrder, err := resolveOrderToken(in.CellOrder, hasTileExtents)
	if err != nil {
		return nil, err
	}
	tileOrder, err := resolveOrderToken(in.TileOrder, hasTileExtents)
	if err != nil {
		return nil, err
	}

	domain, err := validateDomain(in.Domain, coordKind, dimNum)
	if err != nil {
		return nil, err
	}

	if dense {
		if _, err := genCheckedDenseCellNum(domain, tileExtents); err != nil {
			return nil, err
		}
	}

	s := &Schema{
		name:              in.Name,
		dense:             dense,
		keyValue:          keyValue,
		dimensions:        dimensions,
		attributes:        attributes,
		coordKind:         coordKind,
		coordCompression:  compressions[len(attributes)],
		domain:            domain,
		hasTileExtents:    hasTileExtents,
		tileExtents:       tileExtents,
		tileOrder:         tileOrder,
		cellOrder:         cellOrder,
		capacity:          capacity,
		consolidationStep: consolidationStep,
		varAttributeNum:   varAttributeNum,
	}

	computeDerivedFields(s)

	if cellOrder == Hilbert {
		if err := initHilbertAdapter(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func buildAttributeShells(names []string) ([]attributeInfo, error) {
	if len(names) == 0 {
		return nil, newValidationError("NO_ATTRIBUTES", "attribute list must not be empty")
	}
	seen := make(map[string]bool, len(names))
	out := make([]attributeInfo, len(names))
	for i, n := range names {
		if n == "" {
			return nil, newValidationError("EMPTY_ATTRIBUTE_NAME", "attribute name must not be empty")
		}
		if seen[n] {
			return nil, newValidationError("DUPLICATE_ATTRIBUTE_NAME", fmt.Sprintf("duplicate attribute name %q", n))
		}
		seen[n] = true
		out[i] = attributeInfo{name: n}
	}
	return out, nil
}

func validateDimensionNames(names []string, attributes []attributeInfo) ([]string, error) {
	if len(names) == 0 {
		return nil, newValidationError("NO_DIMENSIONS", "dimension list must not be empty")
	}
	seen := make(map[string]bool, len(names))
	attrNames := make(map[string]bool, len(attributes))
	for _, a := range attributes {
		attrNames[a.name] = true
	}
	out := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			return nil, newValidationError("EMPTY_DIMENSION_NAME", "dimension name must not be empty")
		}
		if seen[n] {
			return nil, newValidationError("DUPLICATE_DIMENSION_NAME", fmt.Sprintf("duplicate dimension name %q", n))
		}
		if attrNames[n] {
			return nil, newValidationError("NAME_COLLISION", fmt.Sprintf("dimension name %q collides with an attribute name", n))
		}
		seen[n] = true
		out[i] = n
	}
	return out, nil
}

func resolveCompressions(tokens []string, attributeNum int) ([]Compressor, error) {
	want := attributeNum + 1
	if tokens == nil {
		out := make([]Compressor, want)
		for i := range out {
			out[i] = CompressorNone
		}
		return out, nil
	}
	if len(tokens) != want {
		return nil, newValidationError("COMPRESSION_LENGTH", fmt.Sprintf("expected %d compressor tokens (attributes + coords), got %d", want, len(tokens)))
	}
	out := make([]Compressor, want)
	for i, tok := range tokens {
		c, ok := parseCompressorToken(tok)
		if !ok {
			return nil, newValidationError("UNKNOWN_COMPRESSOR", fmt.Sprintf("unknown compressor token %q", tok))
		}
		out[i] = c
	}
	return out, nil
}

// resolveAttributeTypes parses each "kind[:N|:var]" token and fills in
// attributes' typ/valNum/cellSize, returning the updated slice and the
// count of variable-sized attributes.
func resolveAttributeTypes(attributes []attributeInfo, tokens []string) ([]attributeInfo, int, error) {
	if len(tokens) != len(attributes) {
		return nil, 0, newValidationError("TYPE_LENGTH", fmt.Sprintf("expected %d attribute type tokens, got %d", len(attributes), len(tokens)))
	}
	varNum := 0
	for i, tok := range tokens {
		kindTok, valTok, hasSuffix := strings.Cut(tok, ":")
		kind, ok := parseScalarKindToken(kindTok)
		if !ok {
			return nil, 0, newValidationError("UNKNOWN_TYPE", fmt.Sprintf("unknown type token %q", kindTok))
		}
		var valNum int32 = 1
		if hasSuffix {
			if valTok == "var" {
				valNum = ValNumVar
				varNum++
			} else {
				n, err := strconv.Atoi(valTok)
				if err != nil || n <= 0 {
					return nil, 0, newValidationError("INVALID_VAL_NUM", fmt.Sprintf("invalid val_num suffix %q for attribute %q", valTok, attributes[i].name))
				}
				valNum = int32(n)
			}
		}
		attributes[i].typ = kind
		attributes[i].valNum = valNum
		if valNum == ValNumVar {
			attributes[i].cellSize = -1
		} else {
			attributes[i].cellSize = int64(valNum) * int64(kind.SizeOf())
		}
	}
	return attributes, varNum, nil
}

// resolveCoordType parses the coordinate type token, activating key-value
// mode on "char:var" per the original's set_types behavior (SPEC_FULL §9
// open question #1: the single user dimension is fully replaced, not
// retained alongside the synthesized ones).
func resolveCoordType(tok string, dimensions []string) (ScalarKind, []string, bool, error) {
	if tok == "char:var" {
		if len(dimensions) != 1 {
			return 0, nil, false, newValidationError("KEY_VALUE_DIM_NUM", "key-value coordinate mode requires exactly one dimension")
		}
		base := dimensions[0]
		synthesized := []string{
			base + "_1", base + "_2", base + "_3", base + "_4",
		}
		return Int32, synthesized, true, nil
	}
	kind, ok := parseScalarKindToken(tok)
	if !ok || !kind.IsLegalCoord() {
		return 0, nil, false, newValidationError("UNKNOWN_COORD_TYPE", fmt.Sprintf("unknown or illegal coordinate type token %q", tok))
	}
	return kind, dimensions, false, nil
}

func resolveTileExtents(in *CoordSlice, coordKind ScalarKind, dimNum int, dense bool) (CoordSlice, bool, error) {
	if in == nil {
		if dense {
			return CoordSlice{}, false, newValidationError("MISSING_TILE_EXTENTS", "dense arrays require tile_extents")
		}
		return CoordSlice{}, false, nil
	}
	if in.Kind != coordKind {
		return CoordSlice{}, false, newValidationError("TILE_EXTENTS_TYPE", "tile_extents type does not match coordinate type")
	}
	if in.Len() != dimNum {
		return CoordSlice{}, false, newValidationError("TILE_EXTENTS_LENGTH", fmt.Sprintf("expected %d tile extents, got %d", dimNum, in.Len()))
	}
	if err := validatePositiveExtents(*in); err != nil {
		return CoordSlice{}, false, err
	}
	return in.clone(), true, nil
}

func validatePositiveExtents(extents CoordSlice) error {
	switch extents.Kind {
	case Int32:
		for _, v := range extents.I32 {
			if v <= 0 {
				return newValidationError("NON_POSITIVE_EXTENT", "tile extents must be positive")
			}
		}
	case Int64:
		for _, v := range extents.I64 {
			if v <= 0 {
				return newValidationError("NON_POSITIVE_EXTENT", "tile extents must be positive")
			}
		}
	case Float32:
		for _, v := range extents.F32 {
			if v <= 0 {
				return newValidationError("NON_POSITIVE_EXTENT", "tile extents must be positive")
			}
		}
	case Float64:
		for _, v := range extents.F64 {
			if v <= 0 {
				return newValidationError("NON_POSITIVE_EXTENT", "tile extents must be positive")
			}
		}
	}
	return nil
}

func resolveOrderToken(tok string, hasTileExtents bool) (Order, error) {
	order, ok := parseOrderToken(tok)
	if !ok {
		return 0, newValidationError("UNKNOWN_ORDER", fmt.Sprintf("unknown order token %q", tok))
	}
	if order == Hilbert && hasTileExtents {
		return 0, newValidationError("HILBERT_WITH_EXTENTS", "Hilbert order is incompatible with tile_extents")
	}
	return order, nil
}

func validateDomain(in CoordSlice, coordKind ScalarKind, dimNum int) (CoordSlice, error) {
	if in.Kind != coordKind {
		return CoordSlice{}, newValidationError("DOMAIN_TYPE", "domain type does not match coordinate type")
	}
	if in.Len() != 2*dimNum {
		return CoordSlice{}, newValidationError("DOMAIN_LENGTH", fmt.Sprintf("expected %d domain values, got %d", 2*dimNum, in.Len()))
	}
	if err := validateDomainMonotone(in, dimNum); err != nil {
		return CoordSlice{}, err
	}
	return in.clone(), nil
}

func validateDomainMonotone(domain CoordSlice, dimNum int) error {
	switch domain.Kind {
	case Int32:
		for i := 0; i < dimNum; i++ {
			if domain.I32[2*i] > domain.I32[2*i+1] {
				return domainInversionError(i)
			}
		}
	case Int64:
		for i := 0; i < dimNum; i++ {
			if domain.I64[2*i] > domain.I64[2*i+1] {
				return domainInversionError(i)
			}
		}
	case Float32:
		for i := 0; i < dimNum; i++ {
			if domain.F32[2*i] > domain.F32[2*i+1] {
				return domainInversionError(i)
			}
		}
	case Float64:
		for i := 0; i < dimNum; i++ {
			if domain.F64[2*i] > domain.F64[2*i+1] {
				return domainInversionError(i)
			}
		}
	}
	return nil
}

func domainInversionError(dim int) error {
	return newValidationError("DOMAIN_INVERSION", fmt.Sprintf("dimension %d has lo > hi", dim))
}

func computeDerivedFields(s *Schema) {
	attributeNum := len(s.attributes)
	cellSizes := make([]int64, attributeNum+1)
	for i, a := range s.attributes {
		cellSizes[i] = a.cellSize
	}
	s.coordsSize = int64(s.DimNum()) * int64(s.coordKind.SizeOf())
	cellSizes[attributeNum] = s.coordsSize
	s.cellSizes = cellSizes

	s.cellNumPerTile = computeCellNumPerTile(s)

	tileSizes := make([]int64, attributeNum+1)
	for i, a := range s.attributes {
		if a.valNum == ValNumVar {
			tileSizes[i] = s.cellNumPerTile * VarOffsetSize
		} else {
			tileSizes[i] = s.cellNumPerTile * a.cellSize
		}
	}
	tileSizes[attributeNum] = s.cellNumPerTile * s.coordsSize
	s.tileSizes = tileSizes

	if s.hasTileExtents {
		s.tileDomain = computeTileDomain(s)
		s.hasTileDomain = true
	}
}

func computeCellNumPerTile(s *Schema) int64 {
	if s.dense {
		n, err := genCheckedDenseCellNum(s.domain, s.tileExtents)
		if err != nil {
			// dense schemas always have valid integer extents by
			// construction (validated above); this can only be hit by a
			// programmer bug, not a user-facing input error.
			panic(err)
		}
		return n
	}
	if s.hasTileExtents {
		// Sparse-regular: cell_num_per_tile is left unused, matching the
		// original's early return for this combination.
		return 0
	}
	return s.capacity
}

func genCheckedDenseCellNum(domain, extents CoordSlice) (int64, error) {
	switch extents.Kind {
	case Int32:
		return genCheckedExtentsProduct(extents.I32)
	case Int64:
		return genCheckedExtentsProduct(extents.I64)
	default:
		// Dense + float coordinates is already rejected by Build before
		// this is reached.
		return 0, newValidationError("DENSE_FLOAT_COORD", "dense arrays cannot use float coordinates")
	}
}

func computeTileDomain(s *Schema) CoordSlice {
	switch s.domain.Kind {
	case Int32:
		return Int32Coords(genTileDomainInt(s.domain.I32, s.tileExtents.I32))
	case Int64:
		return Int64Coords(genTileDomainInt(s.domain.I64, s.tileExtents.I64))
	case Float32:
		return Float32Coords(genTileDomainFloat(s.domain.F32, s.tileExtents.F32))
	case Float64:
		return Float64Coords(genTileDomainFloat(s.domain.F64, s.tileExtents.F64))
	default:
		return CoordSlice{}
	}
}

func initHilbertAdapter(s *Schema) error {
	var maxRange float64
	switch s.domain.Kind {
	case Int32:
		maxRange = genMaxDomainRange(s.domain.I32, s.DimNum())
	case Int64:
		maxRange = genMaxDomainRange(s.domain.I64, s.DimNum())
	case Float32:
		maxRange = genMaxDomainRange(s.domain.F32, s.DimNum())
	case Float64:
		maxRange = genMaxDomainRange(s.domain.F64, s.DimNum())
	}
	s.hilbertBits = ceilLog2(maxRange)
	if s.hilbertBits <= 0 {
		s.hilbertBits = 1
	}
	s.hilbertAdapter = hilbert.NewAdapter(s.hilbertBits, s.DimNum())
	return nil
}
