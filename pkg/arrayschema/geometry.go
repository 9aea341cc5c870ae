package arrayschema

import "fmt"

// OverlapCode classifies the relationship between a query range and an
// MBR or tile range, per SPEC_FULL §4.5.
type OverlapCode int

const (
	OverlapNone OverlapCode = iota
	OverlapFull
	OverlapPartial
	OverlapContiguousPartial
)

// CellPosInTile returns the position of coords (zero-based within a tile
// of the schema's own tile extents) under the schema's cell order.
// HILBERT cell order has no tile-local position and returns
// TypeMismatch.
func (s *Schema) CellPosInTile(coords CoordSlice) (int64, error) {
	if s.cellOrder == Hilbert {
		return 0, newTypeMismatchError("HILBERT_CELL_POS", "cell_pos_in_tile is not defined for Hilbert cell order")
	}
	if !s.hasTileExtents {
		return 0, newValidationError("NO_TILE_EXTENTS", "cell_pos_in_tile requires tile_extents")
	}
	if coords.Kind != s.coordKind {
		return 0, coordKindMismatch(s.coordKind, coords.Kind)
	}
	switch coords.Kind {
	case Int32:
		return dispatchCellPos(s.cellOrder, coords.I32, s.tileExtents.I32), nil
	case Int64:
		return dispatchCellPos(s.cellOrder, coords.I64, s.tileExtents.I64), nil
	case Float32:
		return dispatchCellPos(s.cellOrder, coords.F32, s.tileExtents.F32), nil
	case Float64:
		return dispatchCellPos(s.cellOrder, coords.F64, s.tileExtents.F64), nil
	default:
		return 0, newTypeMismatchError("UNKNOWN_COORD_KIND", "unrecognized coordinate kind")
	}
}

func dispatchCellPos[T Coordinate](order Order, coords, extents []T) int64 {
	if order == ColumnMajor {
		return genCellPosCol(coords, extents)
	}
	return genCellPosRow(coords, extents)
}

// TilePos returns the position of tileCoords in the tile grid under the
// schema's tile order. Only defined for integer coordinate types — float
// coordinates enumerate tiles by index rather than by position, per
// SPEC_FULL §4.5.
func (s *Schema) TilePos(tileCoords CoordSlice) (int64, error) {
	if !s.hasTileExtents {
		return 0, newValidationError("NO_TILE_EXTENTS", "tile_pos requires tile_extents")
	}
	if tileCoords.Kind != s.coordKind {
		return 0, coordKindMismatch(s.coordKind, tileCoords.Kind)
	}
	switch tileCoords.Kind {
	case Int32:
		return dispatchTilePos(s.tileOrder, tileCoords.I32, s.domain.I32, s.tileExtents.I32), nil
	case Int64:
		return dispatchTilePos(s.tileOrder, tileCoords.I64, s.domain.I64, s.tileExtents.I64), nil
	default:
		return 0, newTypeMismatchError("TILE_POS_FLOAT", "tile_pos is unused for floating-point coordinate types")
	}
}

// dispatchTilePos always returns the value its row-/column-major helper
// produces. The original source dispatched without returning the result
// (SPEC_FULL §9's documented fall-through bug); that bug class cannot
// exist here since both branches return the helper's result directly.
func dispatchTilePos[T Integer](order Order, tileCoords, domain, extents []T) int64 {
	tileDomainLo := make([]T, len(extents))
	tileExtentsOnes := make([]T, len(extents))
	for i := range extents {
		tileDomainLo[i] = 0
		tileExtentsOnes[i] = tileCountOf(domain[2*i], domain[2*i+1], extents[i])
	}
	if order == ColumnMajor {
		return genCellPosCol(tileCoords, tileExtentsOnes)
	}
	return genCellPosRow(tileCoords, tileExtentsOnes)
}

func tileCountOf[T Integer](lo, hi, ext T) T {
	return (hi - lo + 1) / ext
}

// NextTileCoords advances tileCoords in place to the next tile under the
// schema's tile order, where domain is the schema's TileDomain
// ([0,count-1] pairs). It returns true if the advance landed on a valid
// tile, or false if the traversal has terminated (the most-significant
// dimension overflowed and was deliberately left unreset, per SPEC_FULL
// §4.5 — callers must stop iterating once this returns false).
func (s *Schema) NextTileCoords(tileCoords CoordSlice) (bool, error) {
	tileDomain, ok := s.TileDomain()
	if !ok {
		return false, newValidationError("NO_TILE_DOMAIN", "next_tile_coords requires tile_extents")
	}
	if tileCoords.Kind != s.coordKind {
		return false, coordKindMismatch(s.coordKind, tileCoords.Kind)
	}
	switch tileCoords.Kind {
	case Int32:
		return dispatchNextTileCoords(s.tileOrder, tileDomain.I32, tileCoords.I32), nil
	case Int64:
		return dispatchNextTileCoords(s.tileOrder, tileDomain.I64, tileCoords.I64), nil
	default:
		return false, newTypeMismatchError("NEXT_TILE_COORDS_FLOAT", "next_tile_coords is unused for floating-point coordinate types")
	}
}

func dispatchNextTileCoords[T Integer](order Order, domain, tileCoords []T) bool {
	if order == ColumnMajor {
		return genNextTileCoordsCol(domain, tileCoords)
	}
	return genNextTileCoordsRow(domain, tileCoords)
}

// genNextTileCoordsRow increments the last dimension and carries
// leftward, resetting each carried dimension to its lower bound. The
// most-significant dimension (index 0) is never reset: once it overflows
// its upper bound the loop stops and the overflowed value is left in
// place as the termination signal, matching the original's
// get_next_tile_coords_row exactly.
func genNextTileCoordsRow[T Integer](domain, tileCoords []T) bool {
	n := len(tileCoords)
	i := n - 1
	tileCoords[i]++
	for i > 0 && tileCoords[i] > domain[2*i+1] {
		tileCoords[i] = domain[2*i]
		i--
		tileCoords[i]++
	}
	return tileCoords[0] <= domain[1]
}

// genNextTileCoordsCol is the column-major mirror: increments the first
// dimension and carries rightward; the last dimension is the
// never-reset termination signal.
func genNextTileCoordsCol[T Integer](domain, tileCoords []T) bool {
	n := len(tileCoords)
	i := 0
	tileCoords[i]++
	for i < n-1 && tileCoords[i] > domain[2*i+1] {
		tileCoords[i] = domain[2*i]
		i++
		tileCoords[i]++
	}
	last := n - 1
	return tileCoords[last] <= domain[2*last+1]
}

// CellNumInTileSlab returns the number of cells in a one-dimension-thick
// slab of a tile, under the schema's cell order.
func (s *Schema) CellNumInTileSlab() (int64, error) {
	if !s.hasTileExtents {
		return 0, newValidationError("NO_TILE_EXTENTS", "cell_num_in_tile_slab requires tile_extents")
	}
	n := s.DimNum()
	idx := n - 1
	if s.cellOrder == ColumnMajor {
		idx = 0
	}
	switch s.tileExtents.Kind {
	case Int32:
		return int64(s.tileExtents.I32[idx]), nil
	case Int64:
		return s.tileExtents.I64[idx], nil
	case Float32:
		return int64(s.tileExtents.F32[idx]), nil
	case Float64:
		return int64(s.tileExtents.F64[idx]), nil
	default:
		return 0, newTypeMismatchError("UNKNOWN_COORD_KIND", "unrecognized coordinate kind")
	}
}

// CellNumInRangeSlab returns the length, along the schema's
// fastest-varying cell-order dimension, of rng (a [lo,hi] pair sequence
// the same shape as Domain).
func (s *Schema) CellNumInRangeSlab(rng CoordSlice) (int64, error) {
	if rng.Kind != s.coordKind {
		return 0, coordKindMismatch(s.coordKind, rng.Kind)
	}
	n := s.DimNum()
	idx := n - 1
	if s.cellOrder == ColumnMajor {
		idx = 0
	}
	switch rng.Kind {
	case Int32:
		return int64(rng.I32[2*idx+1]-rng.I32[2*idx]) + 1, nil
	case Int64:
		return rng.I64[2*idx+1] - rng.I64[2*idx] + 1, nil
	case Float32:
		return int64(rng.F32[2*idx+1]-rng.F32[2*idx]) + 1, nil
	case Float64:
		return int64(rng.F64[2*idx+1]-rng.F64[2*idx]) + 1, nil
	default:
		return 0, newTypeMismatchError("UNKNOWN_COORD_KIND", "unrecognized coordinate kind")
	}
}

// ComputeMBRRangeOverlap intersects rng with mbr and classifies the
// relation per SPEC_FULL §4.5.
func (s *Schema) ComputeMBRRangeOverlap(rng, mbr CoordSlice) (CoordSlice, OverlapCode, error) {
	if rng.Kind != s.coordKind || mbr.Kind != s.coordKind {
		return CoordSlice{}, OverlapNone, coordKindMismatch(s.coordKind, rng.Kind)
	}
	switch rng.Kind {
	case Int32:
		ov, code := genComputeOverlap(rng.I32, mbr.I32, s.cellOrder)
		return Int32Coords(ov), code, nil
	case Int64:
		ov, code := genComputeOverlap(rng.I64, mbr.I64, s.cellOrder)
		return Int64Coords(ov), code, nil
	case Float32:
		ov, code := genComputeOverlap(rng.F32, mbr.F32, s.cellOrder)
		return Float32Coords(ov), code, nil
	case Float64:
		ov, code := genComputeOverlap(rng.F64, mbr.F64, s.cellOrder)
		return Float64Coords(ov), code, nil
	default:
		return CoordSlice{}, OverlapNone, newTypeMismatchError("UNKNOWN_COORD_KIND", "unrecognized coordinate kind")
	}
}

func genComputeOverlap[T Coordinate](rng, mbr []T, cellOrder Order) ([]T, OverlapCode) {
	n := len(mbr) / 2
	overlap := make([]T, 2*n)
	noOverlap := false
	full := true
	for i := 0; i < n; i++ {
		lo, hi := rng[2*i], rng[2*i+1]
		mLo, mHi := mbr[2*i], mbr[2*i+1]
		oLo, oHi := mLo, mHi
		if lo > oLo {
			oLo = lo
		}
		if hi < oHi {
			oHi = hi
		}
		overlap[2*i], overlap[2*i+1] = oLo, oHi
		if oLo > mHi || oHi < mLo {
			noOverlap = true
		}
		if oLo != mLo || oHi != mHi {
			full = false
		}
	}
	if noOverlap {
		return overlap, OverlapNone
	}
	if full {
		return overlap, OverlapFull
	}
	if cellOrder == Hilbert {
		return overlap, OverlapPartial
	}
	if isContiguous(overlap, mbr, n, cellOrder) {
		return overlap, OverlapContiguousPartial
	}
	return overlap, OverlapPartial
}

// isContiguous reports whether overlap matches mbr on every dimension
// except index 0 for row-major or the last index for column-major — the
// one dimension along which a partial overlap can still represent a
// contiguous run of cells. This mirrors the original's literal loop
// bounds in compute_mbr_range_overlap / compute_tile_range_overlap
// (`for(i=1; i<dim_num_; ++i)` for row-major, `for(i=dim_num_-2; i>=0;
// --i)` for column-major), hand-traced against a 3-dimensional example
// (see DESIGN.md open question #2).
func isContiguous[T Coordinate](overlap, mbr []T, dimNum int, cellOrder Order) bool {
	skip := 0
	if cellOrder == ColumnMajor {
		skip = dimNum - 1
	}
	for i := 0; i < dimNum; i++ {
		if i == skip {
			continue
		}
		if overlap[2*i] != mbr[2*i] || overlap[2*i+1] != mbr[2*i+1] {
			return false
		}
	}
	return true
}

// ComputeTileRangeOverlap computes the tile at tileCoords' absolute
// range, intersects it with rng, and expresses the result in tile-local
// (zero-based) coordinates, classifying it per SPEC_FULL §4.5.
func (s *Schema) ComputeTileRangeOverlap(rng, tileCoords CoordSlice) (CoordSlice, OverlapCode, error) {
	if !s.hasTileExtents {
		return CoordSlice{}, OverlapNone, newValidationError("NO_TILE_EXTENTS", "compute_tile_range_overlap requires tile_extents")
	}
	if rng.Kind != s.coordKind || tileCoords.Kind != s.coordKind {
		return CoordSlice{}, OverlapNone, coordKindMismatch(s.coordKind, rng.Kind)
	}
	switch rng.Kind {
	case Int32:
		ov, code := genComputeTileOverlap(rng.I32, tileCoords.I32, s.domain.I32, s.tileExtents.I32, s.cellOrder)
		return Int32Coords(ov), code, nil
	case Int64:
		ov, code := genComputeTileOverlap(rng.I64, tileCoords.I64, s.domain.I64, s.tileExtents.I64, s.cellOrder)
		return Int64Coords(ov), code, nil
	case Float32:
		ov, code := genComputeTileOverlap(rng.F32, tileCoords.F32, s.domain.F32, s.tileExtents.F32, s.cellOrder)
		return Float32Coords(ov), code, nil
	case Float64:
		ov, code := genComputeTileOverlap(rng.F64, tileCoords.F64, s.domain.F64, s.tileExtents.F64, s.cellOrder)
		return Float64Coords(ov), code, nil
	default:
		return CoordSlice{}, OverlapNone, newTypeMismatchError("UNKNOWN_COORD_KIND", "unrecognized coordinate kind")
	}
}

func genComputeTileOverlap[T Coordinate](rng, tileCoords, domain, extents []T, cellOrder Order) ([]T, OverlapCode) {
	n := len(extents)
	tileLo := make([]T, n)
	tileHi := make([]T, n)
	for i := 0; i < n; i++ {
		tileLo[i] = domain[2*i] + tileCoords[i]*extents[i]
		tileHi[i] = tileLo[i] + extents[i] - 1
	}

	local := make([]T, 2*n)
	noOverlap := false
	full := true
	for i := 0; i < n; i++ {
		oLo, oHi := tileLo[i], tileHi[i]
		if rng[2*i] > oLo {
			oLo = rng[2*i]
		}
		if rng[2*i+1] < oHi {
			oHi = rng[2*i+1]
		}
		if oLo > tileHi[i] || oHi < tileLo[i] {
			noOverlap = true
		}
		if oLo != tileLo[i] || oHi != tileHi[i] {
			full = false
		}
		local[2*i] = oLo - tileLo[i]
		local[2*i+1] = oHi - tileLo[i]
	}
	if noOverlap {
		return local, OverlapNone
	}
	if full {
		return local, OverlapFull
	}
	if cellOrder == Hilbert {
		return local, OverlapPartial
	}
	localExtents := make([]T, 2*n)
	for i := 0; i < n; i++ {
		localExtents[2*i] = 0
		localExtents[2*i+1] = extents[i] - 1
	}
	if isContiguous(local, localExtents, n, cellOrder) {
		return local, OverlapContiguousPartial
	}
	return local, OverlapPartial
}

// HilbertID subtracts the domain lower bound per dimension and returns
// the Hilbert curve index for coords. Only valid when CellOrder is
// Hilbert.
func (s *Schema) HilbertID(coords CoordSlice) (uint64, error) {
	if s.cellOrder != Hilbert {
		return 0, newTypeMismatchError("NOT_HILBERT", "hilbert_id requires Hilbert cell order")
	}
	if coords.Kind != s.coordKind {
		return 0, coordKindMismatch(s.coordKind, coords.Kind)
	}
	n := s.DimNum()
	zeroBased := make([]uint32, n)
	switch coords.Kind {
	case Int32:
		for i := 0; i < n; i++ {
			zeroBased[i] = uint32(coords.I32[i] - s.domain.I32[2*i])
		}
	case Int64:
		for i := 0; i < n; i++ {
			zeroBased[i] = uint32(coords.I64[i] - s.domain.I64[2*i])
		}
	case Float32:
		for i := 0; i < n; i++ {
			zeroBased[i] = uint32(coords.F32[i] - s.domain.F32[2*i])
		}
	case Float64:
		for i := 0; i < n; i++ {
			zeroBased[i] = uint32(coords.F64[i] - s.domain.F64[2*i])
		}
	}
	return s.hilbertAdapter.CoordsToID(zeroBased), nil
}

// TileNum returns the total number of tiles in the domain: the product,
// over dimensions, of (hi-lo+1)/extent. Only defined for integer
// coordinate types with tile_extents present; overflow surfaces as a
// ValidationError rather than wrapping silently (SPEC_FULL §9).
func (s *Schema) TileNum() (int64, error) {
	if !s.hasTileExtents {
		return 0, newValidationError("NO_TILE_EXTENTS", "tile_num requires tile_extents")
	}
	switch s.domain.Kind {
	case Int32:
		return genCheckedTileCountProduct(s.domain.I32, s.tileExtents.I32)
	case Int64:
		return genCheckedTileCountProduct(s.domain.I64, s.tileExtents.I64)
	default:
		return 0, newTypeMismatchError("TILE_NUM_FLOAT", "tile_num is only defined for integer coordinate types")
	}
}

func coordKindMismatch(want, got ScalarKind) error {
	return newTypeMismatchError("COORD_KIND_MISMATCH", fmt.Sprintf("expected coordinate kind %s, got %s", want, got))
}
