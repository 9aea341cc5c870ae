package arrayschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func denseSchema(t *testing.T) *Schema {
	extents := Int64Coords([]int64{5, 5})
	s, err := Build(Input{
		Name:           "dense_basic",
		Dense:          true,
		Attributes:     []string{"v"},
		AttributeTypes: []string{"int64"},
		Dimensions:     []string{"x", "y"},
		CoordType:      "int64",
		Domain:         Int64Coords([]int64{0, 9, 0, 9}),
		TileExtents:    &extents,
		CellOrder:      "row-major",
		TileOrder:      "row-major",
	})
	require.NoError(t, err)
	return s
}

func TestTileNumDenseBasicScenario(t *testing.T) {
	s := denseSchema(t)
	n, err := s.TileNum()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestCellPosInTileRowMajor(t *testing.T) {
	s := denseSchema(t)
	pos, err := s.CellPosInTile(Int64Coords([]int64{0, 0}))
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	pos, err = s.CellPosInTile(Int64Coords([]int64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), pos) // 1*5 + 2

	pos, err = s.CellPosInTile(Int64Coords([]int64{4, 4}))
	require.NoError(t, err)
	assert.Equal(t, int64(24), pos)
}

func TestCellPosInTileColumnMajor(t *testing.T) {
	extents := Int64Coords([]int64{5, 5})
	s, err := Build(Input{
		Name:           "dense_col",
		Dense:          true,
		Attributes:     []string{"v"},
		AttributeTypes: []string{"int64"},
		Dimensions:     []string{"x", "y"},
		CoordType:      "int64",
		Domain:         Int64Coords([]int64{0, 9, 0, 9}),
		TileExtents:    &extents,
		CellOrder:      "column-major",
		TileOrder:      "column-major",
	})
	require.NoError(t, err)

	pos, err := s.CellPosInTile(Int64Coords([]int64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(11), pos) // 1 + 2*5
}

func TestCellPosInTileRejectsHilbert(t *testing.T) {
	s, err := Build(Input{
		Name:           "hilbert_sparse",
		Attributes:     []string{"v"},
		AttributeTypes: []string{"int32"},
		Dimensions:     []string{"x", "y"},
		CoordType:      "int32",
		Domain:         Int32Coords([]int32{0, 1023, 0, 1023}),
		CellOrder:      "hilbert",
		TileOrder:      "row-major",
	})
	require.NoError(t, err)

	_, err = s.CellPosInTile(Int32Coords([]int32{0, 0}))
	require.Error(t, err)
	assert.Equal(t, KindTypeMismatch, Kind(err))
}

func TestHilbertIDOriginIsZero(t *testing.T) {
	s, err := Build(Input{
		Name:           "hilbert_sparse",
		Attributes:     []string{"v"},
		AttributeTypes: []string{"int32"},
		Dimensions:     []string{"x", "y"},
		CoordType:      "int32",
		Domain:         Int32Coords([]int32{0, 1023, 0, 1023}),
		CellOrder:      "hilbert",
		TileOrder:      "row-major",
	})
	require.NoError(t, err)

	id, err := s.HilbertID(Int32Coords([]int32{0, 0}))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
}

func TestNextTileCoordsTraversal(t *testing.T) {
	s := denseSchema(t)
	tileDomain, ok := s.TileDomain()
	require.True(t, ok)
	assert.Equal(t, []int64{0, 1, 0, 1}, tileDomain.I64)

	coords := Int64Coords([]int64{0, 0})
	visited := [][]int64{{0, 0}}
	for {
		ok, err := s.NextTileCoords(coords)
		require.NoError(t, err)
		visited = append(visited, append([]int64{}, coords.I64...))
		if !ok {
			break
		}
	}
	// The traversal visits all 4 valid tiles and then leaves the
	// most-significant dimension overflowed as its termination signal
	// (see NextTileCoords' doc comment), so the recorded sequence is one
	// longer than the tile count.
	assert.Equal(t, [][]int64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}}, visited)
}

func TestComputeMBRRangeOverlapFull(t *testing.T) {
	s := denseSchema(t)
	rng := Int64Coords([]int64{0, 9, 0, 9})
	mbr := Int64Coords([]int64{2, 4, 2, 4})
	_, code, err := s.ComputeMBRRangeOverlap(rng, mbr)
	require.NoError(t, err)
	assert.Equal(t, OverlapFull, code)
}

func TestComputeMBRRangeOverlapNone(t *testing.T) {
	s := denseSchema(t)
	rng := Int64Coords([]int64{0, 1, 0, 1})
	mbr := Int64Coords([]int64{5, 6, 5, 6})
	_, code, err := s.ComputeMBRRangeOverlap(rng, mbr)
	require.NoError(t, err)
	assert.Equal(t, OverlapNone, code)
}

func TestComputeMBRRangeOverlapContiguousPartial(t *testing.T) {
	s := denseSchema(t)
	// rng clips dimension 0 (the one isContiguous skips under row-major)
	// but matches mbr exactly on dimension 1, so the overlap is a
	// contiguous run of cells.
	rng := Int64Coords([]int64{0, 5, 0, 9})
	mbr := Int64Coords([]int64{0, 9, 0, 9})
	_, code, err := s.ComputeMBRRangeOverlap(rng, mbr)
	require.NoError(t, err)
	assert.Equal(t, OverlapContiguousPartial, code)
}

func TestComputeMBRRangeOverlapNonContiguousPartial(t *testing.T) {
	s := denseSchema(t)
	// rng matches mbr exactly on dimension 0 (the one isContiguous skips
	// under row-major) but clips dimension 1, so the overlap is not a
	// contiguous run.
	rng := Int64Coords([]int64{0, 9, 0, 2})
	mbr := Int64Coords([]int64{0, 9, 0, 4})
	_, code, err := s.ComputeMBRRangeOverlap(rng, mbr)
	require.NoError(t, err)
	assert.Equal(t, OverlapPartial, code)
}
