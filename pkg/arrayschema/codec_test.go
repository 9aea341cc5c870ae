package arrayschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTripDense(t *testing.T) {
	extents := Int64Coords([]int64{5, 5})
	s, err := Build(Input{
		Name:           "dense_roundtrip",
		Dense:          true,
		Attributes:     []string{"v", "w"},
		AttributeTypes: []string{"int64", "float32:3"},
		Dimensions:     []string{"x", "y"},
		CoordType:      "int64",
		Domain:         Int64Coords([]int64{0, 9, 0, 9}),
		TileExtents:    &extents,
		CellOrder:      "row-major",
		TileOrder:      "column-major",
		Compressions:   []string{"GZIP", "NONE", "ZSTD"},
	})
	require.NoError(t, err)

	data, err := s.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.True(t, s.Equal(got))
}

func TestSerializeDeserializeRoundTripSparseHilbert(t *testing.T) {
	s, err := Build(Input{
		Name:           "sparse_hilbert_roundtrip",
		Attributes:     []string{"v"},
		AttributeTypes: []string{"char:var"},
		Dimensions:     []string{"x", "y"},
		CoordType:      "int32",
		Domain:         Int32Coords([]int32{0, 1023, 0, 1023}),
		CellOrder:      "hilbert",
		TileOrder:      "row-major",
	})
	require.NoError(t, err)

	data, err := s.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.True(t, s.Equal(got))

	bits, ok := got.HilbertBits()
	require.True(t, ok)
	assert.Equal(t, 10, bits)
}

func TestDeserializeRejectsTruncatedData(t *testing.T) {
	extents := Int64Coords([]int64{5, 5})
	s, err := Build(Input{
		Name:           "truncate_me",
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

	data, err := s.Serialize()
	require.NoError(t, err)

	_, err = Deserialize(data[:len(data)-4])
	require.Error(t, err)
	assert.Equal(t, KindFormat, Kind(err))
}

func TestDeserializeRejectsTrailingBytes(t *testing.T) {
	extents := Int64Coords([]int64{5, 5})
	s, err := Build(Input{
		Name:           "trailing_bytes",
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

	data, err := s.Serialize()
	require.NoError(t, err)

	_, err = Deserialize(append(data, 0xFF))
	require.Error(t, err)
	assert.Equal(t, KindFormat, Kind(err))
}

func TestFingerprintStableAcrossRoundTrip(t *testing.T) {
	extents := Int64Coords([]int64{5, 5})
	s, err := Build(Input{
		Name:           "fingerprint_me",
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

	want, err := s.Fingerprint()
	require.NoError(t, err)

	data, err := s.Serialize()
	require.NoError(t, err)
	roundTripped, err := Deserialize(data)
	require.NoError(t, err)

	got, err := roundTripped.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
