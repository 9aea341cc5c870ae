package hilbert

import "testing"

func TestCoordsToIDOriginIsZero(t *testing.T) {
	a := NewAdapter(4, 2)
	if id := a.CoordsToID([]uint32{0, 0}); id != 0 {
		t.Errorf("expected origin to map to 0, got %d", id)
	}
}

func TestCoordsToIDIsInjectiveOverSmallGrid(t *testing.T) {
	a := NewAdapter(3, 2)
	seen := make(map[uint64][2]uint32)
	for x := uint32(0); x < 8; x++ {
		for y := uint32(0); y < 8; y++ {
			id := a.CoordsToID([]uint32{x, y})
			if prev, ok := seen[id]; ok {
				t.Fatalf("collision: (%d,%d) and (%d,%d) both map to %d", x, y, prev[0], prev[1], id)
			}
			seen[id] = [2]uint32{x, y}
		}
	}
	if len(seen) != 64 {
		t.Fatalf("expected 64 distinct ids, got %d", len(seen))
	}
}

func TestCoordsToIDAdjacentCellsAreCurveNeighbors(t *testing.T) {
	a := NewAdapter(3, 2)
	// Successive integers along the curve correspond to grid cells that
	// differ by exactly one step in one dimension — the defining property
	// of a space-filling curve.
	var prev []uint32
	byID := make(map[uint64][]uint32, 64)
	for x := uint32(0); x < 8; x++ {
		for y := uint32(0); y < 8; y++ {
			byID[a.CoordsToID([]uint32{x, y})] = []uint32{x, y}
		}
	}
	for id := uint64(0); id < 63; id++ {
		cur := byID[id]
		if prev != nil {
			dx := absDiff(prev[0], cur[0])
			dy := absDiff(prev[1], cur[1])
			if dx+dy != 1 {
				t.Fatalf("id %d -> %v is not adjacent to id %d -> %v", id, cur, id-1, prev)
			}
		}
		prev = cur
	}
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestAdapterAccessors(t *testing.T) {
	a := NewAdapter(5, 3)
	if a.Bits() != 5 {
		t.Errorf("expected bits=5, got %d", a.Bits())
	}
	if a.DimNum() != 3 {
		t.Errorf("expected dimNum=3, got %d", a.DimNum())
	}
}
