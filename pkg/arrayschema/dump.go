package arrayschema

import (
	"fmt"
	"io"
	"strings"
)

// String renders a one-line human-readable summary, suitable for log
// lines: name, dense/sparse, dimension and attribute counts, coordinate
// type and cell order.
func (s *Schema) String() string {
	kind := "sparse"
	if s.dense {
		kind = "dense"
	}
	return fmt.Sprintf("arrayschema(%s, %s, dims=%d, attrs=%d, coord=%s, cell_order=%s, tile_order=%s)",
		s.name, kind, s.DimNum(), s.AttributeNum(), s.coordKind, s.cellOrder, s.tileOrder)
}

// Dump writes a multi-line, field-by-field description of the schema to
// w, for debugging and documentation tooling. It never returns an error
// of its own; the returned error is strictly w's.
func (s *Schema) Dump(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "name: %s\n", s.name)
	fmt.Fprintf(&b, "dense: %t\n", s.dense)
	fmt.Fprintf(&b, "key_value: %t\n", s.keyValue)
	fmt.Fprintf(&b, "dimensions: %v\n", s.dimensions)
	fmt.Fprintf(&b, "domain: %s\n", s.domain)
	if s.hasTileExtents {
		fmt.Fprintf(&b, "tile_extents: %s\n", s.tileExtents)
	} else {
		fmt.Fprintf(&b, "tile_extents: (none)\n")
	}
	fmt.Fprintf(&b, "cell_order: %s\n", s.cellOrder)
	fmt.Fprintf(&b, "tile_order: %s\n", s.tileOrder)
	fmt.Fprintf(&b, "capacity: %d\n", s.capacity)
	fmt.Fprintf(&b, "consolidation_step: %d\n", s.consolidationStep)
	fmt.Fprintf(&b, "coord_type: %s\n", s.coordKind)
	fmt.Fprintf(&b, "coord_compression: %s\n", s.coordCompression)

	for i, a := range s.attributes {
		fmt.Fprintf(&b, "attribute[%d]: name=%s type=%s val_num=%d compression=%s cell_size=%d\n",
			i, a.name, a.typ, a.valNum, a.compression, a.cellSize)
	}

	fmt.Fprintf(&b, "coords_size: %d\n", s.coordsSize)
	fmt.Fprintf(&b, "cell_num_per_tile: %d\n", s.cellNumPerTile)
	fmt.Fprintf(&b, "tile_sizes: %v\n", s.tileSizes)
	if s.hasTileDomain {
		fmt.Fprintf(&b, "tile_domain: %s\n", s.tileDomain)
	}
	if s.cellOrder == Hilbert {
		fmt.Fprintf(&b, "hilbert_bits: %d\n", s.hilbertBits)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
