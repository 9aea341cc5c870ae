package arrayschema

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// yamlInput is the declarative, YAML-friendly mirror of Input. CoordSlice
// has no natural YAML encoding (it is a tagged variant over four slice
// types), so domain and tile_extents are carried here as plain float64
// lists and converted against the coordinate type once it is known.
type yamlInput struct {
	Name string `yaml:"name"`
	Dense bool  `yaml:"dense"`

	Attributes     []string `yaml:"attributes"`
	AttributeTypes []string `yaml:"attribute_types"`

	Dimensions []string `yaml:"dimensions"`
	CoordType  string   `yaml:"coord_type"`

	Domain      []float64  `yaml:"domain"`
	TileExtents *[]float64 `yaml:"tile_extents"`

	CellOrder string `yaml:"cell_order"`
	TileOrder string `yaml:"tile_order"`

	Capacity          int64  `yaml:"capacity"`
	ConsolidationStep int32  `yaml:"consolidation_step"`

	Compressions []string `yaml:"compressions"`
}

// ParseInputYAML decodes a declarative schema description into an Input
// ready for Build. The coord_type field (or, for key-value schemas, the
// eventual Int32 dimensions) determines which CoordSlice variant domain
// and tile_extents are converted into; mismatched or non-finite numeric
// literals fail with a FormatError rather than silently truncating.
func ParseInputYAML(data []byte) (Input, error) {
	var y yamlInput
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Input{}, wrapFormatError("YAML_PARSE", "failed to parse schema YAML", err)
	}

	coordKind, ok := parseScalarKindToken(y.CoordType)
	if !ok && y.CoordType != "char:var" {
		return Input{}, newFormatError("YAML_UNKNOWN_COORD_TYPE", fmt.Sprintf("unknown coord_type %q", y.CoordType))
	}
	if y.CoordType == "char:var" {
		// Key-value mode always resolves to Int32 dimensions; numeric
		// literals below are converted as Int32 regardless of the nominal
		// absence of a coord_type kind.
		coordKind = Int32
	}

	domain, err := coordSliceFromFloats(coordKind, y.Domain)
	if err != nil {
		return Input{}, err
	}

	var tileExtents *CoordSlice
	if y.TileExtents != nil {
		te, err := coordSliceFromFloats(coordKind, *y.TileExtents)
		if err != nil {
			return Input{}, err
		}
		tileExtents = &te
	}

	return Input{
		Name:              y.Name,
		Dense:             y.Dense,
		Attributes:        y.Attributes,
		AttributeTypes:    y.AttributeTypes,
		Dimensions:        y.Dimensions,
		CoordType:         y.CoordType,
		Domain:            domain,
		TileExtents:       tileExtents,
		CellOrder:         y.CellOrder,
		TileOrder:         y.TileOrder,
		Capacity:          y.Capacity,
		ConsolidationStep: y.ConsolidationStep,
		Compressions:      y.Compressions,
	}, nil
}

func coordSliceFromFloats(kind ScalarKind, values []float64) (CoordSlice, error) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return CoordSlice{}, newFormatError("YAML_NON_FINITE", fmt.Sprintf("non-finite numeric literal %v", v))
		}
		if (kind == Int32 || kind == Int64) && v != math.Trunc(v) {
			return CoordSlice{}, newFormatError("YAML_NON_INTEGRAL", fmt.Sprintf("literal %v is not a whole number for coordinate type %s", v, kind))
		}
		if (kind == Int32 && (v < math.MinInt32 || v > math.MaxInt32)) || (kind == Int64 && (v < math.MinInt64 || v >= math.MaxInt64)) {
			return CoordSlice{}, newFormatError("YAML_OUT_OF_RANGE", fmt.Sprintf("literal %v is out of range for coordinate type %s", v, kind))
		}
	}
	switch kind {
	case Int32:
		out := make([]int32, len(values))
		for i, v := range values {
			out[i] = int32(v)
		}
		return Int32Coords(out), nil
	case Int64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = int64(v)
		}
		return Int64Coords(out), nil
	case Float32:
		out := make([]float32, len(values))
		for i, v := range values {
			out[i] = float32(v)
		}
		return Float32Coords(out), nil
	case Float64:
		out := make([]float64, len(values))
		copy(out, values)
		return Float64Coords(out), nil
	default:
		return CoordSlice{}, newFormatError("YAML_UNKNOWN_COORD_TYPE", "unrecognized coordinate type for numeric conversion")
	}
}
