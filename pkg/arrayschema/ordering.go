package arrayschema

// Order is the traversal order of cells within a tile, or of tiles within
// the array's tile grid.
type Order uint8

const (
	RowMajor Order = iota
	ColumnMajor
	Hilbert
)

const (
	byteCodeRowMajor    uint8 = 0
	byteCodeColumnMajor uint8 = 1
	byteCodeHilbert     uint8 = 2
)

func (o Order) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	case Hilbert:
		return "hilbert"
	default:
		return "unknown"
	}
}

func (o Order) byteCode() uint8 {
	switch o {
	case RowMajor:
		return byteCodeRowMajor
	case ColumnMajor:
		return byteCodeColumnMajor
	case Hilbert:
		return byteCodeHilbert
	default:
		return byteCodeRowMajor
	}
}

func orderFromByte(b uint8) (Order, bool) {
	switch b {
	case byteCodeRowMajor:
		return RowMajor, true
	case byteCodeColumnMajor:
		return ColumnMajor, true
	case byteCodeHilbert:
		return Hilbert, true
	default:
		return 0, false
	}
}

func parseOrderToken(tok string) (Order, bool) {
	switch tok {
	case "", "row-major":
		return RowMajor, true
	case "column-major":
		return ColumnMajor, true
	case "hilbert":
		return Hilbert, true
	default:
		return 0, false
	}
}

// Compressor is the codec applied to a tile's bytes before it is written
// out. This kernel only ever records which code a schema declares; it
// never compresses or decompresses a byte.
type Compressor uint8

const (
	CompressorNone Compressor = iota
	CompressorGZIP
	CompressorZSTD
	CompressorLZ4
	CompressorRLE
	CompressorBZIP2
	CompressorDoubleDelta
)

const (
	byteCodeCompressorNone        uint8 = 0
	byteCodeCompressorGZIP        uint8 = 1
	byteCodeCompressorZSTD        uint8 = 2
	byteCodeCompressorLZ4         uint8 = 3
	byteCodeCompressorRLE         uint8 = 4
	byteCodeCompressorBZIP2       uint8 = 5
	byteCodeCompressorDoubleDelta uint8 = 6
)

var compressorToByte = map[Compressor]uint8{
	CompressorNone:        byteCodeCompressorNone,
	CompressorGZIP:        byteCodeCompressorGZIP,
	CompressorZSTD:        byteCodeCompressorZSTD,
	CompressorLZ4:         byteCodeCompressorLZ4,
	CompressorRLE:         byteCodeCompressorRLE,
	CompressorBZIP2:       byteCodeCompressorBZIP2,
	CompressorDoubleDelta: byteCodeCompressorDoubleDelta,
}

var byteToCompressor = map[uint8]Compressor{
	byteCodeCompressorNone:        CompressorNone,
	byteCodeCompressorGZIP:        CompressorGZIP,
	byteCodeCompressorZSTD:        CompressorZSTD,
	byteCodeCompressorLZ4:         CompressorLZ4,
	byteCodeCompressorRLE:         CompressorRLE,
	byteCodeCompressorBZIP2:       CompressorBZIP2,
	byteCodeCompressorDoubleDelta: CompressorDoubleDelta,
}

func (c Compressor) String() string {
	switch c {
	case CompressorNone:
		return "NONE"
	case CompressorGZIP:
		return "GZIP"
	case CompressorZSTD:
		return "ZSTD"
	case CompressorLZ4:
		return "LZ4"
	case CompressorRLE:
		return "RLE"
	case CompressorBZIP2:
		return "BZIP2"
	case CompressorDoubleDelta:
		return "DOUBLE_DELTA"
	default:
		return "unknown"
	}
}

func (c Compressor) byteCode() uint8 {
	return compressorToByte[c]
}

func compressorFromByte(b uint8) (Compressor, bool) {
	c, ok := byteToCompressor[b]
	return c, ok
}

func parseCompressorToken(tok string) (Compressor, bool) {
	switch tok {
	case "", "NONE":
		return CompressorNone, true
	case "GZIP":
		return CompressorGZIP, true
	case "ZSTD":
		return CompressorZSTD, true
	case "LZ4":
		return CompressorLZ4, true
	case "RLE":
		return CompressorRLE, true
	case "BZIP2":
		return CompressorBZIP2, true
	case "DOUBLE_DELTA":
		return CompressorDoubleDelta, true
	default:
		return 0, false
	}
}

// ValNumVar is the sentinel val_num meaning "variable-sized cell."
const ValNumVar int32 = -1

// VarOffsetSize is the fixed width, in bytes, of the offset slot a
// variable-sized cell occupies in its tile.
const VarOffsetSize int64 = 8
