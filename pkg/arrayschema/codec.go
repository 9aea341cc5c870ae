package arrayschema

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Serialize encodes the schema's primary fields into the kernel's
// byte-exact little-endian wire format. Derived fields are recomputed on
// Deserialize rather than carried in the buffer.
//
// Layout:
//
//	i32  name_len;      bytes name[name_len]
//	u8   dense
//	u8   key_value
//	u8   tile_order
//	u8   cell_order
//	i64  capacity
//	i32  consolidation_step
//	i32  attribute_num
//	  repeat attribute_num: i32 len; bytes name[len]
//	i32  dim_num
//	  repeat dim_num:       i32 len; bytes name[len]
//	i32  domain_size
//	bytes domain[domain_size]
//	i32  tile_extents_size
//	bytes tile_extents[tile_extents_size]
//	u8   type[attribute_num+1]
//	i32  val_num[attribute_num]
//	u8   compression[attribute_num+1]
func (s *Schema) Serialize() ([]byte, error) {
	domainBytes, err := coordSliceBytes(s.domain)
	if err != nil {
		return nil, err
	}
	var tileExtentsBytes []byte
	if s.hasTileExtents {
		tileExtentsBytes, err = coordSliceBytes(s.tileExtents)
		if err != nil {
			return nil, err
		}
	}

	attrNum := len(s.attributes)
	dimNum := len(s.dimensions)

	size := 4 + len(s.name) // name_len + name
	size += 1 + 1 + 1 + 1   // dense, key_value, tile_order, cell_order
	size += 8 + 4           // capacity, consolidation_step
	size += 4               // attribute_num
	for _, a := range s.attributes {
		size += 4 + len(a.name)
	}
	size += 4 // dim_num
	for _, d := range s.dimensions {
		size += 4 + len(d)
	}
	size += 4 + len(domainBytes)
	size += 4 + len(tileExtentsBytes)
	size += attrNum + 1   // type
	size += 4 * attrNum   // val_num
	size += attrNum + 1   // compression

	buf := make([]byte, size)
	off := 0

	off += putString(buf[off:], s.name)
	buf[off] = boolByte(s.dense)
	off++
	buf[off] = boolByte(s.keyValue)
	off++
	buf[off] = s.tileOrder.byteCode()
	off++
	buf[off] = s.cellOrder.byteCode()
	off++
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(s.capacity))
	off += 8
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(s.consolidationStep))
	off += 4

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(attrNum))
	off += 4
	for _, a := range s.attributes {
		off += putString(buf[off:], a.name)
	}

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(dimNum))
	off += 4
	for _, d := range s.dimensions {
		off += putString(buf[off:], d)
	}

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(domainBytes)))
	off += 4
	off += copy(buf[off:], domainBytes)

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(tileExtentsBytes)))
	off += 4
	off += copy(buf[off:], tileExtentsBytes)

	for _, a := range s.attributes {
		buf[off] = a.typ.byteCode()
		off++
	}
	buf[off] = s.coordKind.byteCode()
	off++

	for _, a := range s.attributes {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(a.valNum))
		off += 4
	}

	for _, a := range s.attributes {
		buf[off] = a.compression.byteCode()
		off++
	}
	buf[off] = s.coordCompression.byteCode()
	off++

	if off != size {
		return nil, newFormatError("CODEC_SIZE_MISMATCH", fmt.Sprintf("serializer wrote %d bytes, expected %d", off, size))
	}
	return buf, nil
}

// Deserialize is Serialize's strict inverse: it decodes the wire format
// and recomputes every derived field exactly as Build does, including
// constructing a fresh Hilbert adapter when cell_order is HILBERT.
func Deserialize(data []byte) (*Schema, error) {
	r := &byteReader{data: data}

	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	dense, err := r.readByte()
	if err != nil {
		return nil, err
	}
	keyValue, err := r.readByte()
	if err != nil {
		return nil, err
	}
	tileOrderByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	cellOrderByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	capacity, err := r.readInt64()
	if err != nil {
		return nil, err
	}
	consolidationStep, err := r.readInt32()
	if err != nil {
		return nil, err
	}

	attrNum, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if attrNum < 0 {
		return nil, newFormatError("CODEC_NEGATIVE_LEN", "declared attribute count is negative")
	}
	attributeNames := make([]string, attrNum)
	for i := range attributeNames {
		attributeNames[i], err = r.readString()
		if err != nil {
			return nil, err
		}
	}

	dimNum, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if dimNum < 0 {
		return nil, newFormatError("CODEC_NEGATIVE_LEN", "declared dimension count is negative")
	}
	dimensions := make([]string, dimNum)
	for i := range dimensions {
		dimensions[i], err = r.readString()
		if err != nil {
			return nil, err
		}
	}

	domainSize, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	domainBytes, err := r.readBytes(int(domainSize))
	if err != nil {
		return nil, err
	}

	tileExtentsSize, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	tileExtentsBytes, err := r.readBytes(int(tileExtentsSize))
	if err != nil {
		return nil, err
	}

	types := make([]byte, attrNum+1)
	for i := range types {
		types[i], err = r.readByte()
		if err != nil {
			return nil, err
		}
	}

	valNums := make([]int32, attrNum)
	for i := range valNums {
		valNums[i], err = r.readInt32()
		if err != nil {
			return nil, err
		}
	}

	compressions := make([]byte, attrNum+1)
	for i := range compressions {
		compressions[i], err = r.readByte()
		if err != nil {
			return nil, err
		}
	}

	if !r.exhausted() {
		return nil, newFormatError("CODEC_TRAILING_BYTES", "trailing bytes after the declared schema layout")
	}

	coordKind, ok := byteToScalarKind[types[attrNum]]
	if !ok {
		return nil, newFormatError("CODEC_BAD_COORD_TYPE", "unrecognized coordinate type code")
	}
	domain, err := coordSliceFromBytes(coordKind, domainBytes)
	if err != nil {
		return nil, err
	}

	attributes := make([]attributeInfo, attrNum)
	for i := 0; i < int(attrNum); i++ {
		typ, ok := byteToScalarKind[types[i]]
		if !ok {
			return nil, newFormatError("CODEC_BAD_ATTR_TYPE", fmt.Sprintf("unrecognized attribute type code at index %d", i))
		}
		compressor, ok := compressorFromByte(compressions[i])
		if !ok {
			return nil, newFormatError("CODEC_BAD_COMPRESSOR", fmt.Sprintf("unrecognized compressor code at index %d", i))
		}
		attributes[i] = attributeInfo{
			name:        attributeNames[i],
			typ:         typ,
			valNum:      valNums[i],
			compression: compressor,
			cellSize:    cellSizeOf(typ, valNums[i]),
		}
	}

	tileOrder, ok := orderFromByte(tileOrderByte)
	if !ok {
		return nil, newFormatError("CODEC_BAD_TILE_ORDER", "unrecognized tile order code")
	}
	cellOrder, ok := orderFromByte(cellOrderByte)
	if !ok {
		return nil, newFormatError("CODEC_BAD_CELL_ORDER", "unrecognized cell order code")
	}
	coordCompression, ok := compressorFromByte(compressions[attrNum])
	if !ok {
		return nil, newFormatError("CODEC_BAD_COORD_COMPRESSOR", "unrecognized coordinate compressor code")
	}

	s := &Schema{
		name:              name,
		dense:             dense != 0,
		keyValue:          keyValue != 0,
		dimensions:        dimensions,
		attributes:        attributes,
		coordKind:         coordKind,
		coordCompression:  coordCompression,
		domain:            domain,
		tileOrder:         tileOrder,
		cellOrder:         cellOrder,
		capacity:          capacity,
		consolidationStep: consolidationStep,
	}
	for _, a := range attributes {
		if a.valNum == ValNumVar {
			s.varAttributeNum++
		}
	}

	if len(tileExtentsBytes) > 0 {
		s.hasTileExtents = true
		s.tileExtents, err = coordSliceFromBytes(coordKind, tileExtentsBytes)
		if err != nil {
			return nil, err
		}
	}

	computeDerivedFields(s)
	if s.cellOrder == Hilbert {
		if err := initHilbertAdapter(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func cellSizeOf(typ ScalarKind, valNum int32) int64 {
	if valNum == ValNumVar {
		return -1
	}
	return int64(valNum) * int64(typ.SizeOf())
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func putString(buf []byte, s string) int {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(s)))
	copy(buf[4:4+len(s)], s)
	return 4 + len(s)
}

// coordSliceBytes encodes a CoordSlice's values as raw little-endian
// scalars, with no length prefix or type tag of its own — the caller
// already knows the count (2×dim_num or dim_num) and the type (the
// schema's coord_kind).
func coordSliceBytes(c CoordSlice) ([]byte, error) {
	switch c.Kind {
	case Int32:
		buf := make([]byte, 4*len(c.I32))
		for i, v := range c.I32 {
			binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
		}
		return buf, nil
	case Int64:
		buf := make([]byte, 8*len(c.I64))
		for i, v := range c.I64 {
			binary.LittleEndian.PutUint64(buf[8*i:], uint64(v))
		}
		return buf, nil
	case Float32:
		buf := make([]byte, 4*len(c.F32))
		for i, v := range c.F32 {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
		return buf, nil
	case Float64:
		buf := make([]byte, 8*len(c.F64))
		for i, v := range c.F64 {
			binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
		}
		return buf, nil
	default:
		return nil, newFormatError("CODEC_BAD_COORD_KIND", "unrecognized coordinate kind")
	}
}

func coordSliceFromBytes(kind ScalarKind, data []byte) (CoordSlice, error) {
	width := kind.SizeOf()
	if width == 0 || len(data)%width != 0 {
		return CoordSlice{}, newFormatError("CODEC_BAD_COORD_LEN", "coordinate byte length is not a multiple of the type width")
	}
	n := len(data) / width
	switch kind {
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
		}
		return Int32Coords(out), nil
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(data[8*i:]))
		}
		return Int64Coords(out), nil
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		}
		return Float32Coords(out), nil
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		}
		return Float64Coords(out), nil
	default:
		return CoordSlice{}, newFormatError("CODEC_BAD_COORD_KIND", "unrecognized coordinate kind")
	}
}

type byteReader struct {
	data []byte
	off  int
}

func (r *byteReader) exhausted() bool { return r.off == len(r.data) }

func (r *byteReader) need(n int) error {
	if r.off+n > len(r.data) {
		return newFormatError("CODEC_TRUNCATED", "unexpected end of serialized schema")
	}
	return nil
}

func (r *byteReader) readByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *byteReader) readInt32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

func (r *byteReader) readInt64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(r.data[r.off:]))
	r.off += 8
	return v, nil
}

func (r *byteReader) readBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, newFormatError("CODEC_NEGATIVE_LEN", "declared length is negative")
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *byteReader) readString() (string, error) {
	n, err := r.readInt32()
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
