package tsm

import (
	"fmt"

	"github.com/arloliu/tsmfile/encoding"
	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/format"
)

// DataBlock is the in-memory columnar representation of one field: a
// timestamp column and a value column of a single value type, associated 1:1.
//
// A block is built by the caller, handed to a writer, and only ever read from
// there; the writer never mutates it.
//
// Note: DataBlock is NOT thread-safe. Each block should be appended to by a
// single goroutine at a time.
type DataBlock struct {
	vtype      format.ValueType
	timestamps []int64

	// Exactly one value column is populated, selected by vtype.
	floats    []float64
	integers  []int64
	unsigneds []uint64
	booleans  []bool
	strings   [][]byte
}

// NewDataBlock creates an empty block of the given value type with capacity
// pre-allocated for the expected number of points.
//
// Returns errs.ErrUnknownValueType for format.TypeUnknown or any value
// outside the closed enumeration.
func NewDataBlock(vtype format.ValueType, capacity int) (*DataBlock, error) {
	if !vtype.Valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownValueType, vtype)
	}
	if capacity < 0 {
		capacity = 0
	}

	b := &DataBlock{
		vtype:      vtype,
		timestamps: make([]int64, 0, capacity),
	}

	switch vtype {
	case format.TypeFloat:
		b.floats = make([]float64, 0, capacity)
	case format.TypeInteger:
		b.integers = make([]int64, 0, capacity)
	case format.TypeUnsigned:
		b.unsigneds = make([]uint64, 0, capacity)
	case format.TypeBoolean:
		b.booleans = make([]bool, 0, capacity)
	case format.TypeString:
		b.strings = make([][]byte, 0, capacity)
	}

	return b, nil
}

// Type returns the block's value type.
func (b *DataBlock) Type() format.ValueType {
	return b.vtype
}

// Len returns the number of points in the block.
func (b *DataBlock) Len() int {
	return len(b.timestamps)
}

// Timestamps returns the timestamp column. The caller must not modify it.
func (b *DataBlock) Timestamps() []int64 {
	return b.timestamps
}

// Floats returns the float value column for a TypeFloat block.
func (b *DataBlock) Floats() []float64 { return b.floats }

// Integers returns the integer value column for a TypeInteger block.
func (b *DataBlock) Integers() []int64 { return b.integers }

// Unsigneds returns the unsigned value column for a TypeUnsigned block.
func (b *DataBlock) Unsigneds() []uint64 { return b.unsigneds }

// Booleans returns the boolean value column for a TypeBoolean block.
func (b *DataBlock) Booleans() []bool { return b.booleans }

// Strings returns the string value column for a TypeString block.
func (b *DataBlock) Strings() [][]byte { return b.strings }

// AppendFloat appends one point to a TypeFloat block.
func (b *DataBlock) AppendFloat(ts int64, v float64) error {
	if b.vtype != format.TypeFloat {
		return fmt.Errorf("%w: block is %s, value is Float", errs.ErrValueTypeMismatch, b.vtype)
	}
	b.timestamps = append(b.timestamps, ts)
	b.floats = append(b.floats, v)

	return nil
}

// AppendInteger appends one point to a TypeInteger block.
func (b *DataBlock) AppendInteger(ts int64, v int64) error {
	if b.vtype != format.TypeInteger {
		return fmt.Errorf("%w: block is %s, value is Integer", errs.ErrValueTypeMismatch, b.vtype)
	}
	b.timestamps = append(b.timestamps, ts)
	b.integers = append(b.integers, v)

	return nil
}

// AppendUnsigned appends one point to a TypeUnsigned block.
func (b *DataBlock) AppendUnsigned(ts int64, v uint64) error {
	if b.vtype != format.TypeUnsigned {
		return fmt.Errorf("%w: block is %s, value is Unsigned", errs.ErrValueTypeMismatch, b.vtype)
	}
	b.timestamps = append(b.timestamps, ts)
	b.unsigneds = append(b.unsigneds, v)

	return nil
}

// AppendBoolean appends one point to a TypeBoolean block.
func (b *DataBlock) AppendBoolean(ts int64, v bool) error {
	if b.vtype != format.TypeBoolean {
		return fmt.Errorf("%w: block is %s, value is Boolean", errs.ErrValueTypeMismatch, b.vtype)
	}
	b.timestamps = append(b.timestamps, ts)
	b.booleans = append(b.booleans, v)

	return nil
}

// AppendString appends one point to a TypeString block. The value bytes are
// retained, not copied.
func (b *DataBlock) AppendString(ts int64, v []byte) error {
	if b.vtype != format.TypeString {
		return fmt.Errorf("%w: block is %s, value is String", errs.ErrValueTypeMismatch, b.vtype)
	}
	b.timestamps = append(b.timestamps, ts)
	b.strings = append(b.strings, v)

	return nil
}

// NewFloatBlock builds a TypeFloat block from parallel slices.
func NewFloatBlock(timestamps []int64, values []float64) (*DataBlock, error) {
	if len(timestamps) != len(values) {
		return nil, errs.ErrTimestampCountMismatch
	}

	return &DataBlock{vtype: format.TypeFloat, timestamps: timestamps, floats: values}, nil
}

// NewIntegerBlock builds a TypeInteger block from parallel slices.
func NewIntegerBlock(timestamps []int64, values []int64) (*DataBlock, error) {
	if len(timestamps) != len(values) {
		return nil, errs.ErrTimestampCountMismatch
	}

	return &DataBlock{vtype: format.TypeInteger, timestamps: timestamps, integers: values}, nil
}

// NewUnsignedBlock builds a TypeUnsigned block from parallel slices.
func NewUnsignedBlock(timestamps []int64, values []uint64) (*DataBlock, error) {
	if len(timestamps) != len(values) {
		return nil, errs.ErrTimestampCountMismatch
	}

	return &DataBlock{vtype: format.TypeUnsigned, timestamps: timestamps, unsigneds: values}, nil
}

// NewBooleanBlock builds a TypeBoolean block from parallel slices.
func NewBooleanBlock(timestamps []int64, values []bool) (*DataBlock, error) {
	if len(timestamps) != len(values) {
		return nil, errs.ErrTimestampCountMismatch
	}

	return &DataBlock{vtype: format.TypeBoolean, timestamps: timestamps, booleans: values}, nil
}

// NewStringBlock builds a TypeString block from parallel slices.
func NewStringBlock(timestamps []int64, values [][]byte) (*DataBlock, error) {
	if len(timestamps) != len(values) {
		return nil, errs.ErrTimestampCountMismatch
	}

	return &DataBlock{vtype: format.TypeString, timestamps: timestamps, strings: values}, nil
}

// EncodeRange encodes the half-open point range [start, end) into two
// independent payloads, appending them to tsDst and valDst.
//
// Encoding is deterministic: the same range always yields the same bytes.
// The compression type applies to string values only.
func (b *DataBlock) EncodeRange(tsDst, valDst []byte, start, end int, compression format.CompressionType) ([]byte, []byte, error) {
	if start < 0 || end > b.Len() || start >= end {
		return nil, nil, fmt.Errorf("invalid point range [%d, %d) of %d points", start, end, b.Len())
	}

	tsDst = encoding.AppendTimestamps(tsDst, b.timestamps[start:end])

	var err error
	switch b.vtype {
	case format.TypeFloat:
		valDst = encoding.AppendFloats(valDst, b.floats[start:end], fileEngine)
	case format.TypeInteger:
		valDst = encoding.AppendIntegers(valDst, b.integers[start:end])
	case format.TypeUnsigned:
		valDst = encoding.AppendUnsigneds(valDst, b.unsigneds[start:end])
	case format.TypeBoolean:
		valDst = encoding.AppendBooleans(valDst, b.booleans[start:end])
	case format.TypeString:
		valDst, err = encoding.AppendStrings(valDst, b.strings[start:end], compression)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: %d", errs.ErrUnknownValueType, b.vtype)
	}

	return tsDst, valDst, nil
}
