package format

type (
	ValueType       uint8
	CompressionType uint8
)

const (
	TypeUnknown  ValueType = 0 // TypeUnknown is an invalid value type; writing it must be rejected.
	TypeFloat    ValueType = 1 // TypeFloat represents 64-bit floating point values.
	TypeInteger  ValueType = 2 // TypeInteger represents 64-bit signed integer values.
	TypeUnsigned ValueType = 3 // TypeUnsigned represents 64-bit unsigned integer values.
	TypeBoolean  ValueType = 4 // TypeBoolean represents boolean values.
	TypeString   ValueType = 5 // TypeString represents variable-length byte string values.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Valid reports whether the value type can be stored in a TSM file.
func (v ValueType) Valid() bool {
	return v >= TypeFloat && v <= TypeString
}

func (v ValueType) String() string {
	switch v {
	case TypeFloat:
		return "Float"
	case TypeInteger:
		return "Integer"
	case TypeUnsigned:
		return "Unsigned"
	case TypeBoolean:
		return "Boolean"
	case TypeString:
		return "String"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
