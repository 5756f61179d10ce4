package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmfile/endian"
	"github.com/arloliu/tsmfile/format"
)

var testEngine = endian.GetBigEndianEngine()

// TestTimestampRoundTrip verifies delta encoding across regular, irregular
// and negative timestamps.
func TestTimestampRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		timestamps []int64
	}{
		{name: "regular interval", timestamps: []int64{1000, 2000, 3000, 4000}},
		{name: "single point", timestamps: []int64{1234567890}},
		{name: "negative and backwards", timestamps: []int64{-100, 50, 40, 1 << 50}},
		{name: "repeated", timestamps: []int64{5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := AppendTimestamps(nil, tt.timestamps)
			got, err := DecodeTimestamps(nil, data)
			require.NoError(t, err)
			require.Equal(t, tt.timestamps, got)
		})
	}
}

// TestNumericRoundTrips verifies the float, integer and unsigned codecs.
func TestNumericRoundTrips(t *testing.T) {
	floats := []float64{0, -1.5, 3.14159, 1e300, -1e-300}
	data := AppendFloats(nil, floats, testEngine)
	require.Len(t, data, len(floats)*8)
	gotFloats, err := DecodeFloats(nil, data, testEngine)
	require.NoError(t, err)
	require.Equal(t, floats, gotFloats)

	_, err = DecodeFloats(nil, data[:7], testEngine)
	require.Error(t, err)

	integers := []int64{0, -1, 1, -1 << 62, 1 << 62}
	gotIntegers, err := DecodeIntegers(nil, AppendIntegers(nil, integers))
	require.NoError(t, err)
	require.Equal(t, integers, gotIntegers)

	unsigneds := []uint64{0, 1, 1<<64 - 1, 12345}
	gotUnsigneds, err := DecodeUnsigneds(nil, AppendUnsigneds(nil, unsigneds))
	require.NoError(t, err)
	require.Equal(t, unsigneds, gotUnsigneds)
}

// TestBooleanRoundTrip verifies bit packing including non-multiple-of-eight
// lengths.
func TestBooleanRoundTrip(t *testing.T) {
	for _, n := range []int{1, 7, 8, 9, 100} {
		values := make([]bool, n)
		for i := range values {
			values[i] = i%3 == 0
		}

		got, err := DecodeBooleans(nil, AppendBooleans(nil, values))
		require.NoError(t, err)
		require.Equal(t, values, got)
	}
}

// TestStringRoundTrip verifies string payloads across every compression codec.
func TestStringRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("OK"), []byte(""), []byte("a longer status message that should compress"), {0x00, 0xFF, 0x7F}}

	codecs := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	for _, compression := range codecs {
		t.Run(compression.String(), func(t *testing.T) {
			data, err := AppendStrings(nil, values, compression)
			require.NoError(t, err)

			got, err := DecodeStrings(nil, data)
			require.NoError(t, err)
			require.Equal(t, values, got)
		})
	}

	_, err := AppendStrings(nil, values, format.CompressionType(0xEE))
	require.Error(t, err)
}
