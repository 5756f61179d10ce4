package encoding

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/tsmfile/compress"
	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/format"
	"github.com/arloliu/tsmfile/internal/pool"
)

// AppendStrings appends the string payload for one chunk: a single
// compression-type byte, then the chosen codec's compression of the
// uvarint-length-prefixed concatenation of all values.
//
// Recording the codec inside the payload lets each file (and in principle
// each chunk) pick its own compression without out-of-band configuration.
func AppendStrings(dst []byte, values [][]byte, compression format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, errs.ErrInvalidCompression
	}

	buf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(buf)

	for _, v := range values {
		buf.B = binary.AppendUvarint(buf.B, uint64(len(v)))
		buf.MustWrite(v)
	}

	compressed, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress string payload: %w", err)
	}

	// LZ4 signals incompressible input with an empty result; store such
	// payloads uncompressed so decoding stays self-describing.
	if len(compressed) == 0 && buf.Len() > 0 {
		compression = format.CompressionNone
		compressed = buf.Bytes()
	}

	dst = append(dst, byte(compression))
	dst = append(dst, compressed...)

	return dst, nil
}

// DecodeStrings decodes a string payload produced by AppendStrings.
// Each returned value is a fresh copy, safe to retain after the input is gone.
func DecodeStrings(dst [][]byte, data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("malformed string payload: missing compression type")
	}

	compression := format.CompressionType(data[0])
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, errs.ErrInvalidCompression
	}

	raw, err := codec.Decompress(data[1:])
	if err != nil {
		return nil, fmt.Errorf("decompress string payload: %w", err)
	}

	for len(raw) > 0 {
		length, n := binary.Uvarint(raw)
		if n <= 0 || uint64(len(raw)-n) < length {
			return nil, fmt.Errorf("malformed string payload at byte %d", len(raw))
		}
		raw = raw[n:]

		v := make([]byte, length)
		copy(v, raw[:length])
		dst = append(dst, v)
		raw = raw[length:]
	}

	return dst, nil
}
