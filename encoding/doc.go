// Package encoding implements the per-type chunk codecs used by the TSM
// writer and reader.
//
// Each codec serializes one chunk's worth of a single column (timestamps, or
// values of one value type) into a self-contained byte payload and back.
// Encoding is a pure function of the input slice: the same points always
// produce the same bytes, which the file format relies on for reproducible
// output.
//
// Payload formats:
//
//   - Timestamps: zigzag varint of the first timestamp, then zigzag varint
//     deltas. Time-series timestamps are near-monotonic, so deltas stay small.
//   - Float values: raw 8-byte IEEE 754 bits in the engine's byte order.
//   - Integer values: zigzag varint per value.
//   - Unsigned values: uvarint per value.
//   - Boolean values: uvarint count prefix, then bit-packed bytes (LSB first).
//   - String values: one compression-type byte, then the compressed
//     concatenation of uvarint-length-prefixed strings.
//
// Payload boundaries are delimited externally by the index section, so the
// decoders consume their input to exhaustion rather than carrying their own
// length framing.
package encoding
