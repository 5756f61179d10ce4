// Package tsm implements the writer for the immutable columnar TSM file
// format, plus the reader surface needed to verify written files.
//
// A TSM file is composed of four sections: header, blocks, index and footer.
//
//	┌────────┬────────────────────────────────────┬─────────────┬──────────────┐
//	│ Header │               Blocks               │    Index    │    Footer    │
//	│5 bytes │              N bytes               │   N bytes   │   72 bytes   │
//	└────────┴────────────────────────────────────┴─────────────┴──────────────┘
//
// Each block holds the points of one field, split into chunks of at most the
// configured chunk cap. Every chunk stores its timestamps and values as two
// independently encoded, CRC32-framed payloads:
//
//	┌─────────┬─────────┬─────────┬─────────┐
//	│  CRC32  │   ts    │  CRC32  │  value  │
//	│ 4 bytes │ N bytes │ 4 bytes │ N bytes │
//	└─────────┴─────────┴─────────┴─────────┘
//
// The index maps each field to its chunk locations and time ranges; the
// footer carries a fixed-size membership filter over field identifiers and
// the absolute offset of the index section.
//
// Files are written once, front to back, through a five-phase pipeline
// (header, blocks, index, footer, durable flush) and never mutated again.
// Any phase failure leaves the file unusable; the caller must discard it.
//
// Two writer variants share the phase contract: BufferedWriter consumes a
// fully materialized field-to-block map, StreamWriter consumes an incremental
// sequence of (field, block) pairs while holding only index metadata in
// memory. Both produce identical on-disk layout for the same input order.
package tsm
