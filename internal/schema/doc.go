// Package schema provides the canonical record types produced by the schema
// compiler and consumed by the type registry, together with the line-oriented
// Schema Table codec that persists them.
//
// This package contains types and codecs only. All other internal packages
// import schema; schema imports nothing internal.
//
// Key constraints:
//   - One record per line, tab-separated, UTF-8, NFC-normalized text columns
//   - Record order is the compiler's first-seen order; the codec never sorts
//   - A table's identity is the SHA-256 of its encoded bytes (see Hash)
package schema
