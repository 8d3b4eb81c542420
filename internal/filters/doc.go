// Package filters provides decompression for compressed result artifacts.
//
// Result dumps are usually written as plain XML, but archived or transferred
// dumps are often compressed. The loader inspects magic bytes and routes
// compressed payloads through one of these filters before parsing.
//
// # Supported Filters
//
// GzipDecode (RFC 1952, the .xml.gz convention):
//
//	decoded, err := filters.GzipDecode(data, 0)
//
// FlateDecode (zlib, RFC 1950):
//
//	decoded, err := filters.FlateDecode(data, 0)
//
// Both accept a size limit; a limit of 0 disables it. Output that would
// exceed the limit fails with [ErrTooLarge] instead of being truncated.
package filters
