// Package format provides artifact format detection for result dumps.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a supported artifact encoding.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// XML indicates a plain XML result document.
	XML
	// Gzip indicates a gzip-compressed XML result document.
	Gzip
	// Zip indicates a ZIP archive that may contain result documents.
	Zip
	// Zlib indicates a zlib-wrapped deflate stream of an XML result document.
	Zlib
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case XML:
		return "XML"
	case Gzip:
		return "Gzip"
	case Zip:
		return "Zip"
	case Zlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case XML:
		return ".xml"
	case Gzip:
		return ".xml.gz"
	case Zip:
		return ".zip"
	case Zlib:
		return ".xml.z"
	default:
		return ""
	}
}

// Detect determines the artifact format from its filename extension.
func Detect(filename string) Format {
	lower := strings.ToLower(filename)
	for _, f := range []Format{Gzip, Zlib} {
		if strings.HasSuffix(lower, f.Extension()) {
			return f
		}
	}
	switch filepath.Ext(lower) {
	case ".xml":
		return XML
	case ".gz", ".gzip":
		return Gzip
	case ".zip":
		return Zip
	case ".z", ".zz", ".zlib":
		return Zlib
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine the format.
// This is more reliable than extension-based detection because the
// producing engine writes to temporary files with arbitrary names.
func DetectFromMagic(data []byte) Format {
	// Gzip magic: \x1f\x8b
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		return Gzip
	}

	// ZIP magic: PK\x03\x04
	if len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return Zip
	}

	// Zlib header: CMF 0x78 (deflate, 32K window) and a FLG byte making
	// CMF*256+FLG a multiple of 31
	if len(data) >= 2 && data[0] == 0x78 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0 {
		return Zlib
	}

	if detectXMLMagic(data) {
		return XML
	}

	return Unknown
}

// detectXMLMagic reports whether the data looks like markup: an optional
// byte order mark and leading whitespace followed by '<'.
func detectXMLMagic(data []byte) bool {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		data = data[3:]
	case len(data) >= 2 && ((data[0] == 0xFE && data[1] == 0xFF) || (data[0] == 0xFF && data[1] == 0xFE)):
		// UTF-16 text; the XML decoder decides whether it is usable
		return true
	}

	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	return start < len(data) && data[start] == '<'
}
