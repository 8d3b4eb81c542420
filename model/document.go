package model

import "github.com/jbytecode/RCaller/format"

// Metadata summarizes a loaded result document.
type Metadata struct {
	Source    string        // Name of the artifact the document was read from
	Format    format.Format // Encoding the artifact arrived in
	Size      int           // Size of the XML payload in bytes, after decompression
	Root      string        // Name of the document element
	Variables int           // Number of variable elements, duplicates included
}
