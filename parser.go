package rcaller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jbytecode/RCaller/dom"
	"github.com/jbytecode/RCaller/format"
	"github.com/jbytecode/RCaller/internal/filters"
	"github.com/jbytecode/RCaller/model"
	"github.com/jbytecode/RCaller/source"
)

// variableTag is the element name that declares a result variable.
const variableTag = "variable"

// State is the load state of a Parser.
type State int

const (
	// Unloaded means no document is available for queries.
	Unloaded State = iota
	// Loaded means the last load succeeded.
	Loaded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Parser loads one result document at a time and answers variable queries
// against it.
type Parser struct {
	opts options

	doc  *dom.Document
	raw  []byte
	meta model.Metadata

	// vars holds every variable element in document order, duplicates included.
	vars []*model.Variable
	// index maps a name to its first variable.
	index map[string]*model.Variable
}

// New creates an unloaded Parser.
func New(opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o}
}

// State returns the current load state.
func (p *Parser) State() State {
	if p.doc == nil {
		return Unloaded
	}
	return Loaded
}

// Reset discards the loaded document.
func (p *Parser) Reset() {
	p.doc = nil
	p.raw = nil
	p.meta = model.Metadata{}
	p.vars = nil
	p.index = nil
}

// LoadFile loads the result document at path.
func (p *Parser) LoadFile(path string) error {
	return p.Load(source.File(path))
}

// LoadBytes loads a result document from memory. name labels the artifact
// in errors.
func (p *Parser) LoadBytes(name string, data []byte) error {
	return p.Load(source.Bytes(name, data))
}

// LoadReader loads a result document by draining r.
func (p *Parser) LoadReader(name string, r io.Reader) error {
	return p.Load(source.Reader(name, r))
}

// Load reads, parses and indexes the artifact, replacing any loaded
// document. On failure the parser is left unloaded.
func (p *Parser) Load(src source.Source) error {
	p.Reset()

	name := src.Name()
	log := p.opts.logger.With(slog.String("source", name))

	start := time.Now()
	data, err := p.read(src)
	if err != nil {
		return err
	}
	log.Debug("result artifact read",
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)))

	kind := format.DetectFromMagic(data)
	switch kind {
	case format.Gzip, format.Zlib:
		decode := filters.GzipDecode
		if kind == format.Zlib {
			decode = filters.FlateDecode
		}
		start = time.Now()
		data, err = decode(data, p.opts.maxSize)
		if err != nil {
			return &DocumentError{Source: name, Err: err}
		}
		if len(data) == 0 {
			return &ArtifactError{Source: name}
		}
		log.Debug("result artifact decompressed",
			slog.Int("bytes", len(data)),
			slog.Duration("elapsed", time.Since(start)))
	case format.Zip:
		return &DocumentError{Source: name, Err: errors.New("artifact is a ZIP archive, select a member with source.ZipEntry")}
	default:
		kind = format.XML
	}

	if p.opts.maxSize > 0 && int64(len(data)) > p.opts.maxSize {
		return &DocumentError{Source: name, Err: fmt.Errorf("%w (%d bytes)", filters.ErrTooLarge, p.opts.maxSize)}
	}

	start = time.Now()
	doc, err := dom.Parse(data)
	if err != nil {
		return &DocumentError{Source: name, Err: err}
	}
	log.Debug("result document parsed", slog.Duration("elapsed", time.Since(start)))

	start = time.Now()
	doc.Normalize()
	vars, index := buildIndex(doc)
	log.Debug("result document indexed",
		slog.Int("variables", len(vars)),
		slog.Duration("elapsed", time.Since(start)))

	p.doc = doc
	p.raw = data
	p.vars = vars
	p.index = index
	p.meta = model.Metadata{
		Source:    name,
		Format:    kind,
		Size:      len(data),
		Root:      doc.Root.QName(),
		Variables: len(vars),
	}

	return nil
}

// read returns the artifact bytes, rejecting empty artifacts before any
// parse attempt.
func (p *Parser) read(src source.Source) ([]byte, error) {
	name := src.Name()

	if s, ok := src.(source.Sizer); ok {
		size, err := s.Size()
		if err != nil {
			return nil, fmt.Errorf("reading result artifact: %w", err)
		}
		if size == 0 {
			return nil, &ArtifactError{Source: name}
		}
	}

	data, err := src.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading result artifact: %w", err)
	}
	if len(data) == 0 {
		return nil, &ArtifactError{Source: name}
	}
	return data, nil
}

// Metadata describes the loaded document.
func (p *Parser) Metadata() (model.Metadata, error) {
	if p.doc == nil {
		return model.Metadata{}, ErrNotLoaded
	}
	return p.meta, nil
}

// Document returns the normalized element tree, or nil when unloaded.
// Callers must not modify it.
func (p *Parser) Document() *dom.Document {
	return p.doc
}

// XML returns the loaded XML payload as text, after any decompression.
func (p *Parser) XML() (string, error) {
	if p.doc == nil {
		return "", ErrNotLoaded
	}
	return string(p.raw), nil
}
