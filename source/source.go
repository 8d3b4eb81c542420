// Package source provides byte-producing artifacts for the result parser.
//
// A [Source] names an artifact and returns all of its bytes. Sources that can
// report their length cheaply also implement [Sizer], which lets the loader
// reject empty artifacts without reading them.
//
//	src := source.File("/tmp/Routput8231.xml")
//	data, err := src.ReadAll()
package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Source is a named artifact whose full content can be read.
type Source interface {
	// Name identifies the artifact in error messages.
	Name() string
	// ReadAll returns every byte of the artifact.
	ReadAll() ([]byte, error)
}

// Sizer is implemented by sources that know their length before reading.
type Sizer interface {
	Size() (int64, error)
}

// File returns a Source backed by the file at path.
func File(path string) Source {
	return fileSource{path: path}
}

type fileSource struct {
	path string
}

func (s fileSource) Name() string { return s.path }

func (s fileSource) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", s.path)
	}
	return info.Size(), nil
}

func (s fileSource) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

// Bytes returns a Source over an in-memory buffer. The buffer is not copied.
func Bytes(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

type bytesSource struct {
	name string
	data []byte
}

func (s bytesSource) Name() string { return s.name }

func (s bytesSource) Size() (int64, error) { return int64(len(s.data)), nil }

func (s bytesSource) ReadAll() ([]byte, error) { return s.data, nil }

// Reader returns a Source that drains r on the first ReadAll call.
// Later calls return the same bytes.
func Reader(name string, r io.Reader) Source {
	return &readerSource{name: name, r: r}
}

type readerSource struct {
	name string
	r    io.Reader
	data []byte
	err  error
	done bool
}

func (s *readerSource) Name() string { return s.name }

func (s *readerSource) ReadAll() ([]byte, error) {
	if !s.done {
		s.data, s.err = io.ReadAll(s.r)
		if s.err != nil {
			s.err = fmt.Errorf("failed to read %s: %w", s.name, s.err)
		}
		s.done = true
	}
	return s.data, s.err
}

// ZipEntry returns a Source for a single member of a ZIP archive.
func ZipEntry(archive, entry string) Source {
	return zipSource{archive: archive, entry: entry}
}

type zipSource struct {
	archive string
	entry   string
}

func (s zipSource) Name() string { return s.archive + "!" + s.entry }

func (s zipSource) Size() (int64, error) {
	zr, err := zip.OpenReader(s.archive)
	if err != nil {
		return 0, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	f, err := findEntry(&zr.Reader, s.entry)
	if err != nil {
		return 0, err
	}
	return int64(f.UncompressedSize64), nil
}

func (s zipSource) ReadAll() ([]byte, error) {
	zr, err := zip.OpenReader(s.archive)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	f, err := findEntry(&zr.Reader, s.entry)
	if err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.Name(), err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Name(), err)
	}
	return buf.Bytes(), nil
}

func findEntry(zr *zip.Reader, name string) (*zip.File, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// EntryNames lists the members of a ZIP archive in archive order.
func EntryNames(archive string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}
