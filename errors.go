package rcaller

import (
	"errors"
	"fmt"

	"github.com/jbytecode/RCaller/model"
)

// Sentinel errors. Every error returned by a Parser matches exactly one of
// these with errors.Is, except plain I/O failures while reading an artifact.
var (
	// ErrEmptyArtifact indicates the artifact had zero bytes.
	ErrEmptyArtifact = errors.New("result artifact is empty")
	// ErrMalformedDocument indicates the artifact is not a usable XML document.
	ErrMalformedDocument = errors.New("malformed result document")
	// ErrNotLoaded indicates no document has been loaded successfully.
	ErrNotLoaded = errors.New("no result document loaded")
	// ErrVariableNotFound indicates a decode for a name with no variable.
	ErrVariableNotFound = errors.New("variable not found")
	// ErrConversion indicates a token that does not parse as the target type.
	ErrConversion = errors.New("value conversion failed")
	// ErrDimensionMismatch indicates a token count incompatible with a shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ArtifactError reports an empty artifact.
type ArtifactError struct {
	Source string
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("can not parse output: the generated file %s is empty", e.Source)
}

// Is reports whether target is ErrEmptyArtifact.
func (e *ArtifactError) Is(target error) bool {
	return target == ErrEmptyArtifact
}

// DocumentError reports an artifact that could not be parsed.
type DocumentError struct {
	Source string
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("can not parse the R output %s: %v", e.Source, e.Err)
}

// Is reports whether target is ErrMalformedDocument.
func (e *DocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// VariableError reports a decode request for an absent variable.
type VariableError struct {
	Name string
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("variable %s not found", e.Name)
}

// Is reports whether target is ErrVariableNotFound.
func (e *VariableError) Is(target error) bool {
	return target == ErrVariableNotFound
}

// ConversionError reports the first token of a variable that could not be
// converted to the requested kind.
type ConversionError struct {
	Variable string
	Index    int // Position of the token in the variable's value list
	Token    string
	Kind     model.Kind
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("variable %s: value %d %q can not convert to %s", e.Variable, e.Index, e.Token, e.Kind)
}

// Is reports whether target is ErrConversion.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// DimensionError reports a matrix shape that does not fit the token count.
type DimensionError struct {
	Variable string
	Rows     int
	Cols     int
	Count    int // Number of tokens the variable holds
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("variable %s: %d values can not fill a %dx%d matrix", e.Variable, e.Count, e.Rows, e.Cols)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
