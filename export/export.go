// Package export renders result variables as text, Markdown, JSON or YAML.
//
// Matrix-shaped variables are laid out in rows and columns using the
// column-major order of the producing engine; other variables are rendered
// as flat value lists.
//
//	vars, _ := p.Variables()
//	out, err := export.NewExporterWithConfig(export.Config{Format: export.FormatYAML}).ExportToString(vars)
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jbytecode/RCaller/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatText renders tab separated values under a header line per variable
	FormatText Format = iota
	// FormatMarkdown renders one table per variable
	FormatMarkdown
	// FormatJSON renders a JSON array of variables
	FormatJSON
	// FormatYAML renders a YAML sequence of variables
	FormatYAML
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown export format: %s", name)
	}
}

// UnmarshalText lets a Format be used directly as a flag value.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Config holds configuration options for export
type Config struct {
	// Format specifies the export format
	Format Format

	// Indent is the indentation width for JSON and YAML output (0 = compact JSON)
	Indent int

	// Delimiter separates values in text output (default: tab)
	Delimiter string
}

// DefaultConfig returns sensible defaults for export configuration
func DefaultConfig() Config {
	return Config{
		Format:    FormatText,
		Indent:    2,
		Delimiter: "\t",
	}
}

// Exporter writes variables in a configured format
type Exporter struct {
	config Config
}

// NewExporter creates an exporter with default configuration
func NewExporter() *Exporter {
	return NewExporterWithConfig(DefaultConfig())
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config Config) *Exporter {
	if config.Delimiter == "" {
		config.Delimiter = "\t"
	}
	return &Exporter{config: config}
}

// exportedVariable is the JSON and YAML shape of a variable
type exportedVariable struct {
	Name   string     `json:"name" yaml:"name"`
	Type   string     `json:"type" yaml:"type"`
	Rows   int        `json:"rows,omitempty" yaml:"rows,omitempty"`
	Cols   int        `json:"cols,omitempty" yaml:"cols,omitempty"`
	Values []string   `json:"values,omitempty" yaml:"values,omitempty"`
	Matrix [][]string `json:"matrix,omitempty" yaml:"matrix,omitempty"`
}

// Export writes vars to w
func (e *Exporter) Export(vars []model.Variable, w io.Writer) error {
	switch e.config.Format {
	case FormatText:
		return e.exportText(vars, w)
	case FormatMarkdown:
		return e.exportMarkdown(vars, w)
	case FormatJSON:
		return e.exportJSON(vars, w)
	case FormatYAML:
		return e.exportYAML(vars, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToString exports vars and returns the output as a string
func (e *Exporter) ExportToString(vars []model.Variable) (string, error) {
	var sb strings.Builder
	if err := e.Export(vars, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Grid arranges a matrix-shaped variable's tokens into rows. It returns nil
// when the declared shape does not match the token count.
func Grid(v model.Variable) [][]string {
	if !v.IsMatrix() {
		return nil
	}
	grid := make([][]string, v.Rows)
	for r := range grid {
		grid[r] = make([]string, v.Cols)
	}
	for k, tok := range v.Values {
		row, col := v.Position(k)
		grid[row][col] = tok
	}
	return grid
}

func (e *Exporter) prepare(vars []model.Variable) []exportedVariable {
	out := make([]exportedVariable, len(vars))
	for i, v := range vars {
		ev := exportedVariable{
			Name: v.Name,
			Type: v.Type,
			Rows: v.Rows,
			Cols: v.Cols,
		}
		if grid := Grid(v); grid != nil && v.Rows > 0 && v.Cols > 0 {
			ev.Matrix = grid
		} else {
			ev.Values = v.Values
		}
		out[i] = ev
	}
	return out
}

func (e *Exporter) exportText(vars []model.Variable, w io.Writer) error {
	var sb strings.Builder
	for i, v := range vars {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(v.Name)
		sb.WriteString(" (")
		sb.WriteString(v.Type)
		if v.HasDimensions() {
			fmt.Fprintf(&sb, ", %dx%d", v.Rows, v.Cols)
		}
		sb.WriteString(")\n")

		if grid := Grid(v); grid != nil {
			for _, row := range grid {
				sb.WriteString(strings.Join(row, e.config.Delimiter))
				sb.WriteString("\n")
			}
			continue
		}
		if len(v.Values) > 0 {
			sb.WriteString(strings.Join(v.Values, e.config.Delimiter))
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *Exporter) exportMarkdown(vars []model.Variable, w io.Writer) error {
	var sb strings.Builder
	for i, v := range vars {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", v.Name)
		fmt.Fprintf(&sb, "Type: `%s`", v.Type)
		if v.HasDimensions() {
			fmt.Fprintf(&sb, ", %d x %d", v.Rows, v.Cols)
		}
		sb.WriteString("\n\n")

		if grid := Grid(v); grid != nil && v.Cols > 0 {
			// Header row uses R's column labels.
			sb.WriteString("|   |")
			for c := 0; c < v.Cols; c++ {
				fmt.Fprintf(&sb, " [,%d] |", c+1)
			}
			sb.WriteString("\n|---|")
			for c := 0; c < v.Cols; c++ {
				sb.WriteString("---|")
			}
			sb.WriteString("\n")
			for r, row := range grid {
				fmt.Fprintf(&sb, "| [%d,] |", r+1)
				for _, cell := range row {
					sb.WriteString(" ")
					sb.WriteString(escapeMarkdown(cell))
					sb.WriteString(" |")
				}
				sb.WriteString("\n")
			}
			continue
		}

		if len(v.Values) == 0 {
			sb.WriteString("_empty_\n")
			continue
		}
		sb.WriteString("| index | value |\n|---|---|\n")
		for k, tok := range v.Values {
			fmt.Fprintf(&sb, "| [%d] | %s |\n", k+1, escapeMarkdown(tok))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *Exporter) exportJSON(vars []model.Variable, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.config.Indent > 0 {
		encoder.SetIndent("", strings.Repeat(" ", e.config.Indent))
	}
	return encoder.Encode(e.prepare(vars))
}

func (e *Exporter) exportYAML(vars []model.Variable, w io.Writer) error {
	var opts []yaml.EncodeOption
	if e.config.Indent > 0 {
		opts = append(opts, yaml.Indent(e.config.Indent))
	}

	data, err := yaml.MarshalWithOptions(e.prepare(vars), opts...)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
