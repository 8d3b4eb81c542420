package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	rcaller "github.com/jbytecode/RCaller"
	"github.com/jbytecode/RCaller/export"
	"github.com/jbytecode/RCaller/format"
	"github.com/jbytecode/RCaller/model"
	"github.com/jbytecode/RCaller/source"
)

// CLI is the top-level command-line interface for rdump.
type CLI struct {
	Log logConfig `embed:"" prefix:"log-"`

	NAAsNaN bool  `help:"Decode NA as NaN in floating point output." name:"na-as-nan"`
	MaxSize int64 `help:"Reject payloads larger than this many bytes (0 = unlimited)." name:"max-size"`

	Names  Names  `cmd:"" help:"List variables with their type and shape."`
	Show   Show   `cmd:"" help:"Render variables as text, markdown, JSON or YAML."`
	Decode Decode `cmd:"" help:"Decode one variable as a typed value."`
}

type logConfig struct {
	Level  slog.Level `default:"warn" help:"Set log level (debug, info, warn, error)."`
	Format string     `default:"text" enum:"json,text" help:"Set log format."`
}

func (c logConfig) logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// env carries process-level dependencies into command Run methods.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
	opts   []rcaller.Option
}

// Input names the artifact a command reads.
type Input struct {
	Source string `arg:"" help:"Result document, or '-' for stdin." name:"source"`
	Entry  string `help:"Member to read when the source is a ZIP archive; defaults to its only result document." short:"e"`
}

func (in Input) open(e *env) (*rcaller.Parser, error) {
	p := rcaller.New(e.opts...)
	e.logger.Debug("opening result document", slog.String("source", in.Source), slog.String("entry", in.Entry))

	var err error
	switch {
	case in.Source == "-":
		err = p.LoadReader("stdin", e.stdin)
	case in.Entry != "":
		err = p.Load(source.ZipEntry(in.Source, in.Entry))
	case format.Detect(in.Source) == format.Zip:
		var entry string
		if entry, err = soleEntry(in.Source); err == nil {
			e.logger.Debug("selected archive member", slog.String("entry", entry))
			err = p.Load(source.ZipEntry(in.Source, entry))
		}
	default:
		err = p.LoadFile(in.Source)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// soleEntry returns the only result document in a ZIP archive.
func soleEntry(archive string) (string, error) {
	names, err := source.EntryNames(archive)
	if err != nil {
		return "", err
	}

	var found []string
	for _, name := range names {
		switch format.Detect(name) {
		case format.XML, format.Gzip, format.Zlib:
			found = append(found, name)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", fmt.Errorf("no %s, %s or %s member in %s",
			format.XML.Extension(), format.Gzip.Extension(), format.Zlib.Extension(), archive)
	default:
		return "", fmt.Errorf("%s holds %d result documents (%s), select one with --entry",
			archive, len(found), strings.Join(found, ", "))
	}
}

// Names lists the variables of a document.
type Names struct {
	Input `embed:""`
}

// Run executes the names command.
func (c *Names) Run(e *env) error {
	p, err := c.open(e)
	if err != nil {
		return err
	}

	vars, err := p.Variables()
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, v := range vars {
		sb.WriteString(v.Name)
		sb.WriteString("\t")
		sb.WriteString(v.Type)
		if v.HasDimensions() {
			fmt.Fprintf(&sb, "\t%dx%d", v.Rows, v.Cols)
		}
		sb.WriteString("\n")
	}
	_, err = io.WriteString(e.stdout, sb.String())
	return err
}

// Show renders variables in an export format.
type Show struct {
	Input `embed:""`

	Var    []string      `help:"Variable to include; repeatable. Default is all." short:"v"`
	Format export.Format `default:"text" help:"Output format (text, markdown, json, yaml)." short:"f"`
	Indent int           `default:"2" help:"Indent width for JSON and YAML output." short:"i"`
	Output string        `help:"Write to this file instead of stdout; the format's extension is added when missing." short:"o"`
}

// Run executes the show command.
func (c *Show) Run(e *env) error {
	p, err := c.open(e)
	if err != nil {
		return err
	}

	var vars []model.Variable
	if len(c.Var) == 0 {
		vars, err = p.Variables()
		if err != nil {
			return err
		}
	} else {
		for _, name := range c.Var {
			v, ok, err := p.Variable(name)
			if err != nil {
				return err
			}
			if !ok {
				return &rcaller.VariableError{Name: name}
			}
			vars = append(vars, v)
		}
	}

	exporter := export.NewExporterWithConfig(export.Config{
		Format: c.Format,
		Indent: c.Indent,
	})
	if c.Output == "" {
		return exporter.Export(vars, e.stdout)
	}

	path := c.Output
	if filepath.Ext(path) == "" {
		path += c.Format.FileExtension()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exporter.Export(vars, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	e.logger.Info("variables exported", slog.String("path", path), slog.Int("variables", len(vars)))
	return nil
}

// Decode converts one variable with a typed decoder and prints the result.
type Decode struct {
	Input `embed:""`

	Name string `arg:"" help:"Variable name." name:"name"`
	As   string `default:"string" enum:"string,float64,float32,int32,int64,bool,matrix" help:"Target type." short:"a"`
	Rows int    `help:"Matrix rows; with --cols overrides the declared shape." short:"n"`
	Cols int    `help:"Matrix columns; with --rows overrides the declared shape." short:"m"`
}

// Run executes the decode command.
func (c *Decode) Run(e *env) error {
	p, err := c.open(e)
	if err != nil {
		return err
	}

	var values []string
	switch c.As {
	case "string":
		values, err = p.Strings(c.Name)
	case "float64":
		values, err = render(p.Float64s(c.Name))(func(f float64) string {
			return strconv.FormatFloat(f, 'g', -1, 64)
		})
	case "float32":
		values, err = render(p.Float32s(c.Name))(func(f float32) string {
			return strconv.FormatFloat(float64(f), 'g', -1, 32)
		})
	case "int32":
		values, err = render(p.Int32s(c.Name))(func(i int32) string {
			return strconv.FormatInt(int64(i), 10)
		})
	case "int64":
		values, err = render(p.Int64s(c.Name))(func(i int64) string {
			return strconv.FormatInt(i, 10)
		})
	case "bool":
		values, err = render(p.Bools(c.Name))(strconv.FormatBool)
	case "matrix":
		return c.printMatrix(p, e.stdout)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(e.stdout, strings.Join(values, "\n")+"\n")
	return err
}

func (c *Decode) printMatrix(p *rcaller.Parser, w io.Writer) error {
	var (
		m   [][]float64
		err error
	)
	if c.Rows > 0 || c.Cols > 0 {
		m, err = p.MatrixOf(c.Name, c.Rows, c.Cols)
	} else {
		m, err = p.Matrix(c.Name)
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, row := range m {
		for j, v := range row {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteString("\n")
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

// render adapts a decoder result to string output, passing errors through.
func render[T any](vals []T, err error) func(func(T) string) ([]string, error) {
	return func(fn func(T) string) ([]string, error) {
		if err != nil {
			return nil, err
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = fn(v)
		}
		return out, nil
	}
}

// run parses args and executes the selected command.
func run(exit func(code int), stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("rdump"),
		kong.Description("Inspect the XML result documents written by R sessions."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := cli.Log.logger(stderr)
	opts := []rcaller.Option{rcaller.WithLogger(logger)}
	if cli.NAAsNaN {
		opts = append(opts, rcaller.WithNAAsNaN())
	}
	if cli.MaxSize > 0 {
		opts = append(opts, rcaller.WithMaxSize(cli.MaxSize))
	}

	return ktx.Run(&env{
		stdin:  stdin,
		stdout: stdout,
		logger: logger,
		opts:   opts,
	})
}

func main() {
	err := run(os.Exit, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("rdump failed", slog.Any("error", err))
		os.Exit(1)
	}
}
