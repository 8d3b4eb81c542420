package rcaller

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/jbytecode/RCaller/model"
)

func TestNotLoaded(t *testing.T) {
	p := New()

	checks := map[string]func() error{
		"Names":       func() error { _, err := p.Names(); return err },
		"Type":        func() error { _, _, err := p.Type("x"); return err },
		"Dimensions":  func() error { _, _, err := p.Dimensions("x"); return err },
		"ValueTokens": func() error { _, _, err := p.ValueTokens("x"); return err },
		"Variable":    func() error { _, _, err := p.Variable("x"); return err },
		"Variables":   func() error { _, err := p.Variables(); return err },
		"Strings":     func() error { _, err := p.Strings("x"); return err },
		"Float64s":    func() error { _, err := p.Float64s("x"); return err },
		"Float32s":    func() error { _, err := p.Float32s("x"); return err },
		"Int32s":      func() error { _, err := p.Int32s("x"); return err },
		"Int64s":      func() error { _, err := p.Int64s("x"); return err },
		"Bools":       func() error { _, err := p.Bools("x"); return err },
		"Matrix":      func() error { _, err := p.Matrix("x"); return err },
		"MatrixOf":    func() error { _, err := p.MatrixOf("x", 1, 1); return err },
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			if err := check(); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("%s() error = %v, want ErrNotLoaded", name, err)
			}
		})
	}
}

func TestNames(t *testing.T) {
	p := loadString(t, sampleDocument)

	names, err := p.Names()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"v", "flag", "label", "counts"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestNames_DuplicatesAndNesting(t *testing.T) {
	p := loadString(t, `<root>
  <variable name="a" type="numeric"><v>1</v></variable>
  <group>
    <variable name="b" type="numeric"><v>2</v></variable>
  </group>
  <variable name="a" type="character"><v>second</v></variable>
  <variable type="numeric"><v>unnamed</v></variable>
</root>`)

	names, err := p.Names()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "a"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}

	// First match wins.
	typ, ok, err := p.Type("a")
	if err != nil || !ok || typ != "numeric" {
		t.Errorf("Type(a) = %q, %v, %v, want numeric", typ, ok, err)
	}
	got, err := p.Strings("a")
	if err != nil || !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Strings(a) = %v, %v, want [1]", got, err)
	}
}

func TestNames_PrefixedElementsAndAttributes(t *testing.T) {
	p := loadString(t, `<root xmlns:r="urn:r" xmlns:a="urn:a">
  <r:variable name="hidden" type="numeric"><v>1</v></r:variable>
  <variable a:name="shadow" name="x" type="numeric"><v>2</v></variable>
</root>`)

	names, err := p.Names()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"x"}) {
		t.Errorf("Names() = %v, want [x]", names)
	}

	meta, err := p.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if meta.Root != "root" {
		t.Errorf("Metadata().Root = %q, want root", meta.Root)
	}
}

func TestAbsentVariable(t *testing.T) {
	p := loadString(t, sampleDocument)

	typ, ok, err := p.Type("missing")
	if err != nil || ok || typ != "" {
		t.Errorf("Type(missing) = %q, %v, %v", typ, ok, err)
	}

	rows, cols, err := p.Dimensions("missing")
	if err != nil || rows != 0 || cols != 0 {
		t.Errorf("Dimensions(missing) = %d, %d, %v", rows, cols, err)
	}

	tokens, ok, err := p.ValueTokens("missing")
	if err != nil || ok || tokens != nil {
		t.Errorf("ValueTokens(missing) = %v, %v, %v", tokens, ok, err)
	}

	if _, ok, err := p.Variable("missing"); err != nil || ok {
		t.Errorf("Variable(missing) = %v, %v", ok, err)
	}

	decoders := map[string]func() error{
		"Strings":  func() error { _, err := p.Strings("missing"); return err },
		"Float64s": func() error { _, err := p.Float64s("missing"); return err },
		"Float32s": func() error { _, err := p.Float32s("missing"); return err },
		"Int32s":   func() error { _, err := p.Int32s("missing"); return err },
		"Int64s":   func() error { _, err := p.Int64s("missing"); return err },
		"Bools":    func() error { _, err := p.Bools("missing"); return err },
		"Matrix":   func() error { _, err := p.Matrix("missing"); return err },
		"MatrixOf": func() error { _, err := p.MatrixOf("missing", 0, 0); return err },
	}
	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			err := decode()
			if !errors.Is(err, ErrVariableNotFound) {
				t.Fatalf("%s(missing) error = %v, want ErrVariableNotFound", name, err)
			}
			var varErr *VariableError
			if !errors.As(err, &varErr) || varErr.Name != "missing" {
				t.Errorf("error %v does not name the variable", err)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	p := loadString(t, `<root>
  <variable name="full" type="numeric" n="2" m="3"/>
  <variable name="none" type="numeric"/>
  <variable name="half" type="numeric" n="2"/>
  <variable name="junk" type="numeric" n="two" m="3"/>
  <variable name="negative" type="numeric" n="-1" m="3"/>
  <variable name="padded" type="numeric" n=" 4 " m="1"/>
</root>`)

	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"full", 2, 3},
		{"none", 0, 0},
		{"half", 0, 0},
		{"junk", 0, 0},
		{"negative", 0, 0},
		{"padded", 4, 1},
	}

	for _, tt := range tests {
		rows, cols, err := p.Dimensions(tt.name)
		if err != nil {
			t.Errorf("Dimensions(%q) error: %v", tt.name, err)
			continue
		}
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("Dimensions(%q) = (%d, %d), want (%d, %d)", tt.name, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestValueTokens(t *testing.T) {
	p := loadString(t, `<root>
  <variable name="x" type="character">
    <!-- comment -->
    <v>first</v>
    stray text
    <v><![CDATA[a<b]]></v>
    <v></v>
    <v>  spaced  </v>
  </variable>
</root>`)

	tokens, ok, err := p.ValueTokens("x")
	if err != nil || !ok {
		t.Fatalf("ValueTokens(x) = %v, %v", ok, err)
	}
	want := []string{"first", "a<b", "", "  spaced  "}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("ValueTokens(x) = %q, want %q", tokens, want)
	}

	// Callers may not alter the loaded document through the result.
	tokens[0] = "changed"
	again, _, _ := p.ValueTokens("x")
	if again[0] != "first" {
		t.Error("ValueTokens() exposes internal state")
	}
}

func TestValueTokens_EmptyVariable(t *testing.T) {
	p := loadString(t, `<root><variable name="e" type="numeric"></variable></root>`)

	tokens, ok, err := p.ValueTokens("e")
	if err != nil || !ok || len(tokens) != 0 {
		t.Errorf("ValueTokens(e) = %v, %v, %v", tokens, ok, err)
	}

	f, err := p.Float64s("e")
	if err != nil || len(f) != 0 {
		t.Errorf("Float64s(e) = %v, %v", f, err)
	}
}

func TestStrings(t *testing.T) {
	p := loadString(t, sampleDocument)
	got, err := p.Strings("label")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"alpha", " beta "}; !reflect.DeepEqual(got, want) {
		t.Errorf("Strings(label) = %q, want %q", got, want)
	}
}

func TestBools(t *testing.T) {
	p := loadString(t, sampleDocument)
	got, err := p.Bools("flag")
	if err != nil {
		t.Fatal(err)
	}
	if want := []bool{true, false}; !reflect.DeepEqual(got, want) {
		t.Errorf("Bools(flag) = %v, want %v", got, want)
	}
}

func TestBools_Spellings(t *testing.T) {
	tests := []struct {
		token   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"false", false, false},
		{"TRUE", true, false},
		{"FALSE", false, false},
		{"True", true, false},
		{" true ", true, false},
		{"T", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"NA", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p := loadString(t, fmt.Sprintf(`<root><variable name="b" type="logical"><v>%s</v></variable></root>`, tt.token))
			got, err := p.Bools("b")
			if tt.wantErr {
				if !errors.Is(err, ErrConversion) {
					t.Errorf("Bools(%q) error = %v, want ErrConversion", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Bools(%q) unexpected error: %v", tt.token, err)
			}
			if got[0] != tt.want {
				t.Errorf("Bools(%q) = %v, want %v", tt.token, got[0], tt.want)
			}
		})
	}
}

func TestNumericDecoders(t *testing.T) {
	p := loadString(t, `<root>
  <variable name="d" type="numeric"><v>1.5</v><v> -2e3 </v><v>Inf</v><v>-Inf</v><v>NaN</v><v>1e400</v></variable>
  <variable name="i" type="integer"><v>7</v><v>-2147483648</v><v>+12</v></variable>
  <variable name="big" type="numeric"><v>9007199254740993</v></variable>
</root>`)

	d, err := p.Float64s("d")
	if err != nil {
		t.Fatalf("Float64s(d) failed: %v", err)
	}
	if d[0] != 1.5 || d[1] != -2000 || !math.IsInf(d[2], 1) || !math.IsInf(d[3], -1) || !math.IsNaN(d[4]) || !math.IsInf(d[5], 1) {
		t.Errorf("Float64s(d) = %v", d)
	}

	f, err := p.Float32s("d")
	if err != nil {
		t.Fatalf("Float32s(d) failed: %v", err)
	}
	if f[0] != 1.5 || f[1] != -2000 || !math.IsInf(float64(f[5]), 1) {
		t.Errorf("Float32s(d) = %v", f)
	}

	i32, err := p.Int32s("i")
	if err != nil {
		t.Fatalf("Int32s(i) failed: %v", err)
	}
	if want := []int32{7, math.MinInt32, 12}; !reflect.DeepEqual(i32, want) {
		t.Errorf("Int32s(i) = %v, want %v", i32, want)
	}

	i64, err := p.Int64s("big")
	if err != nil {
		t.Fatalf("Int64s(big) failed: %v", err)
	}
	if i64[0] != 9007199254740993 {
		t.Errorf("Int64s(big) = %v", i64)
	}

	if _, err := p.Int32s("big"); !errors.Is(err, ErrConversion) {
		t.Errorf("Int32s(big) error = %v, want ErrConversion for out of range value", err)
	}
	if _, err := p.Int64s("d"); !errors.Is(err, ErrConversion) {
		t.Errorf("Int64s(d) error = %v, want ErrConversion", err)
	}
}

func TestConversionFailure_IntegerToken(t *testing.T) {
	p := loadString(t, `<root><variable name="n" type="integer"><v>1</v><v>abc</v></variable></root>`)

	_, err := p.Int32s("n")
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("Int32s(n) error = %v, want ErrConversion", err)
	}

	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error %T is not a *ConversionError", err)
	}
	if convErr.Token != "abc" || convErr.Kind != model.KindInt32 || convErr.Variable != "n" || convErr.Index != 1 {
		t.Errorf("ConversionError = %+v", convErr)
	}
	if !strings.Contains(err.Error(), `"abc"`) || !strings.Contains(err.Error(), "int32") {
		t.Errorf("Error() = %q, want token and type named", err.Error())
	}
}

func TestConversionFailure_FirstOffendingToken(t *testing.T) {
	p := loadString(t, `<root><variable name="x" type="numeric"><v>1</v><v>oops</v><v>2</v><v>worse</v><v>bad</v></variable></root>`)

	for i := 0; i < 3; i++ {
		_, err := p.Float64s("x")
		var convErr *ConversionError
		if !errors.As(err, &convErr) {
			t.Fatalf("Float64s(x) error = %v, want *ConversionError", err)
		}
		if convErr.Token != "oops" || convErr.Index != 1 {
			t.Errorf("attempt %d: reported token %q at %d, want \"oops\" at 1", i, convErr.Token, convErr.Index)
		}
	}
}

func TestNAAsNaN(t *testing.T) {
	doc := `<root><variable name="x" type="numeric" n="1" m="2"><v>1</v><v>NA</v></variable></root>`

	if _, err := loadString(t, doc).Float64s("x"); !errors.Is(err, ErrConversion) {
		t.Errorf("Float64s(x) error = %v, want ErrConversion without WithNAAsNaN", err)
	}

	p := loadString(t, doc, WithNAAsNaN())
	got, err := p.Float64s("x")
	if err != nil {
		t.Fatalf("Float64s(x) failed: %v", err)
	}
	if got[0] != 1 || !math.IsNaN(got[1]) {
		t.Errorf("Float64s(x) = %v, want [1 NaN]", got)
	}

	f32, err := p.Float32s("x")
	if err != nil || !math.IsNaN(float64(f32[1])) {
		t.Errorf("Float32s(x) = %v, %v", f32, err)
	}

	m, err := p.Matrix("x")
	if err != nil || !math.IsNaN(m[0][1]) {
		t.Errorf("Matrix(x) = %v, %v", m, err)
	}

	if _, err := p.Int32s("x"); !errors.Is(err, ErrConversion) {
		t.Errorf("Int32s(x) error = %v, NA must not decode as an integer", err)
	}
}

func TestIdempotentQueries(t *testing.T) {
	p := loadString(t, sampleDocument)

	first, err := p.Matrix("v")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Matrix("v")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Matrix(v) changed between calls: %v vs %v", first, second)
	}

	first[0][0] = 100
	third, _ := p.Matrix("v")
	if third[0][0] != 1 {
		t.Error("mutating a result affected later queries")
	}

	s1, _ := p.Strings("label")
	s1[0] = "mutated"
	s2, _ := p.Strings("label")
	if s2[0] != "alpha" {
		t.Error("Strings() exposes internal state")
	}

	v1, _, _ := p.Variable("label")
	v2, _, _ := p.Variable("label")
	if !reflect.DeepEqual(v1, v2) {
		t.Errorf("Variable() changed between calls: %+v vs %+v", v1, v2)
	}
}

func TestVariables(t *testing.T) {
	p := loadString(t, sampleDocument)

	vars, err := p.Variables()
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 4 {
		t.Fatalf("Variables() = %d, want 4", len(vars))
	}

	v := vars[0]
	if v.Name != "v" || v.Type != "numeric" || v.Rows != 2 || v.Cols != 3 || v.Len() != 6 {
		t.Errorf("Variables()[0] = %+v", v)
	}
}
