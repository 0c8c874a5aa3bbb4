package console

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/minilang/pkg/value"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ     value.SourceType
		text    string
		want    value.Value
		wantErr bool
	}{
		{value.NumType, "42", value.Num(42), false},
		{value.NumType, "  -1.5\n", value.Num(-1.5), false},
		{value.NumType, "1e3", value.Num(1000), false},
		{value.NumType, "abc", value.Value{}, true},
		{value.NumType, "", value.Value{}, true},
		{value.NumType, "true", value.Value{}, true},
		{value.BoolType, "true", value.Bool(true), false},
		{value.BoolType, " false ", value.Bool(false), false},
		{value.BoolType, "True", value.Value{}, true},
		{value.BoolType, "1", value.Value{}, true},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.typ, tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseValue(%s, %q) error = %v, wantErr %v", tt.typ, tt.text, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseValue(%s, %q) = %v, want %v", tt.typ, tt.text, got, tt.want)
		}
	}
}

func TestReaderInput_RetriesUntilValid(t *testing.T) {
	var prompts bytes.Buffer
	in := NewReaderInput(strings.NewReader("abc\n\n12\nyes\nfalse\n"), &prompts)

	n, err := in.Input(value.NumType)
	if err != nil {
		t.Fatalf("Input(num): %v", err)
	}
	if !n.Equal(value.Num(12)) {
		t.Errorf("Input(num) = %v, want 12", n)
	}

	b, err := in.Input(value.BoolType)
	if err != nil {
		t.Fatalf("Input(bool): %v", err)
	}
	if !b.Equal(value.Bool(false)) {
		t.Errorf("Input(bool) = %v, want false", b)
	}

	text := prompts.String()
	if got := strings.Count(text, "Enter a value of type num."); got != 3 {
		t.Errorf("num prompt shown %d times, want 3:\n%s", got, text)
	}
	if got := strings.Count(text, "Enter a value of type bool."); got != 2 {
		t.Errorf("bool prompt shown %d times, want 2:\n%s", got, text)
	}
	if got := strings.Count(text, "invalid input"); got != 3 {
		t.Errorf("invalid notice shown %d times, want 3", got)
	}
}

func TestReaderInput_EndOfInput(t *testing.T) {
	in := NewReaderInput(strings.NewReader("nope\n"), nil)
	if _, err := in.Input(value.NumType); !errors.Is(err, ErrEndOfInput) {
		t.Errorf("expected ErrEndOfInput, got %v", err)
	}
}

func TestWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriterOutput(&buf)

	for _, v := range []value.Value{value.Num(1), value.Num(0.5), value.Bool(true), value.Num(math.Inf(-1))} {
		if err := out.PrintLine(v); err != nil {
			t.Fatal(err)
		}
	}

	want := "1\n0.5\ntrue\n-Infinity\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRecordingOutput(t *testing.T) {
	out := &RecordingOutput{}
	_ = out.PrintLine(value.Num(2))
	_ = out.PrintLine(value.Bool(false))

	lines := out.Lines()
	if len(lines) != 2 || lines[0] != "2" || lines[1] != "false" {
		t.Errorf("Lines() = %v", lines)
	}
	lines[0] = "changed"
	if out.Lines()[0] != "2" {
		t.Error("Lines() exposed internal state")
	}
}

func TestPropertyPrintedNumbersParseBack(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a printed number is accepted by input<num>", prop.ForAll(
		func(f float64) bool {
			var buf bytes.Buffer
			_ = NewWriterOutput(&buf).PrintLine(value.Num(f))

			v, err := NewReaderInput(&buf, nil).Input(value.NumType)
			return err == nil && v.Equal(value.Num(f))
		},
		gen.Float64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
