package compiler

import (
	"strings"
	"testing"
)

func TestCompileError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompileError
		contains []string
	}{
		{
			name: "lexer error without context",
			err: &CompileError{
				Phase:   "lexer",
				Message: "illegal character '@'",
				Line:    5,
				Column:  10,
			},
			contains: []string{"lexer error", "line 5", "column 10", "illegal character '@'"},
		},
		{
			name: "parser error with file",
			err: &CompileError{
				Phase:   "parser",
				File:    "main.mini",
				Message: "expected ;, got \"}\"",
				Line:    12,
				Column:  25,
			},
			contains: []string{"parser error at main.mini: line 12", "column 25", "expected ;"},
		},
		{
			name: "error with context",
			err: &CompileError{
				Phase:   "parser",
				Message: "unexpected token",
				Line:    3,
				Column:  5,
				Context: "> 3 | let x = ;\n      ^",
			},
			contains: []string{"parser error", "line 3", "column 5", "unexpected token", "> 3 |"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("Error() = %q, want to contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestGenerateErrorContext(t *testing.T) {
	source := "line1\nline2\nline3\nline4\nline5\nline6\nline7"

	tests := []struct {
		name     string
		line     int
		column   int
		expected string
	}{
		{
			name:   "middle line",
			line:   4,
			column: 3,
			expected: "  2 | line2\n" +
				"  3 | line3\n" +
				"> 4 | line4\n" +
				"        ^\n" +
				"  5 | line5\n" +
				"  6 | line6\n",
		},
		{
			name:   "first line",
			line:   1,
			column: 1,
			expected: "> 1 | line1\n" +
				"      ^\n" +
				"  2 | line2\n" +
				"  3 | line3\n",
		},
		{
			name:   "last line",
			line:   7,
			column: 5,
			expected: "  5 | line5\n" +
				"  6 | line6\n" +
				"> 7 | line7\n" +
				"          ^\n",
		},
		{
			name:     "out of range",
			line:     10,
			column:   1,
			expected: "",
		},
		{
			name:     "zero line",
			line:     0,
			column:   1,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateErrorContext(source, tt.line, tt.column)
			if got != tt.expected {
				t.Errorf("GenerateErrorContext() =\n%s\nwant:\n%s", got, tt.expected)
			}
		})
	}
}

func TestGenerateErrorContext_WideLineNumbers(t *testing.T) {
	source := strings.Repeat("x\n", 11) + "let = 1;"
	got := GenerateErrorContext(source, 12, 5)

	if !strings.Contains(got, "> 12 | let = 1;") {
		t.Errorf("expected error line marker, got:\n%s", got)
	}
	if !strings.Contains(got, "  10 | x") {
		t.Errorf("expected padded context line, got:\n%s", got)
	}
	// "> " + "12" + " | " is 7 columns, then 4 spaces before the pointer.
	if !strings.Contains(got, "\n"+strings.Repeat(" ", 11)+"^\n") {
		t.Errorf("pointer misplaced:\n%s", got)
	}
}

func TestNewErrorsWithContext(t *testing.T) {
	source := "void main() {\n  print 1 $ 2;\n}"

	le := NewLexerErrorWithContext("illegal character \"$\"", 2, 11, source)
	if le.Phase != "lexer" {
		t.Errorf("Phase = %q, want lexer", le.Phase)
	}
	if !strings.Contains(le.Context, "> 2 |   print 1 $ 2;") {
		t.Errorf("Context = %q", le.Context)
	}

	pe := NewParserErrorWithContext("expected ;", 2, 11, source)
	if pe.Phase != "parser" || pe.Line != 2 || pe.Column != 11 {
		t.Errorf("unexpected parser error %+v", pe)
	}
}
