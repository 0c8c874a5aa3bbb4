package compiler

import (
	"fmt"
	"strings"
)

// CompileError represents a syntax error with location information and,
// when the source is available, a rendering of the surrounding lines.
type CompileError struct {
	// Phase is "lexer" for illegal characters and "parser" otherwise.
	Phase string

	// File is the script the error was found in; empty for inline source.
	File string

	Message string

	// Line and Column are 1-indexed.
	Line   int
	Column int

	// Context holds up to 2 lines before and after the error line,
	// with a pointer (^) under the error column.
	Context string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	where := fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	if e.File != "" {
		where = e.File + ": " + where
	}
	if e.Context != "" {
		return fmt.Sprintf("%s error at %s: %s\n%s", e.Phase, where, e.Message, e.Context)
	}
	return fmt.Sprintf("%s error at %s: %s", e.Phase, where, e.Message)
}

// NewParserErrorWithContext creates a parser phase CompileError with source context.
func NewParserErrorWithContext(message string, line, column int, source string) *CompileError {
	return &CompileError{
		Phase:   "parser",
		Message: message,
		Line:    line,
		Column:  column,
		Context: GenerateErrorContext(source, line, column),
	}
}

// NewLexerErrorWithContext creates a lexer phase CompileError with source context.
func NewLexerErrorWithContext(message string, line, column int, source string) *CompileError {
	e := NewParserErrorWithContext(message, line, column, source)
	e.Phase = "lexer"
	return e
}

// GenerateErrorContext generates source code context around an error location.
// It includes 2 lines before and 2 lines after the error line, with line numbers
// and a pointer (^) indicating the error column.
//
// Example output:
//
//	  2 | let x = 5;
//	  3 | let y = 10;
//	> 4 | let z = ;
//	    |         ^
//	  5 | print x;
//	  6 | print y;
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		lineContent := strings.TrimRight(lines[i], "\r")

		if lineNum != line {
			fmt.Fprintf(&buf, "  %*d | %s\n", lineNumWidth, lineNum, lineContent)
			continue
		}

		fmt.Fprintf(&buf, "> %*d | %s\n", lineNumWidth, lineNum, lineContent)
		// "> " + line number + " | "
		pointerIndent := 2 + lineNumWidth + 3
		if column > 1 {
			pointerIndent += column - 1
		}
		buf.WriteString(strings.Repeat(" ", pointerIndent) + "^\n")
	}

	return buf.String()
}
