// Package console connects a running program to text streams: print
// statements write lines to an io.Writer, input<T> reads typed values from
// an io.Reader or an interactive terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zurustar/minilang/pkg/value"
)

// Prompt returns the text shown before reading a value of type t.
func Prompt(t value.SourceType) string {
	return fmt.Sprintf("Enter a value of type %s.", t)
}

// ParseValue parses user text as a value of type t. Numbers accept
// anything strconv.ParseFloat accepts after trimming; booleans accept
// exactly "true" or "false".
func ParseValue(t value.SourceType, text string) (value.Value, error) {
	text = strings.TrimSpace(text)
	switch t {
	case value.NumType:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("%q is not a number", text)
		}
		return value.Num(f), nil
	case value.BoolType:
		switch text {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		}
		return value.Value{}, fmt.Errorf("%q is not a boolean", text)
	}
	return value.Value{}, fmt.Errorf("unknown type %s", t)
}

// WriterOutput writes each printed value as one line.
type WriterOutput struct {
	w io.Writer
}

// NewWriterOutput creates a WriterOutput.
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{w: w}
}

func (o *WriterOutput) PrintLine(v value.Value) error {
	_, err := fmt.Fprintln(o.w, v.String())
	return err
}

// RecordingOutput keeps printed lines in memory.
type RecordingOutput struct {
	lines []string
}

func (o *RecordingOutput) PrintLine(v value.Value) error {
	o.lines = append(o.lines, v.String())
	return nil
}

// Lines returns the printed lines in order.
func (o *RecordingOutput) Lines() []string {
	return append([]string(nil), o.lines...)
}

// ErrEndOfInput is returned when input ends before a valid value was read.
var ErrEndOfInput = errors.New("end of input while reading a value")

// ReaderInput reads one value per line, writing the prompt (and a notice
// after invalid text) to prompt. It retries until a valid line arrives.
type ReaderInput struct {
	scanner *bufio.Scanner
	prompt  io.Writer
}

// NewReaderInput creates a ReaderInput. prompt may be nil.
func NewReaderInput(r io.Reader, prompt io.Writer) *ReaderInput {
	if prompt == nil {
		prompt = io.Discard
	}
	return &ReaderInput{scanner: bufio.NewScanner(r), prompt: prompt}
}

func (in *ReaderInput) Input(t value.SourceType) (value.Value, error) {
	for {
		fmt.Fprintln(in.prompt, Prompt(t))
		if !in.scanner.Scan() {
			if err := in.scanner.Err(); err != nil {
				return value.Value{}, fmt.Errorf("failed to read input: %w", err)
			}
			return value.Value{}, ErrEndOfInput
		}

		v, err := ParseValue(t, in.scanner.Text())
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(in.prompt, "invalid input: %v\n", err)
	}
}
