package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/zurustar/minilang/pkg/value"
)

// ErrInputAborted is returned when the user presses Ctrl-C at a prompt.
var ErrInputAborted = errors.New("input aborted")

// TerminalInput prompts on an interactive terminal with line editing and
// history. Close must be called to restore the terminal mode.
type TerminalInput struct {
	state  *liner.State
	notice io.Writer
}

// TerminalSupported reports whether the current terminal can host a
// TerminalInput.
func TerminalSupported() bool {
	return liner.TerminalSupported()
}

// NewTerminalInput takes over the terminal. Notices about invalid input go
// to notice.
func NewTerminalInput(notice io.Writer) *TerminalInput {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &TerminalInput{state: state, notice: notice}
}

func (in *TerminalInput) Input(t value.SourceType) (value.Value, error) {
	for {
		line, err := in.state.Prompt(Prompt(t) + " ")
		if errors.Is(err, liner.ErrPromptAborted) {
			return value.Value{}, ErrInputAborted
		}
		if errors.Is(err, io.EOF) {
			return value.Value{}, ErrEndOfInput
		}
		if err != nil {
			return value.Value{}, fmt.Errorf("failed to read input: %w", err)
		}

		v, err := ParseValue(t, line)
		if err == nil {
			in.state.AppendHistory(strings.TrimSpace(line))
			return v, nil
		}
		fmt.Fprintf(in.notice, "invalid input: %v\n", err)
	}
}

// Close restores the terminal.
func (in *TerminalInput) Close() error {
	return in.state.Close()
}
