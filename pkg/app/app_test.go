package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zurustar/minilang/pkg/compiler"
	"github.com/zurustar/minilang/pkg/console"
	"github.com/zurustar/minilang/pkg/value"
	"github.com/zurustar/minilang/pkg/vm"
)

func TestRunTypechecker(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(error) bool
	}{
		{"well typed", "void main() { let x = 1; print x; }", func(err error) bool { return err == nil }},
		{"type mismatch", "void main() { print 1 + true; }", value.IsStaticTypeError},
		{"undeclared variable", "void main() { print y; }", value.IsScopeError},
		{"missing main", "void helper() { }", value.IsDispatchError},
		{"syntax error", "void main() { print 1 }", func(err error) bool {
			var ce *compiler.CompileError
			return errors.As(err, &ce)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunTypechecker(tt.source, vm.Options{})
			if !tt.check(err) {
				t.Errorf("unexpected result: %v", err)
			}
		})
	}
}

func TestRunInterpreter(t *testing.T) {
	out := &console.RecordingOutput{}
	err := RunInterpreter("void main() { let x = 1; print x; print x < 2; }", vm.Options{Output: out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(out.Lines(), ","); got != "1,true" {
		t.Errorf("output = %q, want %q", got, "1,true")
	}

	// 型検査をしないので実行時に検出される
	err = RunInterpreter("void main() { print 1 && true; }", vm.Options{Output: out})
	if !value.IsDynamicTypeError(err) {
		t.Errorf("expected DYNAMIC_TYPE_ERROR, got %v", err)
	}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	return path
}

func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range []string{"MINILANG_MODE", "MINILANG_SCOPE", "MINILANG_OPERATORS", "MINILANG_ENCODING", "MINILANG_CONFIG", "LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	var stdout, stderr bytes.Buffer
	err := NewWithIO(strings.NewReader(stdin), &stdout, &stderr).Run(args)
	return stdout.String(), stderr.String(), err
}

func TestApplication_Modes(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.mini", "void main() { print 1 + 2; }")
	bad := writeSource(t, dir, "bad.mini", "void main() { print 1; print 1 + true; }")
	shadow := writeSource(t, dir, "shadow.mini", "void main() { let x = 1; { let x = 2; print x; } print x; }")

	tests := []struct {
		name    string
		args    []string
		stdout  string
		checkFn func(error) bool
	}{
		{"run", []string{good}, "3\n", nil},
		{"check only", []string{"-m", "check", good}, "", nil},
		{"run stops at type error", []string{bad}, "", value.IsStaticTypeError},
		{"interpret skips typecheck", []string{"--mode", "interpret", bad}, "1\n", value.IsDynamicTypeError},
		{"chained allows shadowing", []string{shadow}, "2\n1\n", nil},
		{"flat forbids shadowing", []string{"--scope", "flat", shadow}, "", value.IsScopeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runApp(t, "", append([]string{"-l", "error"}, tt.args...)...)
			if tt.checkFn == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkFn != nil && !tt.checkFn(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if stdout != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.stdout)
			}
		})
	}
}

func TestApplication_Input(t *testing.T) {
	path := writeSource(t, t.TempDir(), "input.mini", "void main() { print input<num> * 2; }")

	stdout, stderr, err := runApp(t, "abc\n5\n", "-l", "error", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "10\n" {
		t.Errorf("stdout = %q, want %q", stdout, "10\n")
	}
	if !strings.Contains(stderr, "Enter a value of type num.") || !strings.Contains(stderr, "invalid input") {
		t.Errorf("stderr = %q, want prompt and retry notice", stderr)
	}
}

func TestApplication_SourceFromStdin(t *testing.T) {
	stdout, _, err := runApp(t, "void main() { print true; }", "-l", "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "true\n" {
		t.Errorf("stdout = %q, want %q", stdout, "true\n")
	}
}

func TestApplication_Directory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.mini", "void main() { print twice(4); }")
	writeSource(t, dir, "lib.mini", "num twice(num n) { return n * 2; }")

	stdout, stderr, err := runApp(t, "", "--log-level", "info", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "8\n" {
		t.Errorf("stdout = %q, want %q", stdout, "8\n")
	}
	if !strings.Contains(stderr, "Scripts loaded") || !strings.Contains(stderr, "count=2") {
		t.Errorf("expected load log in stderr, got %q", stderr)
	}
}

func TestApplication_Errors(t *testing.T) {
	dir := t.TempDir()
	syntax := writeSource(t, dir, "syntax.mini", "void main() {\n  print 1\n}\n")

	_, _, err := runApp(t, "", "-l", "error", syntax)
	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *compiler.CompileError, got %v", err)
	}
	if ce.File != "syntax.mini" || ce.Line != 3 {
		t.Errorf("error at %s:%d, want syntax.mini:3", ce.File, ce.Line)
	}

	if _, _, err := runApp(t, "", "--mode", "compile"); err == nil {
		t.Error("expected error for invalid mode")
	}
	if _, _, err := runApp(t, "", filepath.Join(dir, "missing.mini")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestApplication_Help(t *testing.T) {
	stdout, _, err := runApp(t, "", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("help not printed: %q", stdout)
	}
}

func TestFormatFunctions(t *testing.T) {
	parsed, errs := compiler.Parse("num a(num x) { return x; } void b() { } bool c(num x, bool y) { return y; }")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	if got := formatFunctions(parsed.Funcs, 10); got != "[num a/1, void b/0, bool c/2]" {
		t.Errorf("got %q", got)
	}
	if got := formatFunctions(parsed.Funcs, 1); got != "[num a/1, ... (2 more)]" {
		t.Errorf("got %q", got)
	}
}
