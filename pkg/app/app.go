package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zurustar/minilang/pkg/cli"
	"github.com/zurustar/minilang/pkg/compiler"
	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/console"
	"github.com/zurustar/minilang/pkg/logger"
	"github.com/zurustar/minilang/pkg/script"
	"github.com/zurustar/minilang/pkg/vm"
)

// stdinName 標準入力から読み込んだソースのファイル名
const stdinName = "<stdin>"

// RunTypechecker ソースを解析して型検査する
func RunTypechecker(source string, opts vm.Options) error {
	program, err := build(source, opts)
	if err != nil {
		return err
	}
	return program.Typecheck()
}

// RunInterpreter ソースを解析して型検査せずに実行する
func RunInterpreter(source string, opts vm.Options) error {
	program, err := build(source, opts)
	if err != nil {
		return err
	}
	return program.Interpret()
}

func build(source string, opts vm.Options) (*vm.Program, error) {
	parsed, errs := compiler.Parse(source)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return vm.NewProgram(parsed, opts)
}

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New 標準入出力を使うApplicationを作成
func New() *Application {
	return NewWithIO(os.Stdin, os.Stdout, os.Stderr)
}

// NewWithIO 入出力を指定してApplicationを作成
// stdout にはプログラムの print 出力、stderr にはログと入力プロンプトを書き出す
func NewWithIO(stdin io.Reader, stdout, stderr io.Writer) *Application {
	return &Application{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	config, err := cli.ParseArgs(args)
	if err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	app.config = config

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := logger.InitLogger(app.config.LogLevel, app.stderr); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.log = logger.GetLogger()

	app.log.Info("Application started", "mode", app.config.Mode, "scope", app.config.Scope, "operators", app.config.Operators)

	// 3. ソースの読み込み
	scripts, err := app.loadScripts()
	if err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}

	app.log.Info("Scripts loaded", "count", len(scripts))
	for _, s := range scripts {
		app.log.Info("Script file", "name", s.FileName, "size", s.Size)
		app.log.Debug("Script content preview", "name", s.FileName, "preview", truncate(s.Content, 100))
	}

	// 4. 構文解析
	parsed, errs := compiler.ParseScripts(scripts)
	if len(errs) > 0 {
		for _, e := range errs {
			app.log.Error("Parse failed", "error", e)
		}
		return fmt.Errorf("failed to parse scripts: %w", errors.Join(errs...))
	}

	app.log.Info("Scripts parsed", "function_count", len(parsed.Funcs))
	app.log.Debug("Functions defined", "functions", formatFunctions(parsed.Funcs, 10))

	// 5. 型検査と実行
	if err := app.execute(parsed); err != nil {
		app.log.Error("Execution failed", "error", err)
		return err
	}

	app.log.Info("Application terminated normally")
	return nil
}

// execute モードに応じて型検査・実行する
func (app *Application) execute(parsed *ast.Program) error {
	opts, closeInput, err := app.options()
	if err != nil {
		return err
	}
	defer closeInput()

	program, err := vm.NewProgram(parsed, opts)
	if err != nil {
		return fmt.Errorf("failed to build program: %w", err)
	}

	if app.config.Mode != cli.ModeInterpret {
		if err := program.Typecheck(); err != nil {
			return fmt.Errorf("failed to typecheck program: %w", err)
		}
		app.log.Info("Program typechecked")
	}

	if app.config.Mode == cli.ModeCheck {
		return nil
	}

	if err := program.Interpret(); err != nil {
		return fmt.Errorf("failed to interpret program: %w", err)
	}
	app.log.Info("Program interpreted")
	return nil
}

// options 設定から vm.Options を組み立てる
// 戻り値の関数で入力元を閉じる
func (app *Application) options() (vm.Options, func(), error) {
	strategy, err := vm.ParseStrategy(app.config.Scope)
	if err != nil {
		return vm.Options{}, nil, err
	}
	rules, err := vm.ParseRules(app.config.Operators)
	if err != nil {
		return vm.Options{}, nil, err
	}

	opts := vm.Options{
		Strategy: strategy,
		Rules:    rules,
		Output:   console.NewWriterOutput(app.stdout),
	}

	// ソースを標準入力から読んだ場合は端末入力を使わない
	if app.config.SourcePath != "" && app.interactive() {
		app.log.Debug("Using interactive terminal input")
		terminal := console.NewTerminalInput(app.stderr)
		opts.Input = terminal
		return opts, func() { terminal.Close() }, nil
	}

	opts.Input = console.NewReaderInput(app.stdin, app.stderr)
	return opts, func() {}, nil
}

// interactive 標準入力が端末かどうか
func (app *Application) interactive() bool {
	f, ok := app.stdin.(*os.File)
	if !ok || !console.TerminalSupported() {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// loadScripts スクリプトファイルを読み込む
// パスが指定されていない場合は標準入力から読み込む
func (app *Application) loadScripts() ([]script.Script, error) {
	encoding, err := script.ParseEncoding(app.config.Encoding)
	if err != nil {
		return nil, err
	}

	if app.config.SourcePath != "" {
		return script.Load(app.config.SourcePath, encoding)
	}

	data, err := io.ReadAll(app.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	content, err := script.Decode(data, encoding)
	if err != nil {
		return nil, err
	}
	return []script.Script{{FileName: stdinName, Content: content, Size: int64(len(data))}}, nil
}

// truncate 文字列を指定した長さで切り詰める
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// formatFunctions 関数一覧のプレビューを生成（デバッグ用）
func formatFunctions(funcs []*ast.Func, maxCount int) string {
	count := min(len(funcs), maxCount)

	names := make([]string, 0, count)
	for _, f := range funcs[:count] {
		names = append(names, fmt.Sprintf("%s %s/%d", f.ReturnType, f.Name, len(f.Params)))
	}

	result := strings.Join(names, ", ")
	if len(funcs) > maxCount {
		result += fmt.Sprintf(", ... (%d more)", len(funcs)-maxCount)
	}
	return "[" + result + "]"
}
