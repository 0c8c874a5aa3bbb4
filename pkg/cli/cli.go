package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zurustar/minilang/pkg/logger"
	"github.com/zurustar/minilang/pkg/script"
	"github.com/zurustar/minilang/pkg/vm"
)

// 実行モード
const (
	ModeCheck     = "check"     // 型検査のみ
	ModeRun       = "run"       // 型検査に成功したら実行
	ModeInterpret = "interpret" // 型検査せずに実行
)

// Config はコマンドライン引数・環境変数・設定ファイルから解析された設定を保持する
type Config struct {
	SourcePath string // ソースファイルまたはディレクトリのパス
	Mode       string // check, run, interpret
	Scope      string // flat, chained
	Operators  string // strict, overload
	Encoding   string // auto, utf-8, shift-jis
	LogLevel   string // debug, info, warn, error
	ConfigFile string // YAML設定ファイルのパス
	ShowHelp   bool   // ヘルプ表示フラグ
}

// fileConfig は YAML 設定ファイルの内容
type fileConfig struct {
	Source    string `yaml:"source"`
	Mode      string `yaml:"mode"`
	Scope     string `yaml:"scope"`
	Operators string `yaml:"operators"`
	Encoding  string `yaml:"encoding"`
	LogLevel  string `yaml:"log_level"`
}

// DefaultConfig デフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Mode:      ModeRun,
		Scope:     "chained",
		Operators: "strict",
		Encoding:  string(script.EncodingAuto),
		LogLevel:  "info",
	}
}

// ParseArgs コマンドライン引数を解析してConfigを返す
// 優先順位: コマンドラインフラグ > 環境変数 > 設定ファイル > デフォルト
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("minilang", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	flags := &Config{}
	fs.StringVar(&flags.Mode, "mode", "", "実行モード（check, run, interpret）")
	fs.StringVar(&flags.Mode, "m", "", "実行モード（短縮形）")
	fs.StringVar(&flags.Scope, "scope", "", "スコープ戦略（flat, chained）")
	fs.StringVar(&flags.Operators, "operators", "", "演算子規則（strict, overload）")
	fs.StringVar(&flags.Encoding, "encoding", "", "文字コード（auto, utf-8, shift-jis）")
	fs.StringVar(&flags.LogLevel, "log-level", "", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&flags.LogLevel, "l", "", "ログレベル（短縮形）")
	fs.StringVar(&flags.ConfigFile, "config", "", "YAML設定ファイル")
	fs.StringVar(&flags.ConfigFile, "c", "", "YAML設定ファイル（短縮形）")
	fs.BoolVar(&flags.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&flags.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.ShowHelp = flags.ShowHelp

	// 設定ファイル（フラグ > 環境変数）
	config.ConfigFile = firstNonEmpty(flags.ConfigFile, os.Getenv("MINILANG_CONFIG"))
	if config.ConfigFile != "" {
		if err := applyConfigFile(config, config.ConfigFile); err != nil {
			return nil, err
		}
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	applyEnv(config)

	// コマンドラインフラグ
	overlay(config, flags)

	// 位置引数（ソースのパス）
	if fs.NArg() > 0 {
		config.SourcePath = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("too many arguments: %s", strings.Join(fs.Args()[1:], " "))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate 設定値を検証する
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(c.Mode)
	switch c.Mode {
	case ModeCheck, ModeRun, ModeInterpret:
	default:
		return fmt.Errorf("invalid mode: %s (must be check, run, or interpret)", c.Mode)
	}
	if _, err := vm.ParseStrategy(c.Scope); err != nil {
		return err
	}
	if _, err := vm.ParseRules(c.Operators); err != nil {
		return err
	}
	if _, err := script.ParseEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w (must be debug, info, warn, or error)", err)
	}
	return nil
}

// applyConfigFile YAML設定ファイルを読み込む（未知のキーはエラー）
func applyConfigFile(config *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// ソースのパスは設定ファイルからの相対パス
	if fc.Source != "" && !filepath.IsAbs(fc.Source) {
		fc.Source = filepath.Join(filepath.Dir(path), fc.Source)
	}

	overlay(config, &Config{
		SourcePath: fc.Source,
		Mode:       fc.Mode,
		Scope:      fc.Scope,
		Operators:  fc.Operators,
		Encoding:   fc.Encoding,
		LogLevel:   fc.LogLevel,
	})
	return nil
}

// applyEnv 環境変数からの設定
func applyEnv(config *Config) {
	overlay(config, &Config{
		Mode:      os.Getenv("MINILANG_MODE"),
		Scope:     os.Getenv("MINILANG_SCOPE"),
		Operators: os.Getenv("MINILANG_OPERATORS"),
		Encoding:  os.Getenv("MINILANG_ENCODING"),
		LogLevel:  strings.ToLower(os.Getenv("LOG_LEVEL")),
	})
}

// overlay 空でない値だけを上書きする
func overlay(dst, src *Config) {
	dst.SourcePath = firstNonEmpty(src.SourcePath, dst.SourcePath)
	dst.Mode = firstNonEmpty(src.Mode, dst.Mode)
	dst.Scope = firstNonEmpty(src.Scope, dst.Scope)
	dst.Operators = firstNonEmpty(src.Operators, dst.Operators)
	dst.Encoding = firstNonEmpty(src.Encoding, dst.Encoding)
	dst.LogLevel = firstNonEmpty(src.LogLevel, dst.LogLevel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string
	terminated := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			terminated = true
			break
		}

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// 次の引数が値である可能性をチェック（-m check のような場合）
			// ブール型フラグと --flag=value 形式は次の引数を取らない
			if i+1 < len(args) && !isBoolFlag(arg) && !strings.Contains(arg, "=") {
				i++
				flags = append(flags, args[i])
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	if terminated {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}

func isBoolFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "-help"
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `minilang - statically typed toy language interpreter

Usage:
  minilang [options] <source>

Arguments:
  source        .mini ファイル、または .mini ファイルを含むディレクトリ
                ディレクトリを指定した場合、すべての .mini ファイルを1つのプログラムとして扱う
                省略した場合は標準入力からソースを読み込む

Options:
  -m, --mode <mode>           check（型検査のみ）, run（型検査後に実行）, interpret（型検査なしで実行）（デフォルト: run）
  --scope <strategy>          flat（シャドーイング禁止）, chained（シャドーイング許可）（デフォルト: chained）
  --operators <rules>         strict（&& と || は bool のみ）, overload（数値のビット演算も許可）（デフォルト: strict）
  --encoding <name>           auto, utf-8, shift-jis（デフォルト: auto）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  -c, --config <file>         YAML設定ファイル
  -h, --help                  このヘルプを表示

Environment Variables:
  MINILANG_MODE=<mode>        実行モード
  MINILANG_SCOPE=<strategy>   スコープ戦略
  MINILANG_OPERATORS=<rules>  演算子規則
  MINILANG_ENCODING=<name>    文字コード
  MINILANG_CONFIG=<file>      YAML設定ファイル
  LOG_LEVEL=<level>           ログレベル

Config File (YAML):
  source: main.mini
  mode: run
  scope: flat
  operators: strict
  encoding: auto
  log_level: info

Examples:
  minilang hello.mini                 型検査して実行
  minilang -m check hello.mini        型検査のみ
  minilang --scope flat ./project     ディレクトリ内の全ファイルを flat スコープで実行
  minilang --log-level debug x.mini   デバッグログを有効化
`)
}
