// Package script はソースファイルの検出と読み込み、文字コード変換を行う
package script

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zurustar/minilang/pkg/fileutil"
)

// Extension はスクリプトファイルの拡張子（大文字小文字は区別しない）
const Extension = ".mini"

// Encoding はソースファイルの文字コード
type Encoding string

const (
	EncodingAuto     Encoding = "auto"
	EncodingUTF8     Encoding = "utf-8"
	EncodingShiftJIS Encoding = "shift-jis"
)

// ParseEncoding は文字コード名を解釈する
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "shift-jis", "shift_jis", "sjis":
		return EncodingShiftJIS, nil
	}
	return "", fmt.Errorf("unknown encoding: %s (expected auto, utf-8 or shift-jis)", s)
}

// Script はスクリプトファイルを表す
type Script struct {
	FileName string // ベースパスからの相対パス
	Content  string // UTF-8に変換された内容
	Size     int64  // 変換前のバイト数
}

// Loader はスクリプトファイルの読み込みを行う
type Loader struct {
	fs       fileutil.FileSystem
	encoding Encoding
}

// NewLoader Loaderを作成
func NewLoader(fsys fileutil.FileSystem, encoding Encoding) *Loader {
	return &Loader{fs: fsys, encoding: encoding}
}

// Load はファイルまたはディレクトリを読み込む。
// ディレクトリの場合は配下のすべての .mini ファイルを1つのプログラムとして扱う
func Load(sourcePath string, encoding Encoding) ([]Script, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", sourcePath, err)
	}

	if info.IsDir() {
		return NewLoader(fileutil.NewRealFS(sourcePath), encoding).LoadAllScripts()
	}

	loader := NewLoader(fileutil.NewRealFS(filepath.Dir(sourcePath)), encoding)
	s, err := loader.LoadScript(filepath.Base(sourcePath))
	if err != nil {
		return nil, err
	}
	return []Script{*s}, nil
}

// LoadAllScripts すべての .mini ファイルを読み込む
func (l *Loader) LoadAllScripts() ([]Script, error) {
	scriptFiles, err := l.findScriptFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to find script files: %w", err)
	}

	if len(scriptFiles) == 0 {
		return nil, fmt.Errorf("no script files found in %s", l.fs.BasePath())
	}

	var scripts []Script
	for _, filePath := range scriptFiles {
		script, err := l.LoadScript(filePath)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, *script)
	}

	return scripts, nil
}

// findScriptFiles .mini ファイルを検出（case-insensitive、辞書順）
func (l *Loader) findScriptFiles() ([]string, error) {
	var scriptFiles []string

	err := l.fs.WalkDir(".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// 拡張子をcase-insensitiveで比較
		if strings.EqualFold(path.Ext(p), Extension) {
			scriptFiles = append(scriptFiles, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scriptFiles, nil
}

// LoadScript 単一のスクリプトファイルを読み込む
func (l *Loader) LoadScript(name string) (*Script, error) {
	data, err := l.fs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load script %s: %w", name, err)
	}

	content, err := Decode(data, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding of %s: %w", name, err)
	}

	return &Script{
		FileName: name,
		Content:  content,
		Size:     int64(len(data)),
	}, nil
}

// Decode はバイト列を指定の文字コードから UTF-8 文字列に変換する。
// auto の場合、BOM 付きまたは正しい UTF-8 ならそのまま、それ以外は Shift-JIS とみなす
func Decode(data []byte, encoding Encoding) (string, error) {
	switch encoding {
	case EncodingUTF8:
		return decodeUTF8(data)
	case EncodingShiftJIS:
		return convertShiftJISToUTF8(data)
	case EncodingAuto, "":
		if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) || utf8.Valid(data) {
			return decodeUTF8(data)
		}
		return convertShiftJISToUTF8(data)
	}
	return "", fmt.Errorf("unknown encoding: %s", encoding)
}

// decodeUTF8 UTF-8として正しいか検証し、BOMを除去する
func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8 input")
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-8: %w", err)
	}
	return string(out), nil
}

// convertShiftJISToUTF8 Shift-JISからUTF-8に変換
func convertShiftJISToUTF8(data []byte) (string, error) {
	decoder := japanese.ShiftJIS.NewDecoder()
	reader := transform.NewReader(bytes.NewReader(data), decoder)

	utf8Data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode Shift-JIS: %w", err)
	}

	return string(utf8Data), nil
}
