// Package fileutil provides case-insensitive access to script files on a
// real directory or any fs.FS.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// FileSystem は実ディレクトリと fs.FS を統一的に扱うインターフェース
type FileSystem interface {
	// ReadFile はファイルの内容を読み込む（大文字小文字を無視）
	ReadFile(name string) ([]byte, error)
	// WalkDir はルートから再帰的に走査する
	WalkDir(root string, fn fs.WalkDirFunc) error
	// BasePath はベースパスを返す
	BasePath() string
}

// DirFS は fs.FS をベースパス付きで包む FileSystem
type DirFS struct {
	fsys     fs.FS
	basePath string
}

// NewRealFS は実ディレクトリ用の FileSystem を作成する
func NewRealFS(basePath string) *DirFS {
	return &DirFS{fsys: os.DirFS(basePath), basePath: basePath}
}

// NewFS は任意の fs.FS (embed.FS, fstest.MapFS など) 用の FileSystem を作成する
func NewFS(fsys fs.FS, basePath string) *DirFS {
	return &DirFS{fsys: fsys, basePath: basePath}
}

func (d *DirFS) ReadFile(name string) ([]byte, error) {
	actual, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(d.fsys, actual)
}

func (d *DirFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(d.fsys, cleanName(root), fn)
}

func (d *DirFS) BasePath() string {
	return d.basePath
}

// resolve は直接アクセスを試み、失敗したら大文字小文字を無視して検索する
func (d *DirFS) resolve(name string) (string, error) {
	clean := cleanName(name)
	if _, err := fs.Stat(d.fsys, clean); err == nil {
		return clean, nil
	}
	return FindFileCaseInsensitiveFS(d.fsys, path.Dir(clean), path.Base(clean))
}

// cleanName は先頭の "/" や "\" を除去し、fs.FS 形式のパスにする
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

// FindFileCaseInsensitiveFS searches dir in fsys for filename, ignoring case.
// It returns the slash-separated path of the first match.
func FindFileCaseInsensitiveFS(fsys fs.FS, dir, filename string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(entry.Name(), filename) {
			return path.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, fs.ErrNotExist)
}
