package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidKey はオブジェクトキーがストレージのルート外を指す場合に返される。
var ErrInvalidKey = errors.New("invalid object key")

// Storage は画像オブジェクトの保存先を抽象化する。
type Storage interface {
	// Put はrの内容をkeyに保存し、公開URLを返す。
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// Delete はkeyのオブジェクトを削除する。存在しない場合はエラーにしない。
	Delete(ctx context.Context, key string) error
}

// LocalStorage はローカルディレクトリに保存し、publicBaseURL配下で公開するStorage実装。
type LocalStorage struct {
	dir           string
	publicBaseURL string
}

// NewLocalStorage は新しいLocalStorageを生成する。
func NewLocalStorage(dir, publicBaseURL string) *LocalStorage {
	return &LocalStorage{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Dir は保存先ディレクトリを返す。
func (s *LocalStorage) Dir() string {
	return s.dir
}

var _ Storage = (*LocalStorage)(nil)

// Put はファイルを書き込む。書き込み途中で失敗した場合は作りかけのファイルを削除する。
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close file: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete はファイルを削除する。
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// path はkeyをルートディレクトリ配下のパスに変換する。
// ".."を含むキーは拒否する。
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || strings.Contains(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, clean), nil
}
