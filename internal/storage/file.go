package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend 每个 key 一个文件，写入先落临时文件再 rename，读者不会看到半截数据
type FileBackend struct {
	dir string
}

var fileNameReplacer = strings.NewReplacer(":", "_", "/", "_", "\\", "_", "..", "_")

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, fileNameReplacer.Replace(key)+".tmp")
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, bool) {
	bs, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return bs, true
}

func (f *FileBackend) Put(_ context.Context, key string, payload []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".write-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}
