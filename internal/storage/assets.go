package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AssetStore 保存图片等附件，返回本地路径
type AssetStore interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

// FileAssets 把附件写到目录下，文件名随机、保留原扩展名
type FileAssets struct {
	Dir string
}

func NewFileAssets(dir string) (*FileAssets, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &FileAssets{Dir: dir}, nil
}

func (f *FileAssets) Save(_ context.Context, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("save asset: empty data")
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	// 扩展名来自外部 URL，只接受简单的字母数字后缀
	if len(ext) > 6 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}

	name := uuid.NewString() + ext
	p := filepath.Join(f.Dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}
