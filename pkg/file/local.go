package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes attachments below a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates baseDir if needed.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: empty base directory", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Join(ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Save writes data to baseDir/key through a temp file and rename, so readers
// never observe a partial file.
func (s *LocalStorage) Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}

	return &Object{Key: filepath.ToSlash(key), Size: int64(len(data)), ContentType: contentType}, nil
}

// resolve keeps every path inside baseDir.
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	abs, err := filepath.Abs(filepath.Join(s.baseDir, filepath.Clean("/"+key)))
	if err != nil {
		return "", errors.Join(ErrFailedToGetAbsolutePath, err)
	}
	if !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
	}
	return abs, nil
}
