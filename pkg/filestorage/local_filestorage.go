package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface - контракт внешнего файлового хранилища.
// Save возвращает стабильный путь и размер сохранённого файла в байтах.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, size int64, err error)
	Delete(filePath string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, int64, error) {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)

	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", 0, err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		return "", 0, err
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), written, nil
}

func (s *LocalFileStorage) Delete(filePath string) error {
	cleaned := strings.TrimPrefix(filepath.ToSlash(filePath), "/")
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleaned))

	// Не даем выйти за пределы basePath.
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absPath, absBase) {
		return fmt.Errorf("недопустимый путь файла: %s", filePath)
	}

	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("не удалось удалить файл: %w", err)
	}
	return nil
}
