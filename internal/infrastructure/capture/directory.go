// Package capture читает кадры из каталога с изображениями.
package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"gaze-tracker/internal/domain/port"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// DirectorySource отдаёт изображения каталога по одному в порядке имён файлов.
type DirectorySource struct {
	mu    sync.Mutex
	files []string
	next  int
}

// NewDirectorySource собирает список изображений каталога dir.
func NewDirectorySource(dir string) (*DirectorySource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return &DirectorySource{files: files}, nil
}

// Len возвращает число кадров в каталоге.
func (s *DirectorySource) Len() int {
	return len(s.files)
}

// Read декодирует следующий файл. Ошибка декодирования пропускает только этот файл.
func (s *DirectorySource) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.next >= len(s.files) {
		s.mu.Unlock()
		return nil, port.ErrEndOfStream
	}
	path := s.files[s.next]
	s.next++
	s.mu.Unlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (s *DirectorySource) Close() error {
	return nil
}

// Проверка реализации интерфейса
var _ port.FrameSource = (*DirectorySource)(nil)
