// Package storage — файловое хранилище загруженных изображений рецептов.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var ErrInvalidPath = errors.New("invalid storage path")

// ImageStorage хранит файлы под корневым каталогом (recipes.media_root)
// и строит для них публичные URL (recipes.media_url).
//
// Пути, с которыми работает хранилище, относительные и со слэшами:
// uploads/recipe/<uuid>.jpg. Именно они лежат в колонке recipes.image.
type ImageStorage struct {
	root     string
	mediaURL string
	mu       sync.RWMutex
}

// NewImageStorage создаёт хранилище и каталог root, если его нет.
func NewImageStorage(root, mediaURL string) (*ImageStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return &ImageStorage{root: root, mediaURL: mediaURL}, nil
}

// Root — каталог на диске (для раздачи файлов через http.FileServer).
func (s *ImageStorage) Root() string {
	return s.root
}

// Save записывает файл. Промежуточные каталоги создаются.
func (s *ImageStorage) Save(name string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}
	p, err := s.abs(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}

// Delete удаляет файл. Отсутствующий файл ошибкой не считается.
func (s *ImageStorage) Delete(name string) error {
	p, err := s.abs(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Exists проверяет наличие файла.
func (s *ImageStorage) Exists(name string) bool {
	p, err := s.abs(name)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(p)
	return err == nil
}

// URL — публичный адрес файла.
func (s *ImageStorage) URL(name string) string {
	return s.mediaURL + strings.TrimPrefix(path.Clean("/"+name), "/")
}

// abs переводит относительный путь хранилища в путь на диске.
// Пути, выходящие за пределы root, отклоняются.
func (s *ImageStorage) abs(name string) (string, error) {
	local := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return filepath.Join(s.root, local), nil
}
