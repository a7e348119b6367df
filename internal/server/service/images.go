package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"slices"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/metrics"
	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// Каталог изображений рецептов внутри хранилища.
const imageDir = "uploads/recipe"

// Допустимые расширения по формату; первое используется по умолчанию.
var formatExts = map[string][]string{
	"jpeg": {".jpg", ".jpeg"},
	"png":  {".png"},
	"gif":  {".gif"},
	"webp": {".webp"},
}

// ImagesService — загрузка изображения рецепта.
type ImagesService struct {
	recipes  RecipesRepo
	store    ImageStore
	maxBytes int64
	formats  []string
}

func NewImagesService(recipes RecipesRepo, store ImageStore, cfg config.RecipesConfig) *ImagesService {
	return &ImagesService{
		recipes:  recipes,
		store:    store,
		maxBytes: cfg.MaxImageBytes,
		formats:  cfg.AllowedImageFormats,
	}
}

// URL — публичный адрес сохранённого изображения.
func (s *ImagesService) URL(path string) string {
	return s.store.URL(path)
}

// Attach сохраняет изображение и привязывает его к рецепту владельца.
//
// Порядок: проверка владельца (ErrNotFound), чтение не больше maxBytes
// (ErrPayloadTooLarge, в том числе если её вернул сам r), полное
// декодирование (ErrInvalidImage), запись файла, обновление рецепта.
// Если рецепт обновить не удалось, новый файл удаляется; после успеха
// удаляется предыдущий файл.
//
// Возвращает относительный путь нового файла.
func (s *ImagesService) Attach(ctx context.Context, owner, recipeID uuid.UUID, filename string, r io.Reader) (string, error) {
	if err := s.recipes.Exists(ctx, owner, recipeID); err != nil {
		return "", err
	}
	if r == nil {
		return "", serr.NewValidationError("image", "no file was submitted")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		if errors.Is(err, serr.ErrPayloadTooLarge) {
			metrics.ImageUpload("rejected")
			return "", serr.ErrPayloadTooLarge
		}
		return "", serr.ErrInternal
	}
	if int64(len(data)) > s.maxBytes {
		metrics.ImageUpload("rejected")
		return "", serr.ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return "", serr.NewValidationError("image", "the submitted file is empty")
	}

	format, err := s.decode(data)
	if err != nil {
		metrics.ImageUpload("rejected")
		return "", err
	}

	name := imageDir + "/" + uuid.NewString() + imageExt(filename, format)
	if err := s.store.Save(name, data); err != nil {
		metrics.ImageUpload("error")
		return "", serr.ErrInternal
	}

	prev, err := s.recipes.SetImage(ctx, owner, recipeID, name)
	if err != nil {
		_ = s.store.Delete(name)
		metrics.ImageUpload("error")
		return "", err
	}
	if prev != nil && *prev != "" && *prev != name {
		_ = s.store.Delete(*prev)
	}

	metrics.ImageUpload("ok")
	return name, nil
}

// decode полностью декодирует изображение и возвращает его формат.
func (s *ImagesService) decode(data []byte) (string, error) {
	invalid := func() error {
		return fmt.Errorf("%w: %w", serr.ErrInvalidImage, serr.NewValidationError("image",
			"upload a valid image. The file you uploaded was either not an image or a corrupted image"))
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", invalid()
	}
	if len(s.formats) > 0 && !slices.Contains(s.formats, format) {
		return "", invalid()
	}
	return format, nil
}

// imageExt — расширение исходного имени в нижнем регистре, если оно
// соответствует декодированному формату; иначе расширение формата.
// Файлы раздаются через /media, поэтому .html и подобные не пропускаем.
func imageExt(filename, format string) string {
	exts := formatExts[format]
	if ext := strings.ToLower(filepath.Ext(filepath.Base(filename))); slices.Contains(exts, ext) {
		return ext
	}
	if len(exts) == 0 {
		return ""
	}
	return exts[0]
}
