package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// имя поля формы с файлом
const imageField = "image"

// UploadRecipeImage загружает изображение рецепта (multipart/form-data, поле image).
//
// Файл читается потоком: владение рецептом проверяется до чтения тела,
// размер ограничивается лимитом изображений из конфига.
//
// @Summary      Upload recipe image
// @Tags         recipes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true "Recipe ID (UUID)"
// @Param        image formData file   true "JPEG, PNG, GIF or WebP image"
// @Success      200 {object} models.RecipeImageResponse
// @Failure      400 {object} models.ErrorResponse "Not an image or no file"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "Not found"
// @Failure      413 {object} models.ErrorResponse "Image too large"
// @Router       /recipes/{id}/image/ [post]
func (h *Handler) UploadRecipeImage(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var (
		src      io.Reader
		filename string
	)
	part, err := imagePart(r)
	switch {
	case err == nil:
		defer part.Close()
		src, filename = bodyLimitReader{r: part}, part.FileName()
	case isBodyTooLarge(err):
		// лимит исчерпан ещё до поля image; владельца всё равно проверит Attach
		src = bodyLimitReader{err: serr.ErrPayloadTooLarge}
	}

	path, err := h.Svc.Images.Attach(r.Context(), userID, id, filename, src)
	if err != nil {
		h.fail(w, r, "upload image", err)
		return
	}

	WriteJSON(w, http.StatusOK, models.RecipeImageResponse{
		ID:    id.String(),
		Image: absoluteURL(r, h.Svc.Images.URL(path)),
	})
}

var errNoImagePart = errors.New("no image part")

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// bodyLimitReader отдаёт ErrPayloadTooLarge вместо ошибки MaxBytesReader.
type bodyLimitReader struct {
	r   io.Reader
	err error
}

func (b bodyLimitReader) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	n, err := b.r.Read(p)
	if err != nil && isBodyTooLarge(err) {
		err = serr.ErrPayloadTooLarge
	}
	return n, err
}

// imagePart ищет в multipart теле часть с полем image.
func imagePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNoImagePart
			}
			return nil, err
		}
		if part.FormName() == imageField {
			return part, nil
		}
		part.Close()
	}
}
