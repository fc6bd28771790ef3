package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/mirror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/gin-gonic/gin"
)

const (
	FieldImages = "images"

	MaxFiles    = 10
	MaxFileSize = 10 << 20
)

// Images reads every file posted under field. A request without a
// multipart body or without the field yields no images.
func Images(c *gin.Context, field string) ([]model.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: invalid multipart form: %v", apperror.ErrValidation, err)
	}

	headers := form.File[field]
	if len(headers) > MaxFiles {
		return nil, fmt.Errorf("%w: at most %d images per upload", apperror.ErrValidation, MaxFiles)
	}

	images := make([]model.ImageUpload, 0, len(headers))
	for _, h := range headers {
		if !mirror.IsImageFile(h.Filename) {
			return nil, fmt.Errorf("%w: %q is not a supported image", apperror.ErrValidation, h.Filename)
		}
		if h.Size > MaxFileSize {
			return nil, fmt.Errorf("%w: %q exceeds %d bytes", apperror.ErrValidation, h.Filename, MaxFileSize)
		}

		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", h.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", h.Filename, err)
		}
		images = append(images, model.ImageUpload{Filename: h.Filename, Data: data})
	}
	return images, nil
}
