package filesvc

import (
	"context"
	"io"

	"github.com/sir_venger/dropblocks/internal/models"
)

// UploadWhole сохраняет всё тело запроса как один файл с именем name.
func (s *Files) UploadWhole(ctx context.Context, body io.Reader, name string) (models.UploadResult, error) {
	rec, err := s.Files.Store(ctx, name, body)
	if err != nil {
		s.Logger.Warn("raw upload failed", "filename", name, "err", err)
		return models.UploadResult{}, err
	}

	return models.UploadResult{
		FileID:   rec.ID,
		Filename: rec.OriginalFilename,
		Size:     rec.Size,
	}, nil
}
