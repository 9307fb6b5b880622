package filesvc

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sir_venger/dropblocks/internal/models"
)

const defaultContentType = "application/octet-stream"

// Download — открытый файл, готовый к отдаче клиенту. Body закрывает вызывающий.
type Download struct {
	Record      models.FileRecord
	ContentType string
	Body        io.ReadSeekCloser
}

// Open находит файл по id и определяет его Content-Type: сначала по расширению,
// затем по содержимому.
func (s *Files) Open(ctx context.Context, id string) (*Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, rec, err := s.Files.Open(id)
	if err != nil {
		return nil, err
	}

	ct, err := detectContentType(rec.OriginalFilename, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Download{Record: rec, ContentType: ct, Body: f}, nil
}

func detectContentType(name string, f io.ReadSeeker) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct, nil
	}

	mt, err := mimetype.DetectReader(f)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		return "", seekErr
	}
	if err != nil || mt == nil {
		return defaultContentType, nil
	}

	return mt.String(), nil
}
