package filesvc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sir_venger/dropblocks/internal/models"
	"github.com/sir_venger/dropblocks/internal/multipart"
)

// UploadMultipart разбирает multipart/form-data тело потоково и сохраняет первую файловую
// часть. Поля формы до неё читаются и попадают в результат; всё после файла не читается.
func (s *Files) UploadMultipart(ctx context.Context, body io.Reader, contentType string) (models.UploadResult, error) {
	dec, err := multipart.NewDecoder(body, contentType, multipart.WithBufferSize(s.BufferSize))
	if err != nil {
		return models.UploadResult{}, err
	}

	fields := map[string]string{}
	for {
		if err = ctx.Err(); err != nil {
			return models.UploadResult{}, err
		}

		part, err := dec.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.UploadResult{}, err
		}

		if !part.IsFile {
			value, err := s.readField(part)
			if err != nil {
				return models.UploadResult{}, err
			}
			fields[part.Name] = value
			s.Logger.Debug("form field", "name", part.Name, "value", value)
			continue
		}

		rec, err := s.Files.Store(ctx, part.Filename, part)
		if err != nil {
			s.Logger.Warn("multipart upload failed", "filename", part.Filename, "err", err)
			return models.UploadResult{}, err
		}

		return models.UploadResult{
			FileID:   rec.ID,
			Filename: rec.OriginalFilename,
			Size:     rec.Size,
			Fields:   fields,
		}, nil
	}

	return models.UploadResult{}, fmt.Errorf("%w: no file part in request", models.ErrProtocol)
}

// readField читает значение поля формы не длиннее MaxFieldBytes.
func (s *Files) readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, s.MaxFieldBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > s.MaxFieldBytes {
		return "", fmt.Errorf("%w: field %q exceeds %d bytes", models.ErrProtocol, part.Name, s.MaxFieldBytes)
	}

	return string(b), nil
}
