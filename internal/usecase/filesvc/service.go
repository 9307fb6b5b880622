package filesvc

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/sir_venger/dropblocks/internal/logging"
	"github.com/sir_venger/dropblocks/internal/models"
	"github.com/sir_venger/dropblocks/internal/multipart"
)

type (
	// FileStore хранилище загруженных файлов
	FileStore interface {
		Store(ctx context.Context, originalFilename string, src io.Reader) (models.FileRecord, error)
		Open(id string) (afero.File, models.FileRecord, error)
		Stats() (files int, size int64)
	}

	// Service объединяет операции по загрузке и выдаче файлов.
	Service interface {
		UploadMultipart(ctx context.Context, body io.Reader, contentType string) (models.UploadResult, error)
		UploadWhole(ctx context.Context, body io.Reader, name string) (models.UploadResult, error)
		Open(ctx context.Context, id string) (*Download, error)
		Stats() Stats
	}
)

// Stats — сводка по каталогу хранения.
type Stats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"total_bytes"`
}

type Deps struct {
	Files  FileStore
	Logger *log.Logger
	// BufferSize — ёмкость буфера декодера на один запрос.
	BufferSize int
	// MaxFieldBytes ограничивает размер значения обычного поля формы.
	MaxFieldBytes int64
}

type Files struct {
	Deps
}

// New конструирует сервис загрузки с заданными зависимостями.
func New(deps Deps) *Files {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.BufferSize <= 0 {
		deps.BufferSize = multipart.DefaultBufferSize
	}
	if deps.MaxFieldBytes <= 0 {
		deps.MaxFieldBytes = 1 << 20
	}

	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

// Stats возвращает число файлов и их суммарный размер.
func (s *Files) Stats() Stats {
	files, size := s.Files.Stats()
	return Stats{Files: files, Bytes: size}
}
