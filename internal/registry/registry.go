// Package registry хранит загруженные файлы в плоском каталоге под именами
// "<id>_<исходное имя>" и держит в памяти индекс id → путь/исходное имя.
// Имена файлов на диске — единственный источник истины: индекс восстанавливается
// из них при старте (Recover).
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/sir_venger/dropblocks/internal/logging"
	"github.com/sir_venger/dropblocks/internal/models"
	"github.com/sir_venger/dropblocks/internal/sanitize"
)

// separator отделяет id от исходного имени в имени файла на диске.
const separator = "_"

// Registry — индекс загруженных файлов, общий для всех запросов процесса.
type Registry struct {
	fs     afero.Fs
	dir    string
	logger *log.Logger
	newID  func() string

	mu    sync.RWMutex
	paths map[string]string
	names map[string]string
}

// Option настраивает Registry.
type Option func(*Registry)

// WithLogger задаёт логгер реестра.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов (по умолчанию UUID v4).
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New создаёт пустой реестр поверх каталога dir файловой системы fs.
func New(fs afero.Fs, dir string, opts ...Option) *Registry {
	r := &Registry{
		fs:     fs,
		dir:    filepath.Clean(dir),
		logger: logging.Discard(),
		newID:  uuid.NewString,
		paths:  map[string]string{},
		names:  map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Dir возвращает каталог хранения.
func (r *Registry) Dir() string {
	return r.dir
}

// Store копирует src в новый файл каталога и регистрирует его под свежим id.
// На диске лежит очищенное имя, в индексе — исходное имя ровно в том виде, в каком
// его прислали. Пустой поток считается неудачной загрузкой: файл удаляется,
// возвращается ErrStorage.
func (r *Registry) Store(ctx context.Context, originalFilename string, src io.Reader) (models.FileRecord, error) {
	diskName := sanitize.Filename(originalFilename)
	if diskName == "" {
		return models.FileRecord{}, fmt.Errorf("%w: missing filename", models.ErrProtocol)
	}

	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return models.FileRecord{}, fmt.Errorf("%w: create storage directory: %v", models.ErrStorage, err)
	}

	id := r.freshID()
	path := filepath.Join(r.dir, id+separator+diskName)
	if filepath.Dir(path) != r.dir {
		return models.FileRecord{}, fmt.Errorf("%w: path %q escapes storage directory", models.ErrStorage, path)
	}

	f, err := r.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("%w: create file: %v", models.ErrStorage, err)
	}

	n, err := io.Copy(f, contextReader{ctx: ctx, r: src})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		r.discard(path)
		if errors.Is(err, models.ErrProtocol) {
			return models.FileRecord{}, err
		}
		return models.FileRecord{}, fmt.Errorf("%w: write %s: %w", models.ErrStorage, diskName, err)
	}
	if n == 0 {
		r.discard(path)
		return models.FileRecord{}, fmt.Errorf("%w: 0 bytes copied", models.ErrStorage)
	}

	r.mu.Lock()
	r.paths[id] = path
	r.names[id] = originalFilename
	r.mu.Unlock()

	r.logger.Info("file stored", "id", id, "filename", originalFilename, "size", humanize.Bytes(uint64(n)))

	return models.FileRecord{ID: id, OriginalFilename: originalFilename, StoragePath: path, Size: n}, nil
}

// Resolve возвращает запись по id или ErrNotFound.
func (r *Registry) Resolve(id string) (models.FileRecord, error) {
	r.mu.RLock()
	path, ok := r.paths[id]
	name := r.names[id]
	r.mu.RUnlock()

	if !ok {
		return models.FileRecord{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	return models.FileRecord{ID: id, OriginalFilename: name, StoragePath: path}, nil
}

// Open находит запись и открывает файл на чтение. Если файл пропал с диска,
// возвращается ErrNotFound; индекс при этом не меняется.
func (r *Registry) Open(id string) (afero.File, models.FileRecord, error) {
	rec, err := r.Resolve(id)
	if err != nil {
		return nil, models.FileRecord{}, err
	}

	f, err := r.fs.Open(rec.StoragePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.FileRecord{}, fmt.Errorf("%w: %s: backing file is missing", models.ErrNotFound, id)
		}
		return nil, models.FileRecord{}, fmt.Errorf("%w: open %s: %v", models.ErrStorage, id, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, models.FileRecord{}, fmt.Errorf("%w: stat %s: %v", models.ErrStorage, id, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, models.FileRecord{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	rec.Size = info.Size()

	return f, rec, nil
}

// Stats возвращает число известных файлов и их суммарный размер на диске.
func (r *Registry) Stats() (files int, size int64) {
	r.mu.RLock()
	paths := make([]string, 0, len(r.paths))
	for _, p := range r.paths {
		paths = append(paths, p)
	}
	r.mu.RUnlock()

	for _, p := range paths {
		info, err := r.fs.Stat(p)
		if err != nil {
			continue
		}
		files++
		size += info.Size()
	}

	return files, size
}

// freshID выдаёт id, ещё не встречавшийся в индексе.
func (r *Registry) freshID() string {
	for {
		id := r.newID()
		r.mu.RLock()
		_, taken := r.paths[id]
		r.mu.RUnlock()
		if !taken {
			return id
		}
	}
}

// discard удаляет недописанный файл, чтобы он не попал в индекс при следующем старте.
func (r *Registry) discard(path string) {
	if err := r.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("failed to remove incomplete file", "path", path, "err", err)
	}
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
