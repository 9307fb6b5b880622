package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/sir_venger/dropblocks/internal/models"
)

// Recover перестраивает индекс по содержимому каталога (без рекурсии). Имя
// "<id>_<имя>" даёт id и исходное имя; файлы без разделителя (или с '_' в самом
// начале) получают свежий id, а исходным именем становится имя файла целиком.
// Вызывается один раз до приёма запросов.
func (r *Registry) Recover() (int, error) {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("storage directory does not exist yet", "dir", r.dir)
			return 0, nil
		}
		return 0, fmt.Errorf("%w: scan %s: %v", models.ErrStorage, r.dir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		loaded int
		total  int64
	)
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}

		fileName := entry.Name()
		id, original := splitStoredName(fileName)
		if id == "" {
			id = r.unusedIDLocked()
		} else if _, taken := r.paths[id]; taken {
			r.logger.Warn("duplicate id on disk, assigning a new one", "file", fileName, "id", id)
			id = r.unusedIDLocked()
		}

		r.paths[id] = filepath.Join(r.dir, fileName)
		r.names[id] = original
		loaded++
		total += entry.Size()

		r.logger.Debug("loaded file", "file", fileName, "id", id)
	}

	r.logger.Info("storage recovered", "dir", r.dir, "files", loaded, "size", humanize.Bytes(uint64(total)))

	return loaded, nil
}

// splitStoredName делит имя по первому '_'. Пустой id означает, что разделителя нет.
func splitStoredName(name string) (id, original string) {
	idx := strings.Index(name, separator)
	if idx <= 0 || idx == len(name)-1 {
		return "", name
	}

	return name[:idx], name[idx+1:]
}

// unusedIDLocked — как freshID, но под уже взятой блокировкой.
func (r *Registry) unusedIDLocked() string {
	for {
		id := r.newID()
		if _, taken := r.paths[id]; !taken {
			return id
		}
	}
}
