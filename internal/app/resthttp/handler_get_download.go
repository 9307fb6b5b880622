package resthttp

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sir_venger/dropblocks/internal/sanitize"
	"github.com/sir_venger/dropblocks/pkg/httperrors"
	"github.com/sir_venger/dropblocks/pkg/storageproto"
)

// getDownload отдаёт сохранённый файл как вложение.
func (s *Server) getDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dl, err := s.FilesService.Open(r.Context(), id)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	defer dl.Body.Close()

	h := w.Header()
	h.Set("Content-Type", dl.ContentType)
	h.Set("Content-Length", strconv.FormatInt(dl.Record.Size, 10))
	h.Set(storageproto.HeaderContentDisposition,
		`attachment; filename="`+sanitize.ContentDispositionFilename(dl.Record.OriginalFilename)+`"`)
	w.WriteHeader(http.StatusOK)

	// Заголовки уже отправлены: обрыв можно только залогировать.
	if _, err = io.Copy(w, dl.Body); err != nil {
		s.logger.Warn("download interrupted", "id", middleware.GetReqID(r.Context()), "file_id", id, "err", err)
	}
}
