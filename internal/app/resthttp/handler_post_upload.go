package resthttp

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sir_venger/dropblocks/internal/models"
	"github.com/sir_venger/dropblocks/internal/multipart"
	"github.com/sir_venger/dropblocks/pkg/httperrors"
	"github.com/sir_venger/dropblocks/pkg/storageproto"
)

// postUpload принимает multipart/form-data либо сырое тело и отвечает ссылкой на скачивание.
func (s *Server) postUpload(w http.ResponseWriter, r *http.Request) {
	var (
		res models.UploadResult
		err error
	)

	ct := r.Header.Get("Content-Type")
	if multipart.IsMultipart(ct) {
		res, err = s.FilesService.UploadMultipart(r.Context(), r.Body, ct)
	} else {
		res, err = s.FilesService.UploadWhole(r.Context(), r.Body, rawUploadName(r, time.Now()))
	}
	if err != nil {
		s.logger.Warn("upload rejected", "id", middleware.GetReqID(r.Context()), "err", err)
		httperrors.Write(w, err)
		return
	}

	link := storageproto.DownloadURL(res.FileID)
	if wantsJSON(r) {
		w.Header().Set("Content-Type", storageproto.ContentTypeJSON)
		_ = json.NewEncoder(w).Encode(storageproto.UploadResponse{
			FileID:   res.FileID,
			Filename: res.Filename,
			Size:     res.Size,
			Download: link,
		})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, link)
}

// rawUploadName выбирает имя файла для не-multipart загрузки: filename из
// Content-Disposition, затем последний сегмент пути после /upload/, затем имя по времени.
func rawUploadName(r *http.Request, now time.Time) string {
	if cd := r.Header.Get(storageproto.HeaderContentDisposition); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return unescape(params["filename"], url.QueryUnescape)
		}
	}

	if name := lastSegment(unescape(chi.URLParam(r, "*"), url.PathUnescape)); name != "" {
		return name
	}

	return fmt.Sprintf("%s%d", storageproto.FallbackNamePrefix, now.UnixMilli())
}

func lastSegment(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}

	return strings.TrimSpace(p)
}

func unescape(s string, fn func(string) (string, error)) string {
	if v, err := fn(s); err == nil {
		return v
	}

	return s
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), storageproto.ContentTypeJSON)
}
