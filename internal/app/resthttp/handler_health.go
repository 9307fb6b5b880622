package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/sir_venger/dropblocks/pkg/storageproto"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK             bool   `json:"ok"`
	Files          int    `json:"files"`
	TotalBytes     int64  `json:"total_bytes"`
	TotalHuman     string `json:"total_human"`
	ActiveRequests int64  `json:"active_requests"`
	Served         int64  `json:"served_requests"`
}

// health возвращает сводку по хранилищу и загрузке пула обработчиков.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	st := s.FilesService.Stats()

	w.Header().Set("Content-Type", storageproto.ContentTypeJSON)
	err := json.NewEncoder(w).Encode(healthStats{
		OK:             true,
		Files:          st.Files,
		TotalBytes:     st.Bytes,
		TotalHuman:     humanize.Bytes(uint64(st.Bytes)),
		ActiveRequests: s.limiter.active.Load(),
		Served:         s.limiter.total.Load(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
