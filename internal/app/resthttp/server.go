package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sir_venger/dropblocks/internal/config"
	"github.com/sir_venger/dropblocks/internal/logging"
	"github.com/sir_venger/dropblocks/internal/usecase/filesvc"
	"github.com/sir_venger/dropblocks/pkg/storageproto"
)

type Server struct {
	FilesService filesvc.Service
	Cfg          *config.Config

	logger  *log.Logger
	limiter *concurrencyLimiter
}

// NewServer конструктор
func NewServer(cfg *config.Config, files filesvc.Service, logger *log.Logger) (http.Handler, *Server) {
	if logger == nil {
		logger = logging.Discard()
	}

	srv := &Server{
		FilesService: files,
		Cfg:          cfg,
		logger:       logger,
		limiter:      newConcurrencyLimiter(cfg.Workers),
	}

	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(srv.logRequests)
	rtr.Use(middleware.Recoverer)
	rtr.MethodNotAllowed(srv.methodNotAllowed)

	// Загрузка и скачивание идут через пул обработчиков фиксированного размера.
	rtr.Group(func(r chi.Router) {
		r.Use(srv.limiter.middleware)
		r.Post(storageproto.UploadPath, srv.postUpload)
		r.Post(storageproto.UploadNamedPath, srv.postUpload)
		r.Get(storageproto.DownloadPath, srv.getDownload)
	})

	rtr.Get(storageproto.HealthPath, srv.health)
	rtr.Get(storageproto.ConfigPath, srv.adminConfig)

	return rtr, srv
}

func (s *Server) adminConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", storageproto.ContentTypeJSON)
	_ = json.NewEncoder(w).Encode(s.Cfg)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, r.Method+" is not allowed on "+r.URL.Path, http.StatusMethodNotAllowed)
}
