package resthttp

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5/middleware"
)

// concurrencyLimiter ограничивает число одновременно обрабатываемых загрузок и скачиваний.
// Запрос ждёт свободный слот либо отмены своего контекста.
type concurrencyLimiter struct {
	slots  chan struct{}
	active atomic.Int64
	total  atomic.Int64
}

func newConcurrencyLimiter(n int) *concurrencyLimiter {
	if n <= 0 {
		n = 1
	}

	return &concurrencyLimiter{slots: make(chan struct{}, n)}
}

func (cl *concurrencyLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case cl.slots <- struct{}{}:
		case <-r.Context().Done():
			http.Error(w, "request canceled while waiting for a worker", http.StatusServiceUnavailable)
			return
		}

		cl.active.Add(1)
		cl.total.Add(1)
		defer func() {
			cl.active.Add(-1)
			<-cl.slots
		}()

		next.ServeHTTP(w, r)
	})
}

// logRequests пишет по строке на запрос: метод, путь, статус, объём ответа и длительность.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		logf("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"sent", humanize.Bytes(uint64(ww.BytesWritten())),
			"took", time.Since(start),
		)
	})
}
