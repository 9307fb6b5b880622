// Package httperrors переводит доменные ошибки в HTTP-статусы.
package httperrors

import (
	"context"
	"errors"
	"net/http"

	"github.com/sir_venger/dropblocks/internal/models"
)

// Status возвращает HTTP-статус для ошибки.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrProtocol):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func Write(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), Status(err))
}
