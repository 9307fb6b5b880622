package multipart

import (
	"fmt"
	"mime"
	"strings"

	"github.com/sir_venger/dropblocks/internal/models"
)

const (
	mediaTypeFormData = "multipart/form-data"
	// maxBoundaryLen — предел длины boundary из RFC 2046.
	maxBoundaryLen = 70
)

// IsMultipart сообщает, что Content-Type объявляет multipart/form-data.
func IsMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), mediaTypeFormData)
}

// BoundaryFromContentType извлекает boundary из заголовка Content-Type.
func BoundaryFromContentType(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: invalid content type: %v", models.ErrProtocol, err)
	}
	if mediaType != mediaTypeFormData {
		return "", fmt.Errorf("%w: unexpected content type %q", models.ErrProtocol, mediaType)
	}

	token := strings.TrimSpace(params["boundary"])
	if token == "" {
		return "", fmt.Errorf("%w: missing boundary in content type", models.ErrProtocol)
	}
	if len(token) > maxBoundaryLen {
		return "", fmt.Errorf("%w: boundary longer than %d characters", models.ErrProtocol, maxBoundaryLen)
	}

	return token, nil
}
