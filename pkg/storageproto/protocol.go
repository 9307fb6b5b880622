// Package storageproto описывает HTTP-протокол сервиса загрузки: маршруты и заголовки.
package storageproto

// Маршруты сервиса.
const (
	UploadPath         = "/upload"
	// UploadNamedPath принимает имя файла последним сегментом пути любой глубины.
	UploadNamedPath    = "/upload/*"
	DownloadPathPrefix = "/download/"
	DownloadPath       = "/download/{id}"
	HealthPath         = "/health"
	ConfigPath         = "/admin/config"
)

// Заголовки и параметры ответа.
const (
	HeaderContentDisposition = "Content-Disposition"
	ContentTypeJSON          = "application/json"
	// FallbackNamePrefix — имя файла без Content-Disposition и без имени в пути.
	FallbackNamePrefix = "uploaded_file_"
)

// DownloadURL возвращает относительную ссылку на скачивание файла id.
func DownloadURL(id string) string {
	return DownloadPathPrefix + id
}

// UploadResponse — JSON-ответ на загрузку при Accept: application/json.
type UploadResponse struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Download string `json:"download"`
}
