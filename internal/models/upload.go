package models

// UploadResult возвращается после успешной загрузки и содержит ключевые метаданные.
type UploadResult struct {
	FileID   string
	Filename string
	Size     int64
	// Fields — значения обычных полей формы, встреченных до файловой части.
	Fields map[string]string
}
