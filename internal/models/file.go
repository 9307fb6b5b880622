package models

// FileRecord описывает загруженный файл, лежащий в каталоге хранения.
type FileRecord struct {
	ID               string `json:"file_id"`
	OriginalFilename string `json:"filename"`
	StoragePath      string `json:"-"`
	Size             int64  `json:"size"`
}
