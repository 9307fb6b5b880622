package models

import "errors"

var (
	// ErrProtocol — тело запроса не является корректным multipart (или в нём нет нужных данных).
	ErrProtocol = errors.New("malformed upload")
	// ErrStorage — файл не удалось записать на диск.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound — неизвестный идентификатор или исчезнувший файл.
	ErrNotFound = errors.New("file not found")
)
