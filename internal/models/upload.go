package models

import "io"

// UploadRequest описывает входящую загрузку: поток данных и имя, присланное клиентом.
type UploadRequest struct {
	Title    string
	FileName string
	Body     io.Reader
}

// UploadResult возвращается после успешной загрузки.
type UploadResult struct {
	Message string `json:"message"`
	Video   Video  `json:"video"`
}
