package models

// Video описывает запись каталога о загруженном ролике. Создаётся один раз и не меняется.
type Video struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// Stats агрегирует состояние каталога и хранилища для /health.
type Stats struct {
	Videos     int   `json:"videos"`
	TotalBytes int64 `json:"total_bytes"`
}
