// Package streamproto описывает HTTP-протокол видеосервиса: пути, поля формы и заголовки,
// общие для сервера и клиента.
package streamproto

// Параметры REST-протокола.
const (
	PathUpload = "/upload"
	PathVideos = "/videos"
	PathStream = "/stream/"
	PathHealth = "/health"

	FormFieldFile  = "file"
	FormFieldTitle = "title"

	HeaderRange        = "Range"
	HeaderContentRange = "Content-Range"
	HeaderAcceptRanges = "Accept-Ranges"
	HeaderRequestID    = "X-Request-ID"

	UploadMessage = "Upload successful"
)
