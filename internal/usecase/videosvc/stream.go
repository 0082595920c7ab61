package videosvc

import "net/http"

// Stream отдаёт сохранённый ролик целиком или одним диапазоном байт.
func (s *Videos) Stream(w http.ResponseWriter, r *http.Request, key string) error {
	return s.Responder.Respond(w, r, key)
}
