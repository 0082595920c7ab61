package resthttp

import "net/http"

// listVideos отдаёт каталог в порядке загрузки.
func (s *Server) listVideos(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Videos.List())
}
