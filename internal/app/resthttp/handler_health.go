package resthttp

import (
	"net/http"

	"github.com/sir_venger/vidstream/pkg/httperrors"
)

// healthStats отдаётся в ответе /health.
type healthStats struct {
	OK         bool  `json:"ok"`
	Videos     int   `json:"videos"`
	TotalBytes int64 `json:"total_bytes"`
}

// health возвращает число роликов и объём каталога загрузок.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Videos.Stats(r.Context())
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, healthStats{
		OK:         true,
		Videos:     stats.Videos,
		TotalBytes: stats.TotalBytes,
	})
}
