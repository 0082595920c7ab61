package resthttp

import (
	"net/http"

	"github.com/sir_venger/vidstream/pkg/httperrors"
)

// gcOnce вручную запускает удаление брошенных временных файлов.
func (s *Server) gcOnce(w http.ResponseWriter, r *http.Request) {
	removed, err := s.Videos.Collect(r.Context())
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	s.Log.WithContext(r.Context()).Info("manual gc", "removed", removed)
	w.WriteHeader(http.StatusNoContent)
}
