package resthttp

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sir_venger/vidstream/internal/models"
	"github.com/sir_venger/vidstream/pkg/httperrors"
)

func (s *Server) streamVideo(w http.ResponseWriter, r *http.Request) {
	key, err := streamKey(r)
	if err != nil {
		httperrors.Write(w, models.ErrNotFound)
		return
	}

	err = s.Videos.Stream(w, r, key)
	switch {
	case err == nil:
		return
	case errors.Is(err, models.ErrStreamAborted):
		// Заголовки уже отправлены: корректного ответа не будет, рвём соединение.
		log := s.Log.WithContext(r.Context()).WithKey(key)
		if errors.Is(err, context.Canceled) {
			log.Info("client went away", "error", err)
		} else {
			log.Error("stream aborted", "error", err)
		}
		panic(http.ErrAbortHandler)
	default:
		s.Log.WithContext(r.Context()).WithKey(key).Debug("stream refused", "status", httperrors.Status(err), "error", err)
		httperrors.Write(w, err)
	}
}

// streamKey достаёт ключ из пути. chi маршрутизирует по RawPath, если он задан,
// и тогда параметр приходит экранированным.
func streamKey(r *http.Request) (string, error) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key, nil
	}
	return url.PathUnescape(key)
}
