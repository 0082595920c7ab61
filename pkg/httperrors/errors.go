package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/vidstream/internal/models"
	"github.com/sir_venger/vidstream/internal/streaming"
)

// Write переводит ошибку сервиса в HTTP-ответ с текстовым телом.
func Write(w http.ResponseWriter, err error) {
	var rangeErr *models.RangeError

	switch {
	case errors.As(err, &rangeErr):
		w.Header().Set("Content-Range", streaming.UnsatisfiedRange(rangeErr.Size))
		http.Error(w, http.StatusText(http.StatusRequestedRangeNotSatisfiable), http.StatusRequestedRangeNotSatisfiable)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNoFile):
		http.Error(w, "No file uploaded", http.StatusBadRequest)
	case errors.Is(err, models.ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Status возвращает код, который Write выставит для err.
func Status(err error) int {
	var rangeErr *models.RangeError

	switch {
	case errors.As(err, &rangeErr):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
