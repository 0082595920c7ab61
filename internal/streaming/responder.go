package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sir_venger/vidstream/internal/models"
)

const (
	DefaultContentType = "video/mp4"
	DefaultChunkSize   = 64 << 10
)

// Store отдаёт Responder размер и содержимое объектов.
type Store interface {
	// Size возвращает размер объекта или models.ErrNotFound.
	Size(ctx context.Context, key string) (int64, error)
	// OpenRange открывает ровно length байт объекта начиная со start.
	OpenRange(ctx context.Context, key string, start, length int64) (io.ReadCloser, error)
}

// Responder отдаёт объекты целиком (200) или одним диапазоном (206).
type Responder struct {
	Store       Store
	ContentType string
	ChunkSize   int
}

// NewResponder конструирует Responder; пустые параметры заменяются значениями по умолчанию.
func NewResponder(store Store, contentType string, chunkSize int) *Responder {
	if contentType == "" {
		contentType = DefaultContentType
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Responder{Store: store, ContentType: contentType, ChunkSize: chunkSize}
}

// Respond обслуживает один запрос на чтение объекта key.
//
// Ошибки до отправки заголовков (models.ErrNotFound, *models.RangeError) возвращаются
// без записи в w: ответ формирует вызывающий. Ошибки после отправки заголовков
// оборачивают models.ErrStreamAborted: ответ уже начат, и соединение нужно оборвать.
func (s *Responder) Respond(w http.ResponseWriter, r *http.Request, key string) error {
	ctx := r.Context()

	size, err := s.Store.Size(ctx, key)
	if err != nil {
		return err
	}

	window := ByteRange{Start: 0, End: size - 1, Size: size}
	status := http.StatusOK

	if header := r.Header.Get("Range"); header != "" {
		window, err = Parse(header, size)
		if err != nil {
			return &models.RangeError{Size: size, Err: err}
		}
		status = http.StatusPartialContent
	}

	h := w.Header()
	h.Set("Content-Type", s.ContentType)
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Length", strconv.FormatInt(window.Len(), 10))
	if status == http.StatusPartialContent {
		h.Set("Content-Range", window.ContentRange())
	}
	w.WriteHeader(status)

	if r.Method == http.MethodHead || window.Len() == 0 {
		return nil
	}

	src, err := s.Store.OpenRange(ctx, key, window.Start, window.Len())
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", models.ErrStreamAborted, key, err)
	}
	defer src.Close()

	n, err := copyWindow(ctx, w, src, window.Len(), s.ChunkSize)
	if err != nil {
		return fmt.Errorf("%w: %s sent %d of %d bytes: %w", models.ErrStreamAborted, key, n, window.Len(), err)
	}

	return nil
}

// copyWindow копирует ровно n байт из src в dst кусками не больше chunk
// (DefaultChunkSize, если chunk <= 0).
// Копирование прекращается при первой ошибке записи или отмене контекста.
func copyWindow(ctx context.Context, dst io.Writer, src io.Reader, n int64, chunk int) (int64, error) {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	buf := make([]byte, min(int64(chunk), n))
	var written int64

	for written < n {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		p := buf
		if rem := n - written; rem < int64(len(p)) {
			p = p[:rem]
		}

		nr, rerr := src.Read(p)
		if nr > 0 {
			nw, werr := dst.Write(p[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if written < n {
					return written, io.ErrUnexpectedEOF
				}
				break
			}
			return written, rerr
		}
	}

	return written, nil
}
