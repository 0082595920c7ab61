package resthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sir_venger/vidstream/internal/models"
	"github.com/sir_venger/vidstream/pkg/httperrors"
	"github.com/sir_venger/vidstream/pkg/streamproto"
)

const maxTitleBytes = 4 << 10

// upload читает multipart-форму потоково: поле file сразу пишется в хранилище,
// title может прийти до или после файла. Запись попадает в каталог только после
// того, как форма прочитана целиком.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.Log.WithContext(ctx)

	if s.Cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxUploadBytes+formOverheadBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		httperrors.Write(w, models.ErrNoFile)
		return
	}

	var (
		title string
		draft *models.Video
	)

	fail := func(err error) {
		if draft != nil {
			if derr := s.Videos.Discard(ctx, *draft); derr != nil {
				log.Warn("discard upload", "key", draft.Filename, "error", derr)
			}
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: %v", models.ErrTooLarge, err)
		}
		log.Info("upload rejected", "error", err)
		httperrors.Write(w, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(err)
			return
		}

		switch {
		case part.FormName() == streamproto.FormFieldTitle:
			b, err := io.ReadAll(io.LimitReader(part, maxTitleBytes))
			if err != nil {
				fail(err)
				return
			}
			title = string(b)
		case part.FormName() == streamproto.FormFieldFile && draft == nil && part.FileName() != "":
			v, err := s.Videos.Put(ctx, part.FileName(), part)
			if err != nil {
				fail(err)
				return
			}
			draft = &v
		}
		_ = part.Close()
	}

	if draft == nil {
		httperrors.Write(w, models.ErrNoFile)
		return
	}

	video := s.Videos.Register(*draft, title)
	log.Info("video uploaded", "id", video.ID, "key", video.Filename, "title", video.Title)

	writeJSON(w, http.StatusOK, models.UploadResult{
		Message: streamproto.UploadMessage,
		Video:   video,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

