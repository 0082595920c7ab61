package videosvc

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sir_venger/vidstream/internal/models"
	"github.com/sir_venger/vidstream/internal/streaming"
)

type (
	// Catalog хранит список загруженных роликов, живущий в памяти процесса.
	Catalog interface {
		NextID(now time.Time) int64
		Append(v models.Video)
		List() []models.Video
		Len() int
	}

	// Storage хранит содержимое роликов.
	Storage interface {
		streaming.Store
		Save(ctx context.Context, key string, r io.Reader, limit int64) (int64, error)
		Remove(ctx context.Context, key string) error
		Usage(ctx context.Context) (int64, error)
		Sweep(ttl time.Duration) (int, error)
	}

	// Service объединяет операции по загрузке и выдаче роликов.
	Service interface {
		Upload(ctx context.Context, req models.UploadRequest) (models.Video, error)
		Put(ctx context.Context, fileName string, body io.Reader) (models.Video, error)
		Register(v models.Video, title string) models.Video
		Discard(ctx context.Context, v models.Video) error
		List() []models.Video
		Stream(w http.ResponseWriter, r *http.Request, key string) error
		Stats(ctx context.Context) (models.Stats, error)
		Collect(ctx context.Context) (int, error)
	}
)

type Deps struct {
	Catalog        Catalog
	Storage        Storage
	Responder      *streaming.Responder
	MaxUploadBytes int64
	GCTTL          time.Duration
	Now            func() time.Time
}

type Videos struct {
	Deps
}

// New конструирует сервис с заданными зависимостями.
func New(deps Deps) *Videos {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Responder == nil {
		deps.Responder = streaming.NewResponder(deps.Storage, "", 0)
	}
	return &Videos{Deps: deps}
}

var _ Service = (*Videos)(nil)

// List возвращает все записи в порядке загрузки.
func (s *Videos) List() []models.Video {
	return s.Catalog.List()
}

// Stats отдаёт число роликов и занятый объём.
func (s *Videos) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.Storage.Usage(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.Stats{Videos: s.Catalog.Len(), TotalBytes: total}, nil
}

// Collect однократно удаляет временные файлы брошенных загрузок.
func (s *Videos) Collect(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.Storage.Sweep(s.GCTTL)
}
