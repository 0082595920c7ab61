package resthttp

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sir_venger/vidstream/internal/config"
	"github.com/sir_venger/vidstream/internal/logger"
	"github.com/sir_venger/vidstream/internal/repo"
	"github.com/sir_venger/vidstream/internal/storage"
	"github.com/sir_venger/vidstream/internal/streaming"
	"github.com/sir_venger/vidstream/internal/usecase/videosvc"
	"github.com/sir_venger/vidstream/pkg/streamproto"
)

// multipart-обвязка формы поверх самого файла.
const formOverheadBytes = 1 << 20

type Server struct {
	Videos videosvc.Service
	Disk   *storage.Disk
	Cfg    *config.Config
	Log    *logger.Logger
}

// NewServer конструктор
func NewServer(cfg *config.Config, log *logger.Logger) (http.Handler, *Server, error) {
	if log == nil {
		log = logger.Discard()
	}

	disk, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		return nil, nil, err
	}

	srv := &Server{
		Videos: buildVideoService(cfg, disk),
		Disk:   disk,
		Cfg:    cfg,
		Log:    log,
	}

	return srv.routes(), srv, nil
}

func buildVideoService(cfg *config.Config, disk *storage.Disk) videosvc.Service {
	return videosvc.New(videosvc.Deps{
		Catalog:        repo.NewCatalog(),
		Storage:        disk,
		Responder:      streaming.NewResponder(disk, cfg.ContentType, cfg.ChunkSize),
		MaxUploadBytes: cfg.MaxUploadBytes,
		GCTTL:          cfg.GCTTL,
	})
}

func (s *Server) routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(s.requestID, s.accessLog, middleware.Recoverer, middleware.GetHead)
	rtr.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", streamproto.HeaderRange},
		ExposedHeaders: []string{
			streamproto.HeaderContentRange,
			streamproto.HeaderAcceptRanges,
			"Content-Length",
			streamproto.HeaderRequestID,
		},
	}))

	rtr.Get("/", s.root)
	rtr.Post(streamproto.PathUpload, s.upload)
	rtr.Get(streamproto.PathVideos, s.listVideos)
	rtr.Get(streamproto.PathStream+"{key}", s.streamVideo)
	rtr.Get(streamproto.PathHealth, s.health)
	rtr.Route("/admin", func(ar chi.Router) {
		ar.Post("/gc", s.gcOnce)
		ar.Get("/config", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(s.Cfg)
		})
	})

	if static := s.staticHandler(); static != nil {
		rtr.NotFound(static)
	}

	return rtr
}

// staticHandler отдаёт файлы из PublicDir, если каталог существует.
func (s *Server) staticHandler() http.HandlerFunc {
	dir := s.Cfg.PublicDir
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}

	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
