package videosvc

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sir_venger/vidstream/internal/models"
)

const fallbackFileName = "upload"

// Upload сохраняет поток и сразу регистрирует запись в каталоге.
func (s *Videos) Upload(ctx context.Context, req models.UploadRequest) (models.Video, error) {
	v, err := s.Put(ctx, req.FileName, req.Body)
	if err != nil {
		return models.Video{}, err
	}
	return s.Register(v, req.Title), nil
}

// Put сохраняет поток под ключом "{id}-{имя файла}", но не добавляет запись в каталог.
// Используется, когда заголовок ролика становится известен только после тела файла.
func (s *Videos) Put(ctx context.Context, fileName string, body io.Reader) (models.Video, error) {
	if body == nil {
		return models.Video{}, models.ErrNoFile
	}

	name := SanitizeFileName(fileName)
	id := s.Catalog.NextID(s.Now())
	key := StorageKey(id, name)

	if _, err := s.Storage.Save(ctx, key, body, s.MaxUploadBytes); err != nil {
		return models.Video{}, fmt.Errorf("save %s: %w", key, err)
	}

	title := strings.TrimSpace(fileName)
	if title == "" {
		title = name
	}

	return models.Video{ID: id, Title: title, Filename: key}, nil
}

// Register добавляет сохранённый ролик в каталог. Пустой title оставляет имя файла.
func (s *Videos) Register(v models.Video, title string) models.Video {
	if t := strings.TrimSpace(title); t != "" {
		v.Title = t
	}
	s.Catalog.Append(v)
	return v
}

// Discard удаляет сохранённый, но не зарегистрированный объект.
func (s *Videos) Discard(ctx context.Context, v models.Video) error {
	return s.Storage.Remove(ctx, v.Filename)
}

// StorageKey строит имя файла на диске.
func StorageKey(id int64, name string) string {
	return fmt.Sprintf("%d-%s", id, name)
}

// SanitizeFileName оставляет только базовое имя без разделителей пути.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ".")

	if name == "" || name == "/" {
		return fallbackFileName
	}
	return name
}
