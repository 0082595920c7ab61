package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sir_venger/vidstream/internal/models"
)

const tempPrefix = ".tmp-"

// Disk хранит объекты плоским списком файлов в одном каталоге.
type Disk struct {
	dir string
}

// NewDisk создаёт каталог при необходимости.
func NewDisk(dir string) (*Disk, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Dir() string { return d.dir }

// Save записывает поток во временный файл и атомарно переименовывает его в key.
// limit > 0 ограничивает размер объекта.
func (d *Disk) Save(ctx context.Context, key string, r io.Reader, limit int64) (int64, error) {
	dst, err := d.path(key)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(d.dir, tempPrefix+uuid.NewString()+"-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: src})
	if err != nil {
		return n, fmt.Errorf("write %s: %w", key, err)
	}
	if limit > 0 && n > limit {
		return n, fmt.Errorf("%w: more than %d bytes", models.ErrTooLarge, limit)
	}

	if err = tmp.Close(); err != nil {
		return n, err
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return n, err
	}
	committed = true

	return n, nil
}

// Size возвращает размер объекта key.
func (d *Disk) Size(_ context.Context, key string) (int64, error) {
	p, err := d.path(key)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, models.ErrNotFound
		}
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, models.ErrNotFound
	}

	return info.Size(), nil
}

// OpenRange открывает окно [start, start+length) объекта key.
func (d *Disk) OpenRange(_ context.Context, key string, start, length int64) (io.ReadCloser, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &sectionReadCloser{
		SectionReader: io.NewSectionReader(f, start, length),
		f:             f,
	}, nil
}

// Remove удаляет объект key; отсутствие объекта не считается ошибкой.
func (d *Disk) Remove(_ context.Context, key string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Usage суммирует размер всех завершённых объектов.
func (d *Disk) Usage(_ context.Context) (int64, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}

	return total, nil
}

// path проверяет, что key является простым именем файла внутри каталога.
func (d *Disk) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) ||
		strings.HasPrefix(key, tempPrefix) {
		return "", models.ErrNotFound
	}
	return filepath.Join(d.dir, key), nil
}

type sectionReadCloser struct {
	*io.SectionReader
	f *os.File
}

func (s *sectionReadCloser) Close() error { return s.f.Close() }

// ctxReader прерывает чтение после отмены контекста.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
