package repo

import (
	"sync"
	"time"

	"github.com/sir_venger/vidstream/internal/models"
)

// Catalog хранит записи о загрузках только в оперативной памяти, в порядке добавления.
// После рестарта процесса каталог пуст.
type Catalog struct {
	mu     sync.RWMutex
	videos []models.Video
	lastID int64
}

// NewCatalog создаёт пустой каталог.
func NewCatalog() *Catalog {
	return &Catalog{videos: []models.Video{}}
}

// NextID выдаёт идентификатор на основе unix-миллисекунд; значения строго возрастают
// даже при нескольких загрузках в одну миллисекунду.
func (c *Catalog) NextID(now time.Time) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// Append добавляет запись в конец каталога.
func (c *Catalog) Append(v models.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos = append(c.videos, v)
	if v.ID > c.lastID {
		c.lastID = v.ID
	}
}

// List возвращает копию всех записей в порядке добавления.
func (c *Catalog) List() []models.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Video, len(c.videos))
	copy(out, c.videos)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.videos)
}
