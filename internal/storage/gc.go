package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sweep удаляет временные файлы незавершённых загрузок старше ttl и возвращает их число.
func (d *Disk) Sweep(ttl time.Duration) (int, error) {
	now := time.Now()
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < ttl {
			continue
		}

		if err = os.Remove(filepath.Join(d.dir, e.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}

// StartGC периодически вызывает Sweep до отмены ctx. onSweep получает результат каждого прохода.
func (d *Disk) StartGC(ctx context.Context, ttl, every time.Duration, onSweep func(int, error)) {
	if every <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := d.Sweep(ttl)
			if onSweep != nil {
				onSweep(n, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
