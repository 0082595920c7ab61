package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sir_venger/vidstream/internal/models"
)

func newDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := NewDisk(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return d
}

func TestDisk_SaveSizeOpenRange(t *testing.T) {
	ctx := context.Background()
	d := newDisk(t)
	data := bytes.Repeat([]byte("0123456789"), 100)

	n, err := d.Save(ctx, "1700000000000-clip.mp4", bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	size, err := d.Size(ctx, "1700000000000-clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), size)

	rc, err := d.OpenRange(ctx, "1700000000000-clip.mp4", 200, 300)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data[200:500], got)

	entries, err := os.ReadDir(d.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must be renamed into place")
}

func TestDisk_OpenRangeWindowAndClose(t *testing.T) {
	ctx := context.Background()
	d := newDisk(t)
	_, err := d.Save(ctx, "1-clip.mp4", strings.NewReader("0123456789"), 0)
	require.NoError(t, err)

	rc, err := d.OpenRange(ctx, "1-clip.mp4", 7, 3)
	require.NoError(t, err)

	buf := make([]byte, 8)
	n, err := io.ReadFull(rc, buf)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF, "reader must stop at the end of the window")
	assert.Equal(t, "789", string(buf[:n]))

	require.NoError(t, rc.Close())

	closed, err := d.OpenRange(ctx, "1-clip.mp4", 0, 10)
	require.NoError(t, err)
	require.NoError(t, closed.Close())
	_, err = closed.Read(buf)
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestDisk_SizeNotFound(t *testing.T) {
	ctx := context.Background()
	d := newDisk(t)
	require.NoError(t, os.Mkdir(filepath.Join(d.Dir(), "subdir"), 0o755))

	for _, key := range []string{"", ".", "..", "missing.mp4", "../etc/passwd", `a\b`, "subdir", ".tmp-abc"} {
		_, err := d.Size(ctx, key)
		assert.ErrorIs(t, err, models.ErrNotFound, "key %q", key)
	}

	_, err := d.OpenRange(ctx, "missing.mp4", 0, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDisk_SaveRejectsOversizedAndCleansUp(t *testing.T) {
	d := newDisk(t)

	_, err := d.Save(context.Background(), "big.mp4", strings.NewReader(strings.Repeat("x", 11)), 10)
	require.ErrorIs(t, err, models.ErrTooLarge)

	entries, err := os.ReadDir(d.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisk_SaveCanceled(t *testing.T) {
	d := newDisk(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Save(ctx, "clip.mp4", strings.NewReader("data"), 0)
	require.ErrorIs(t, err, context.Canceled)

	_, err = d.Size(context.Background(), "clip.mp4")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDisk_Usage(t *testing.T) {
	ctx := context.Background()
	d := newDisk(t)

	_, err := d.Save(ctx, "a.mp4", strings.NewReader("12345"), 0)
	require.NoError(t, err)
	_, err = d.Save(ctx, "b.mp4", strings.NewReader("123"), 0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(d.Dir(), tempPrefix+"partial"), []byte("ignored"), 0o644))

	total, err := d.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
}

func TestDisk_SweepRemovesStaleTemps(t *testing.T) {
	d := newDisk(t)

	stale := filepath.Join(d.Dir(), tempPrefix+"stale")
	fresh := filepath.Join(d.Dir(), tempPrefix+"fresh")
	object := filepath.Join(d.Dir(), "1-old.mp4")
	for _, p := range []string{stale, fresh, object} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(object, old, old))

	removed, err := d.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, object)
}

func TestDisk_StartGCStopsWithContext(t *testing.T) {
	d := newDisk(t)
	ctx, cancel := context.WithCancel(context.Background())

	sweeps := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		d.StartGC(ctx, time.Nanosecond, 5*time.Millisecond, func(n int, _ error) {
			select {
			case sweeps <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case <-sweeps:
	case <-time.After(2 * time.Second):
		t.Fatal("gc did not run")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("gc did not stop")
	}
}
