package videosvc

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sir_venger/vidstream/internal/models"
	"github.com/sir_venger/vidstream/internal/repo"
	"github.com/sir_venger/vidstream/internal/storage"
)

func newService(t *testing.T, maxUpload int64) *Videos {
	t.Helper()
	disk, err := storage.NewDisk(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	now := time.UnixMilli(1_700_000_000_000)
	return New(Deps{
		Catalog:        repo.NewCatalog(),
		Storage:        disk,
		MaxUploadBytes: maxUpload,
		GCTTL:          time.Hour,
		Now:            func() time.Time { return now },
	})
}

func TestUpload_StoresAndCatalogs(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()

	first, err := svc.Upload(ctx, models.UploadRequest{FileName: "lecture.mp4", Body: strings.NewReader("abc")})
	require.NoError(t, err)
	second, err := svc.Upload(ctx, models.UploadRequest{Title: "Intro", FileName: "intro.mp4", Body: strings.NewReader("defg")})
	require.NoError(t, err)

	assert.Equal(t, models.Video{ID: 1_700_000_000_000, Title: "lecture.mp4", Filename: "1700000000000-lecture.mp4"}, first)
	assert.Equal(t, models.Video{ID: 1_700_000_000_001, Title: "Intro", Filename: "1700000000001-intro.mp4"}, second)
	assert.Equal(t, []models.Video{first, second}, svc.List())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Videos: 2, TotalBytes: 7}, stats)
}

func TestUpload_FailureDoesNotCatalog(t *testing.T) {
	svc := newService(t, 4)

	_, err := svc.Upload(context.Background(), models.UploadRequest{FileName: "big.mp4", Body: strings.NewReader("12345")})
	require.ErrorIs(t, err, models.ErrTooLarge)
	assert.Empty(t, svc.List())

	_, err = svc.Upload(context.Background(), models.UploadRequest{FileName: "none.mp4"})
	require.ErrorIs(t, err, models.ErrNoFile)
}

func TestStream_ServesUploadedRange(t *testing.T) {
	svc := newService(t, 0)
	data := bytes.Repeat([]byte("0123456789"), 100)

	v, err := svc.Upload(context.Background(), models.UploadRequest{FileName: "clip.mp4", Body: bytes.NewReader(data)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/stream/"+v.Filename, nil)
	req.Header.Set("Range", "bytes=200-499")
	rec := httptest.NewRecorder()

	require.NoError(t, svc.Stream(rec, req, v.Filename))
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, data[200:500], rec.Body.Bytes())
}

func TestCollect(t *testing.T) {
	svc := newService(t, 0)

	n, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"clip.mp4":            "clip.mp4",
		"  clip.mp4 ":         "clip.mp4",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\a b.mp4`: "a b.mp4",
		".hidden.mp4":         "hidden.mp4",
		"":                    fallbackFileName,
		"/":                   fallbackFileName,
		"..":                  fallbackFileName,
		"bad\x00name.mp4":     "badname.mp4",
	}

	for in, want := range tests {
		assert.Equal(t, want, SanitizeFileName(in), "input %q", in)
	}
}

func TestPutRegisterDiscard(t *testing.T) {
	svc := newService(t, 0)
	ctx := context.Background()

	draft, err := svc.Put(ctx, "talk.mp4", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Empty(t, svc.List(), "put must not catalog")

	v := svc.Register(draft, "  Keynote ")
	assert.Equal(t, "Keynote", v.Title)
	assert.Equal(t, []models.Video{v}, svc.List())

	orphan, err := svc.Put(ctx, "orphan.mp4", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, svc.Discard(ctx, orphan))

	_, err = svc.Storage.Size(ctx, orphan.Filename)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
