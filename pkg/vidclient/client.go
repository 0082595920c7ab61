package vidclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sir_venger/vidstream/pkg/streamproto"
)

// Video повторяет запись каталога в том виде, в каком её отдаёт сервер.
type Video struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

type UploadRequest struct {
	Title    string
	FileName string
	Reader   io.Reader
	// Size нужен только для индикатора прогресса; 0 означает, что размер неизвестен.
	Size int64
}

// Range задаёт запрашиваемое окно [Start, End]; End < 0 означает «до конца файла».
type Range struct {
	Start int64
	End   int64
}

func (r Range) header() string {
	if r.End < 0 {
		return fmt.Sprintf("bytes=%d-", r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

// Stream содержит тело ответа /stream вместе с заголовками диапазона.
type Stream struct {
	io.ReadCloser
	Status        int
	ContentLength int64
	ContentRange  string
	ContentType   string
}

type Client interface {
	// Upload Загрузить ролик multipart-формой
	Upload(ctx context.Context, baseURL string, req UploadRequest) (Video, error)
	// List Получить каталог роликов
	List(ctx context.Context, baseURL string) ([]Video, error)
	// Stream Скачать ролик целиком (rng == nil) или диапазон
	Stream(ctx context.Context, baseURL, key string, rng *Range) (*Stream, error)
}

// StatusError возвращается, когда сервер ответил неуспешным кодом.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %d %s: %s", e.Op, e.Status, http.StatusText(e.Status), e.Body)
}

type httpClient struct {
	c        *http.Client
	progress io.Writer
}

// New создаёт HTTP-клиент. progress != nil включает индикатор выполнения.
func New(progress io.Writer) Client {
	return &httpClient{
		c:        &http.Client{},
		progress: progress,
	}
}

// Upload отправляет файл потоково, не буферизуя его в памяти.
func (h *httpClient) Upload(ctx context.Context, baseURL string, req UploadRequest) (Video, error) {
	if req.Reader == nil {
		return Video{}, fmt.Errorf("upload reader is nil")
	}

	bar := newProgressBar(h.progress, fmt.Sprintf("Uploading %s", req.FileName), req.Size)
	body := io.Reader(req.Reader)
	if bar != nil {
		body = io.TeeReader(req.Reader, progressWriter{bar: bar})
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, req, body))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(baseURL, streamproto.PathUpload), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.Fail(err)
		return Video{}, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.c.Do(httpReq)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.Fail(err)
		return Video{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = statusError("upload", resp)
		bar.Fail(err)
		return Video{}, err
	}

	var out struct {
		Message string `json:"message"`
		Video   Video  `json:"video"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		bar.Fail(err)
		return Video{}, err
	}

	bar.Finish()
	return out.Video, nil
}

func writeForm(mw *multipart.Writer, req UploadRequest, body io.Reader) error {
	if req.Title != "" {
		if err := mw.WriteField(streamproto.FormFieldTitle, req.Title); err != nil {
			return err
		}
	}

	fw, err := mw.CreateFormFile(streamproto.FormFieldFile, req.FileName)
	if err != nil {
		return err
	}
	if _, err = io.Copy(fw, body); err != nil {
		return err
	}

	return mw.Close()
}

// List возвращает каталог роликов.
func (h *httpClient) List(ctx context.Context, baseURL string) ([]Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, streamproto.PathVideos), nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list", resp)
	}

	var out []Video
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stream скачивает ролик и возвращает поток с телом.
func (h *httpClient) Stream(ctx context.Context, baseURL, key string, rng *Range) (*Stream, error) {
	u := endpoint(baseURL, streamproto.PathStream+url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if rng != nil {
		req.Header.Set(streamproto.HeaderRange, rng.header())
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		defer resp.Body.Close()
		return nil, statusError("stream", resp)
	}

	expectedSize := resp.ContentLength
	if expectedSize < 0 {
		if v := resp.Header.Get("Content-Length"); v != "" {
			if sz, parseErr := strconv.ParseInt(v, 10, 64); parseErr == nil {
				expectedSize = sz
			}
		}
	}

	bar := newProgressBar(h.progress, fmt.Sprintf("Downloading %s", key), expectedSize)

	return &Stream{
		ReadCloser:    newProgressReadCloser(resp.Body, bar),
		Status:        resp.StatusCode,
		ContentLength: resp.ContentLength,
		ContentRange:  resp.Header.Get(streamproto.HeaderContentRange),
		ContentType:   resp.Header.Get("Content-Type"),
	}, nil
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
