package storageclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/dropblocks/pkg/storageproto"
)

// DownloadInfo — метаданные скачанного файла из заголовков ответа.
type DownloadInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

type Client interface {
	// Upload Загрузить файл в сервис как multipart/form-data
	Upload(ctx context.Context, baseURL, filename string, r io.Reader, size int64) (storageproto.UploadResponse, error)
	// Download Скачать файл по id и записать в w
	Download(ctx context.Context, baseURL, id string, w io.Writer) (DownloadInfo, error)
}

// Option настраивает клиента.
type Option func(*httpClient)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) {
		if c != nil {
			h.c = c
		}
	}
}

// WithProgressOutput задаёт, куда рисовать индикатор; nil отключает его.
func WithProgressOutput(w io.Writer) Option {
	return func(h *httpClient) {
		h.progress = w
	}
}

type httpClient struct {
	c        *http.Client
	progress io.Writer
}

// New создаёт HTTP-клиент по умолчанию.
func New(opts ...Option) Client {
	h := &httpClient{
		c:        &http.Client{},
		progress: os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Upload стримит r в поле "file" multipart-формы без буферизации всего файла в памяти.
func (h *httpClient) Upload(ctx context.Context, baseURL, filename string, r io.Reader, size int64) (storageproto.UploadResponse, error) {
	start := time.Now()
	m := newMeter(h.progress, "push "+filename, size)

	res, err := h.upload(ctx, baseURL, filename, io.TeeReader(r, m))
	m.done(start, err)

	return res, err
}

// upload возвращает управление только после завершения горутины, пишущей форму.
func (h *httpClient) upload(ctx context.Context, baseURL, filename string, r io.Reader) (storageproto.UploadResponse, error) {
	var out storageproto.UploadResponse

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := stdmultipart.NewWriter(pw)

	var g errgroup.Group
	g.Go(func() error {
		err := writeForm(mw, filename, r)
		_ = pw.CloseWithError(err)
		return err
	})
	abort := func(err error) (storageproto.UploadResponse, error) {
		_ = pr.CloseWithError(err)
		_ = g.Wait()
		return out, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+storageproto.UploadPath, pr)
	if err != nil {
		return abort(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", storageproto.ContentTypeJSON)

	resp, err := h.c.Do(req)
	if err != nil {
		return abort(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return abort(statusError("upload", resp))
	}
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return abort(fmt.Errorf("decode upload response: %w", err))
	}

	// Сервер ответит, не дочитав хвост формы после файла: закрытый pipe тут не ошибка.
	_ = pr.Close()
	if err = g.Wait(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return out, err
	}

	return out, nil
}

func writeForm(mw *stdmultipart.Writer, filename string, r io.Reader) error {
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err = io.Copy(fw, r); err != nil {
		return err
	}

	return mw.Close()
}

// Download скачивает файл и копирует тело в w.
func (h *httpClient) Download(ctx context.Context, baseURL, id string, w io.Writer) (DownloadInfo, error) {
	var info DownloadInfo

	u := strings.TrimRight(baseURL, "/") + storageproto.DownloadURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return info, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return info, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return info, statusError("download", resp)
	}

	info = DownloadInfo{
		Filename:    attachmentName(resp.Header.Get(storageproto.HeaderContentDisposition)),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	start := time.Now()
	m := newMeter(h.progress, "pull "+id, resp.ContentLength)

	n, err := io.Copy(io.MultiWriter(w, m), resp.Body)
	if err == nil && info.Size >= 0 && n != info.Size {
		err = fmt.Errorf("short download: want %d bytes, got %d", info.Size, n)
	}
	m.done(start, err)
	if err != nil {
		return info, err
	}
	info.Size = n

	return info, nil
}

func attachmentName(cd string) string {
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}

	return params["filename"]
}

func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	return fmt.Errorf("%s failed: %s: %s", op, resp.Status, strings.TrimSpace(string(msg)))
}
