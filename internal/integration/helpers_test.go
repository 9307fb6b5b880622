package integration

import (
	"bytes"
	"encoding/json"
	"io"
	stdmultipart "mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"

	"github.com/sir_venger/dropblocks/internal/app/resthttp"
	"github.com/sir_venger/dropblocks/internal/config"
	"github.com/sir_venger/dropblocks/internal/registry"
	"github.com/sir_venger/dropblocks/internal/usecase/filesvc"
	"github.com/sir_venger/dropblocks/pkg/storageproto"
)

// newStack поднимает сервис поверх каталога dir так же, как это делает serve.
func newStack(t *testing.T, dir string, workers int) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.StorageDir = dir
	cfg.Workers = workers
	cfg.BufferSize = 256

	reg := registry.New(afero.NewOsFs(), dir)
	if _, err := reg.Recover(); err != nil {
		t.Fatalf("recover: %v", err)
	}
	svc := filesvc.New(filesvc.Deps{Files: reg, BufferSize: cfg.BufferSize, MaxFieldBytes: cfg.MaxFieldBytes})
	h, _ := resthttp.NewServer(cfg, svc, nil)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func multipartUpload(baseURL, filename string, payload []byte) (*http.Response, error) {
	var buf bytes.Buffer
	mw := stdmultipart.NewWriter(&buf)
	_ = mw.WriteField("owner", "integration")
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err = fw.Write(payload); err != nil {
		return nil, err
	}
	if err = mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+storageproto.UploadPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", storageproto.ContentTypeJSON)
	return http.DefaultClient.Do(req)
}

func uploadOK(t *testing.T, baseURL, filename string, payload []byte) storageproto.UploadResponse {
	t.Helper()
	resp, err := multipartUpload(baseURL, filename, payload)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status %s: %s", resp.Status, b)
	}

	var out storageproto.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func download(t *testing.T, baseURL, link string) (int, []byte, http.Header) {
	t.Helper()
	resp, err := http.Get(baseURL + link)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, b, resp.Header
}

func uploadResponseFrom(t *testing.T, raw string) storageproto.UploadResponse {
	t.Helper()
	var out storageproto.UploadResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return out
}
