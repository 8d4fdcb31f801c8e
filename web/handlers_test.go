package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-imsto/bulkimg/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 3), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func postBatch(t *testing.T, ts *httptest.Server, fields map[string]string, files map[string][]byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		assert.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("file", name)
		assert.NoError(t, err)
		_, err = fw.Write(data)
		assert.NoError(t, err)
	}
	assert.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", ts.URL+"/bulk/batch", &body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := ts.Client().Do(req)
	assert.NoError(t, err)
	return resp
}

type batchPayload struct {
	Meta map[string]interface{} `json:"meta"`
	Data struct {
		ID        string `json:"id"`
		Total     int    `json:"total"`
		Succeeded []struct {
			Index int    `json:"index"`
			Name  string `json:"name"`
			Size  int64  `json:"size"`
			URL   string `json:"url"`
		} `json:"succeeded"`
		Failed []struct {
			Index  int    `json:"index"`
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"failed"`
		ArchiveURL string `json:"archive_url"`
	} `json:"data"`
}

func TestBatchEndpoint(t *testing.T) {
	store, err := storage.New(t.TempDir())
	assert.NoError(t, err)
	ts := httptest.NewServer(Handler(store))
	defer ts.Close()

	resp := postBatch(t, ts,
		map[string]string{
			"width": "80", "height": "60",
			"mode": "fill", "format": "png",
			"pattern": "{name}_{width}x{height}",
		},
		map[string][]byte{
			"ok.png":  pngBytes(t, 200, 100),
			"bad.png": []byte("definitely not an image"),
		})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload batchPayload
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Data.Total)
	assert.Len(t, payload.Data.Succeeded, 1)
	assert.Len(t, payload.Data.Failed, 1)
	assert.Equal(t, "ok_80x60.png", payload.Data.Succeeded[0].Name)
	assert.Equal(t, "bad.png", payload.Data.Failed[0].Name)
	assert.NotEmpty(t, payload.Data.ArchiveURL)

	// the produced file and archive are downloadable
	for _, url := range []string{payload.Data.Succeeded[0].URL, payload.Data.ArchiveURL} {
		res, err := ts.Client().Get(ts.URL + url)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		res.Body.Close()
	}
}

func TestBatchEndpointEmpty(t *testing.T) {
	store, err := storage.New(t.TempDir())
	assert.NoError(t, err)
	ts := httptest.NewServer(Handler(store))
	defer ts.Close()

	resp := postBatch(t, ts, map[string]string{"width": "80"}, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchEndpointBadOptions(t *testing.T) {
	store, err := storage.New(t.TempDir())
	assert.NoError(t, err)
	ts := httptest.NewServer(Handler(store))
	defer ts.Close()

	resp := postBatch(t, ts,
		map[string]string{"mode": "tile"},
		map[string][]byte{"ok.png": pngBytes(t, 20, 20)})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestModesEndpoint(t *testing.T) {
	store, err := storage.New(t.TempDir())
	assert.NoError(t, err)
	ts := httptest.NewServer(Handler(store))
	defer ts.Close()

	res, err := ts.Client().Get(ts.URL + "/bulk/modes")
	assert.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var payload struct {
		Data struct {
			Modes   []string `json:"modes"`
			Formats []string `json:"formats"`
		} `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Contains(t, payload.Data.Modes, "stretch")
	assert.Contains(t, payload.Data.Formats, "webp")
}
