package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postImage(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	UploadImage()(rec, req)
	return rec
}

func TestUploadImageStoresFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", dir)
	t.Setenv("PUBLIC_BASE_URL", "http://cdn.test")

	payload := base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
	rec := postImage(t, UploadImageRequest{ImageData: payload})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp UploadImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "http://cdn.test/uploads/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-jpeg-bytes"), stored)
}

func TestUploadImageHonorsDataURIMediaType(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", dir)
	t.Setenv("PUBLIC_BASE_URL", "http://cdn.test")

	encoded := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	rec := postImage(t, UploadImageRequest{ImageData: "data:image/png;base64," + encoded})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp UploadImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
}

func TestUploadImageRejectsBadInput(t *testing.T) {
	t.Setenv("UPLOAD_DIR", t.TempDir())

	rec := postImage(t, UploadImageRequest{ImageData: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postImage(t, UploadImageRequest{ImageData: "not base64!!!"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", strings.NewReader("{"))
	raw := httptest.NewRecorder()
	UploadImage()(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}
