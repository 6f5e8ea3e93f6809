package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/application/service"
	"github.com/pdfscrubber/pdf-scrubber/internal/export"
	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
	"github.com/pdfscrubber/pdf-scrubber/internal/review"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
)

type rawTextReader struct{}

func (rawTextReader) ReadText(data []byte) (string, error) {
	return string(data), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := zap.NewNop()
	store := review.NewStore(logger)
	processor := scrubber.NewProcessor(rawTextReader{}, scrubber.StubExtractor{}, store, 0, logger)
	center := notify.NewCenter(time.Minute, logger)
	t.Cleanup(center.Close)

	svc := service.NewScrubService(
		store,
		processor,
		review.NewCommitter(logger),
		center,
		nil,
		nil,
		export.NewReporter(logger),
		logger,
	)
	t.Cleanup(svc.Shutdown)

	return NewServer(DefaultServerConfig(), svc, center, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp Response
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func selectAndProcess(t *testing.T, srv *Server, dir string) {
	t.Helper()

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/folder", map[string]string{"path": dir})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/process", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		rec, resp := doJSON(t, srv, http.MethodGet, "/api/batch", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		data := resp.Data.(map[string]interface{})
		items, ok := data["items"].([]interface{})
		return ok && data["processing"] == false && len(items) > 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHandlers_HealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestHandlers_SelectFolderRequiresPath(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/folder", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestHandlers_SelectFolderRejectsMissingDirectory(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/folder",
		map[string]string{"path": "/nonexistent/folder"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_ProcessWithoutSelection(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/process", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrNoFolderSelected.Error(), resp.Error)
}

func TestHandlers_BatchDecisionFlow(t *testing.T) {
	srv := newTestServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("y"), 0o644))
	selectAndProcess(t, srv, dir)

	// Reject item 0, approve item 1.
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/items/0/reject", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/items/1/approve", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	outcome := resp.Data.(map[string]interface{})
	assert.Equal(t, true, outcome["success"])

	// Both items are resolved and leave the queue.
	_, resp = doJSON(t, srv, http.MethodGet, "/api/batch", nil)
	data := resp.Data.(map[string]interface{})
	assert.Empty(t, data["items"])

	// A second reject of the same item is refused.
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/items/0/reject", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlers_DecisionOnUnknownItem(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/items/42/approve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/items/bogus/approve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_Notifications(t *testing.T) {
	srv := newTestServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o644))

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/folder", map[string]string{"path": dir})
	require.Equal(t, http.StatusOK, rec.Code)

	_, resp := doJSON(t, srv, http.MethodGet, "/api/notifications", nil)
	notifications := resp.Data.([]interface{})
	require.Len(t, notifications, 1)
	first := notifications[0].(map[string]interface{})
	assert.Contains(t, first["message"], "Found 1 PDF files")

	rec, _ = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/notifications/%s", first["id"]), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/notifications/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_Export(t *testing.T) {
	srv := newTestServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o644))
	selectAndProcess(t, srv, dir)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "batch-review.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}
