package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardio/boardio/internal/common/logger"
	"github.com/boardio/boardio/internal/store"
	"github.com/boardio/boardio/internal/transfer/service"
	v1 "github.com/boardio/boardio/pkg/api/v1"
	"github.com/boardio/boardio/pkg/model"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      "error",
		Format:     "console",
		OutputPath: "stdout",
	})
	require.NoError(t, err)

	st := store.NewMemoryStore()
	svc := service.NewService(st, nil, log)

	router := gin.New()
	RegisterRoutes(router, svc, log)
	return router, st
}

func seedBoard(t *testing.T, st *store.MemoryStore, boardID, title string) {
	t.Helper()

	board := &model.Board{
		ID:    boardID,
		Title: title,
		Type:  model.BoardTypeOpen,
		CardProperties: []model.PropertyTemplate{
			{
				ID:   "prop-status",
				Name: "Status",
				Type: model.PropertyTypeSelect,
				Options: []model.PropertyOption{
					{ID: "opt-todo", Value: "To Do", Color: "propColorGray"},
				},
			},
		},
		Properties: map[string]model.PropertyValue{},
	}

	card := &model.Card{
		ID:      boardID + "-card-1",
		BoardID: boardID,
		Title:   "First card",
		Properties: map[string]model.PropertyValue{
			"prop-status": model.NewPropertyValue("opt-todo"),
		},
		ContentOrder: []model.ContentOrderEntry{},
	}
	cardBlock, err := card.ToBlock()
	require.NoError(t, err)

	_, err = st.CreateBoardAndBlocks(context.Background(), &model.BoardsAndBlocks{
		Boards: []*model.Board{board},
		Blocks: []*model.Block{cardBlock},
	})
	require.NoError(t, err)
}

func TestExportBoardJSON(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Roadmap")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/boards/board-1/export?format=json", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `"Roadmap.json"`)
	assert.Contains(t, w.Header().Get("Content-Type"), v1.MIMEJSON)
	assert.Contains(t, w.Body.String(), `"version": "1.0"`)
}

func TestExportBoardNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/boards/missing/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportBoardUnsupportedFormat(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Roadmap")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/boards/board-1/export?format=yaml", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportBoard(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Roadmap")

	export := httptest.NewRecorder()
	router.ServeHTTP(export, httptest.NewRequest(http.MethodGet, "/api/v1/boards/board-1/export", nil))
	require.Equal(t, http.StatusOK, export.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/import?format=json", bytes.NewReader(export.Body.Bytes()))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result v1.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success, "import failed: %s", result.Error)
	assert.NotEmpty(t, result.BoardID)
}

func TestImportBoardValidationFailure(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/import", bytes.NewReader([]byte("{not json")))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result v1.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid JSON format", result.Error)
}

func TestExportBPMNEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Roadmap")

	body, err := json.Marshal(v1.BPMNExportRequest{StatusPropertyID: "prop-status"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/board-1/export/bpmn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `"Roadmap.bpmn"`)
	assert.Contains(t, w.Body.String(), "bpmn:definitions")
}

func TestExportBPMNPreconditionFailure(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Roadmap")

	body, err := json.Marshal(v1.BPMNExportRequest{StatusPropertyID: "prop-ghost"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/board-1/export/bpmn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "prop-ghost")
}

func TestExportBPMNMissingStatusPropertyID(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Roadmap")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/board-1/export/bpmn", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportAllEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	seedBoard(t, st, "board-1", "Alpha")
	seedBoard(t, st, "board-2", "Beta")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var downloads []*v1.Download
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &downloads))
	require.Len(t, downloads, 2)
	assert.Equal(t, "Alpha.json", downloads[0].Filename)
	assert.Equal(t, "Beta.json", downloads[1].Filename)
}
