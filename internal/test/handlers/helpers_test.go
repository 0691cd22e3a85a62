package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"decorize-backend/internal/handlers"
	"decorize-backend/internal/middleware"
	"decorize-backend/internal/services"
	"decorize-backend/internal/test/storetest"
)

// env wires the full API surface against in-memory fakes, mirroring the
// route table the server builds at startup.
type env struct {
	store     *storetest.MemoryStore
	blobs     *storetest.BlobStore
	generator *storetest.Generator
	router    *gin.Engine
	userID    uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storetest.NewMemoryStore()
	blobs := storetest.NewBlobStore()
	generator := storetest.NewGenerator()
	userID := uuid.New()

	generation := services.NewGenerationService(store, blobs, generator)
	notifier := services.NewStatusNotifier(store, time.Hour)

	projectsHandler := handlers.NewProjectsHandler(store, blobs)
	previewsHandler := handlers.NewPreviewsHandler(store, generation)
	updatesHandler := handlers.NewUpdatesHandler(store, notifier)
	catalogHandler := handlers.NewCatalogHandler()

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
	})
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)
	api.POST("/previews", previewsHandler.GeneratePreview)
	api.POST("/projects/:project_id/previews/batch", previewsHandler.BatchGenerate)
	api.GET("/projects/:project_id/updates", updatesHandler.StreamUpdates)
	api.GET("/styles", catalogHandler.GetStyles)
	api.GET("/places", catalogHandler.GetPlaces)

	return &env{
		store:     store,
		blobs:     blobs,
		generator: generator,
		router:    router,
		userID:    userID,
	}
}

func (e *env) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// createProject drives the real endpoint and returns the project id plus
// the room ids in creation order.
func (e *env) createProject(t *testing.T, name, placeType string, roomTypeIDs []string) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	w := e.doJSON(t, http.MethodPost, "/api/v1/projects", gin.H{
		"name":        name,
		"placeType":   placeType,
		"roomTypeIds": roomTypeIDs,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ProjectID string `json:"projectId"`
	}
	decodeJSON(t, w, &resp)
	projectID, err := uuid.Parse(resp.ProjectID)
	require.NoError(t, err)

	rooms, err := e.store.ListRooms(projectID)
	require.NoError(t, err)
	roomIDs := make([]uuid.UUID, len(rooms))
	for i, room := range rooms {
		roomIDs[i] = room.ID
	}
	return projectID, roomIDs
}

type fileUpload struct {
	field    string
	filename string
	data     []byte
}

// multipartBody assembles a multipart form from files and plain fields.
func multipartBody(t *testing.T, files []fileUpload, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (e *env) doMultipart(t *testing.T, path string, files []fileUpload, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, files, fields)
	req, err := http.NewRequest(http.MethodPost, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
