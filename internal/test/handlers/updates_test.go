package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closeNotifyRecorder adds the http.CloseNotifier method that gin's
// Stream helper requires; httptest.ResponseRecorder does not provide it.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestStreamUpdates_DeliversSnapshotEvents(t *testing.T) {
	e := newEnv(t)
	projectID, roomIDs := e.createProject(t, "Loft", "apartment", []string{"living_room"})

	w := e.doMultipart(t, "/api/v1/previews",
		[]fileUpload{{field: "image", filename: "room.jpg", data: []byte("photo")}},
		map[string]string{
			"projectId": projectID.String(),
			"roomId":    roomIDs[0].String(),
			"styles":    `["moderno"]`,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The stream ends when the request context is cancelled; a short
	// deadline bounds the test to the initial snapshot.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/updates", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(&closeNotifyRecorder{rec, make(chan bool)}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "event:message"), body)
	assert.Contains(t, body, roomIDs[0].String())
	assert.Contains(t, body, `"completed"`)
}

func TestStreamUpdates_UnknownProjectIs404(t *testing.T) {
	e := newEnv(t)
	other := newEnv(t)
	projectID, _ := other.createProject(t, "Theirs", "house", []string{"living_room"})

	w := e.doJSON(t, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/updates", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.doJSON(t, http.MethodGet, "/api/v1/projects/not-a-uuid/updates", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
