package supabase_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"decorize-backend/internal/supabase"
)

// fakeStorage emulates the Supabase storage API surface the client
// touches: upload, folder-scoped list (immediate children only, leaf
// names, folders as id-less entries) and bulk remove.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed [][]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) handler(bucket string) http.HandlerFunc {
	listPath := "/storage/v1/object/list/" + bucket
	objectPath := "/storage/v1/object/" + bucket

	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == listPath:
			var req struct {
				Prefix string `json:"prefix"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(f.list(req.Prefix))

		case r.Method == http.MethodDelete && r.URL.Path == objectPath:
			var req struct {
				Prefixes []string `json:"prefixes"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			f.removed = append(f.removed, req.Prefixes)
			for _, path := range req.Prefixes {
				delete(f.objects, path)
			}
			w.Write([]byte("[]"))

		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, objectPath+"/"):
			key := strings.TrimPrefix(r.URL.Path, objectPath+"/")
			data, _ := io.ReadAll(r.Body)
			f.objects[key] = data
			json.NewEncoder(w).Encode(map[string]string{"Key": bucket + "/" + key})

		default:
			http.NotFound(w, r)
		}
	}
}

// list returns the immediate children of a folder the way the real API
// does: leaf names only, and subfolders as entries without an object id.
func (f *fakeStorage) list(prefix string) []map[string]any {
	seen := make(map[string]bool)
	entries := []map[string]any{}
	for key := range f.objects {
		if !strings.HasPrefix(key, prefix+"/") {
			continue
		}
		rest := strings.TrimPrefix(key, prefix+"/")
		segment, _, isFolder := strings.Cut(rest, "/")
		if seen[segment] {
			continue
		}
		seen[segment] = true

		entry := map[string]any{"name": segment, "id": uuid.NewString()}
		if isFolder {
			entry["id"] = ""
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i]["name"].(string) < entries[j]["name"].(string)
	})
	return entries
}

func TestStorageClient_DeleteProjectFiles(t *testing.T) {
	fake := newFakeStorage()
	server := httptest.NewServer(fake.handler("room-images"))
	defer server.Close()

	client, err := supabase.NewStorageClient(server.URL, "publishable-key", "room-images")
	require.NoError(t, err)

	userID := uuid.New()
	projectID := uuid.New()
	roomA := uuid.New()
	roomB := uuid.New()

	pathA, _, err := client.UploadRoomImage(userID, projectID, roomA, "1-a.jpg", []byte("a"), "image/jpeg")
	require.NoError(t, err)
	pathResult, _, err := client.UploadRoomImage(userID, projectID, roomA, "result-2.png", []byte("r"), "image/png")
	require.NoError(t, err)
	pathB, _, err := client.UploadRoomImage(userID, projectID, roomB, "3-b.jpg", []byte("b"), "image/jpeg")
	require.NoError(t, err)

	// An object of another project under the same user must survive.
	otherPath, _, err := client.UploadRoomImage(userID, uuid.New(), roomA, "4-c.jpg", []byte("c"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, fake.objects, 4)

	require.NoError(t, client.DeleteProjectFiles(userID, projectID))

	assert.NotContains(t, fake.objects, pathA)
	assert.NotContains(t, fake.objects, pathResult)
	assert.NotContains(t, fake.objects, pathB)
	assert.Contains(t, fake.objects, otherPath)

	// The delete request must name full object paths, not folder leaves.
	require.Len(t, fake.removed, 1)
	assert.ElementsMatch(t, []string{pathA, pathResult, pathB}, fake.removed[0])
}

func TestStorageClient_DeleteProjectFiles_NoObjects(t *testing.T) {
	fake := newFakeStorage()
	server := httptest.NewServer(fake.handler("room-images"))
	defer server.Close()

	client, err := supabase.NewStorageClient(server.URL, "publishable-key", "room-images")
	require.NoError(t, err)

	require.NoError(t, client.DeleteProjectFiles(uuid.New(), uuid.New()))
	assert.Empty(t, fake.removed)
}

func TestStorageClient_PublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://example.supabase.co/", "publishable-key", "room-images")
	require.NoError(t, err)

	url := client.PublicURL("users/u/projects/p/rooms/r/photo.jpg")
	assert.Equal(t,
		"https://example.supabase.co/storage/v1/object/public/room-images/users/u/projects/p/rooms/r/photo.jpg",
		url)
}

func TestStorageClient_UploadRoomImage_PathFormat(t *testing.T) {
	fake := newFakeStorage()
	server := httptest.NewServer(fake.handler("room-images"))
	defer server.Close()

	client, err := supabase.NewStorageClient(server.URL, "publishable-key", "room-images")
	require.NoError(t, err)

	userID := uuid.New()
	projectID := uuid.New()
	roomID := uuid.New()

	path, publicURL, err := client.UploadRoomImage(userID, projectID, roomID, "1700000000-photo.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)

	want := "users/" + userID.String() + "/projects/" + projectID.String() +
		"/rooms/" + roomID.String() + "/1700000000-photo.jpg"
	assert.Equal(t, want, path)
	assert.Equal(t, server.URL+"/storage/v1/object/public/room-images/"+want, publicURL)
	assert.Equal(t, []byte("data"), fake.objects[want])
}
