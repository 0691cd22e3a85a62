package supabase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadRoomImage stores an image under
// users/{user}/projects/{project}/rooms/{room}/{filename} and returns
// the storage path and public URL. Callers namespace the filename with
// a timestamp, so upsert is disabled to catch accidental collisions.
func (s *StorageClient) UploadRoomImage(userID, projectID, roomID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	storagePath := fmt.Sprintf("users/%s/projects/%s/rooms/%s/%s",
		userID.String(), projectID.String(), roomID.String(), filename)

	if contentType == "" {
		contentType = "image/jpeg"
	}
	upsert := false
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, s.PublicURL(storagePath), nil
}

func (s *StorageClient) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

// DeleteProjectFiles removes every object stored for a project,
// originals and generated results alike. Called before the database
// cascade on project deletion.
func (s *StorageClient) DeleteProjectFiles(userID, projectID uuid.UUID) error {
	root := fmt.Sprintf("users/%s/projects/%s", userID.String(), projectID.String())

	paths, err := s.listObjectPaths(root)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	if _, err := s.client.RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}

// listObjectPaths walks a folder depth-first and returns full object
// paths. The list endpoint only returns the immediate children of a
// folder as leaf names, with folders as id-less entries, so each level
// must be listed separately and the folder prefix re-attached.
func (s *StorageClient) listObjectPaths(folder string) ([]string, error) {
	entries, err := s.client.ListFiles(s.bucket, folder, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files under %s: %w", folder, err)
	}

	var paths []string
	for _, entry := range entries {
		full := folder + "/" + entry.Name
		if entry.Id == "" {
			children, err := s.listObjectPaths(full)
			if err != nil {
				return nil, err
			}
			paths = append(paths, children...)
			continue
		}
		paths = append(paths, full)
	}
	return paths, nil
}
