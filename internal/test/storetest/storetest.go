// Package storetest provides in-memory stand-ins for the record store,
// blob store and AI generator, so pipeline behavior can be tested
// without Postgres, Supabase Storage or the Gemini API.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"decorize-backend/internal/models"
)

// MemoryStore mimics the database client's semantics, including the
// ownership predicates, the room state machine and the preview-exists
// guard on completion.
type MemoryStore struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]models.Project
	rooms     map[uuid.UUID]models.Room
	roomOrder map[uuid.UUID][]uuid.UUID
	previews  map[uuid.UUID][]models.Preview
	clock     time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:  make(map[uuid.UUID]models.Project),
		rooms:     make(map[uuid.UUID]models.Room),
		roomOrder: make(map[uuid.UUID][]uuid.UUID),
		previews:  make(map[uuid.UUID][]models.Preview),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so creation-order
// assertions are stable.
func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MemoryStore) CreateProjectWithRooms(userID uuid.UUID, name, placeType string, roomTypeIDs []string) (*models.Project, []models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	project := models.Project{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		PlaceType: placeType,
		Status:    models.ProjectStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.projects[project.ID] = project

	rooms := make([]models.Room, 0, len(roomTypeIDs))
	for _, roomType := range roomTypeIDs {
		created := s.tick()
		room := models.Room{
			ID:        uuid.New(),
			ProjectID: project.ID,
			RoomType:  roomType,
			Name:      roomType,
			Styles:    []string{},
			Status:    models.RoomStatusPending,
			CreatedAt: created,
			UpdatedAt: created,
		}
		s.rooms[room.ID] = room
		s.roomOrder[project.ID] = append(s.roomOrder[project.ID], room.ID)
		rooms = append(rooms, room)
	}

	return &project, rooms, nil
}

func (s *MemoryStore) GetProject(projectID, userID uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok || project.UserID != userID {
		return nil, fmt.Errorf("failed to get project: %w", sql.ErrNoRows)
	}
	return &project, nil
}

func (s *MemoryStore) ListProjects(userID uuid.UUID) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projects []models.Project
	for _, project := range s.projects {
		if project.UserID == userID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *MemoryStore) ListRoomStatusesByOwner(userID uuid.UUID) (map[uuid.UUID][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make(map[uuid.UUID][]string)
	for _, room := range s.rooms {
		project, ok := s.projects[room.ProjectID]
		if ok && project.UserID == userID {
			statuses[room.ProjectID] = append(statuses[room.ProjectID], room.Status)
		}
	}
	return statuses, nil
}

func (s *MemoryStore) DeleteProject(projectID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok || project.UserID != userID {
		return nil
	}
	delete(s.projects, projectID)
	for _, roomID := range s.roomOrder[projectID] {
		delete(s.rooms, roomID)
		delete(s.previews, roomID)
	}
	delete(s.roomOrder, projectID)
	return nil
}

func (s *MemoryStore) GetRoom(roomID, projectID uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok || room.ProjectID != projectID {
		return nil, fmt.Errorf("failed to get room: %w", sql.ErrNoRows)
	}
	return &room, nil
}

func (s *MemoryStore) ListRooms(projectID uuid.UUID) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make([]models.Room, 0, len(s.roomOrder[projectID]))
	for _, roomID := range s.roomOrder[projectID] {
		rooms = append(rooms, s.rooms[roomID])
	}
	return rooms, nil
}

func (s *MemoryStore) RoomStatuses(projectID uuid.UUID) ([]models.RoomStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var statuses []models.RoomStatus
	for _, roomID := range s.roomOrder[projectID] {
		room := s.rooms[roomID]
		status := models.RoomStatus{ID: room.ID, Status: room.Status}
		if room.ErrorMessage.Valid {
			msg := room.ErrorMessage.String
			status.ErrorMessage = &msg
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *MemoryStore) SetRoomProcessing(roomID, projectID, userID uuid.UUID, originalImageURL string, styles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.ownedRoom(roomID, projectID, userID)
	if err != nil {
		return err
	}
	if !models.ValidRoomTransition(room.Status, models.RoomStatusProcessing) {
		return fmt.Errorf("invalid transition %s -> processing", room.Status)
	}
	room.OriginalImageURL = sql.NullString{String: originalImageURL, Valid: true}
	room.Styles = append([]string(nil), styles...)
	room.Status = models.RoomStatusProcessing
	room.ErrorMessage = sql.NullString{}
	room.UpdatedAt = s.tick()
	s.rooms[roomID] = *room
	return nil
}

func (s *MemoryStore) SetRoomCompleted(roomID, projectID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.ownedRoom(roomID, projectID, userID)
	if err != nil {
		return err
	}
	if len(s.previews[roomID]) == 0 {
		return fmt.Errorf("room %s has no preview to complete with", roomID)
	}
	room.Status = models.RoomStatusCompleted
	room.ErrorMessage = sql.NullString{}
	room.UpdatedAt = s.tick()
	s.rooms[roomID] = *room
	return nil
}

func (s *MemoryStore) SetRoomError(roomID, projectID, userID uuid.UUID, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.ownedRoom(roomID, projectID, userID)
	if err != nil {
		return err
	}
	room.Status = models.RoomStatusError
	room.ErrorMessage = sql.NullString{String: errorMessage, Valid: true}
	room.UpdatedAt = s.tick()
	s.rooms[roomID] = *room
	return nil
}

func (s *MemoryStore) CreatePreview(preview *models.Preview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[preview.RoomID]; !ok {
		return fmt.Errorf("failed to create preview: %w", sql.ErrNoRows)
	}
	preview.CreatedAt = s.tick()
	s.previews[preview.RoomID] = append(s.previews[preview.RoomID], *preview)
	return nil
}

func (s *MemoryStore) ListPreviews(roomID uuid.UUID) ([]models.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previews := append([]models.Preview(nil), s.previews[roomID]...)
	sort.Slice(previews, func(i, j int) bool {
		return previews[i].CreatedAt.After(previews[j].CreatedAt)
	})
	return previews, nil
}

// RoomCount reports how many rooms exist across all projects; handy for
// cascade-delete assertions.
func (s *MemoryStore) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// PreviewCount reports how many previews exist across all rooms.
func (s *MemoryStore) PreviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, previews := range s.previews {
		n += len(previews)
	}
	return n
}

func (s *MemoryStore) ownedRoom(roomID, projectID, userID uuid.UUID) (*models.Room, error) {
	room, ok := s.rooms[roomID]
	if !ok || room.ProjectID != projectID {
		return nil, fmt.Errorf("failed to get room: %w", sql.ErrNoRows)
	}
	project, ok := s.projects[projectID]
	if !ok || project.UserID != userID {
		return nil, fmt.Errorf("failed to get project: %w", sql.ErrNoRows)
	}
	return &room, nil
}

// BlobStore collects uploads in memory and serves deterministic URLs.
type BlobStore struct {
	mu             sync.Mutex
	Objects        map[string][]byte
	DeletedPrefix  []string
	FailNextUpload error
}

func NewBlobStore() *BlobStore {
	return &BlobStore{Objects: make(map[string][]byte)}
}

func (b *BlobStore) UploadRoomImage(userID, projectID, roomID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailNextUpload != nil {
		err := b.FailNextUpload
		b.FailNextUpload = nil
		return "", "", err
	}

	path := fmt.Sprintf("users/%s/projects/%s/rooms/%s/%s", userID, projectID, roomID, filename)
	b.Objects[path] = append([]byte(nil), data...)
	return path, "https://storage.test/" + path, nil
}

func (b *BlobStore) DeleteProjectFiles(userID, projectID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prefix := fmt.Sprintf("users/%s/projects/%s/", userID, projectID)
	for path := range b.Objects {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			delete(b.Objects, path)
		}
	}
	b.DeletedPrefix = append(b.DeletedPrefix, prefix)
	return nil
}

// Generator is a scriptable stand-in for the AI image-editing client.
type Generator struct {
	mu      sync.Mutex
	Result  []byte
	Mime    string
	Err     error
	EditFn  func(prompt string, image []byte) ([]byte, string, error)
	Prompts []string
}

func NewGenerator() *Generator {
	return &Generator{
		Result: []byte("generated-image"),
		Mime:   "image/png",
	}
}

func (g *Generator) EditImage(ctx context.Context, prompt string, image []byte, mimeType string) ([]byte, string, error) {
	g.mu.Lock()
	g.Prompts = append(g.Prompts, prompt)
	editFn := g.EditFn
	result, mime, err := g.Result, g.Mime, g.Err
	g.mu.Unlock()

	if editFn != nil {
		return editFn(prompt, image)
	}
	if err != nil {
		return nil, "", err
	}
	return result, mime, nil
}
