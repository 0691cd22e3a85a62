package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"decorize-backend/internal/decor"
	"decorize-backend/internal/models"
)

// RecordStore is the slice of the database the generation worker needs.
// Every mutation carries the owning user so the store can re-check
// ownership on each write.
type RecordStore interface {
	GetProject(projectID, userID uuid.UUID) (*models.Project, error)
	GetRoom(roomID, projectID uuid.UUID) (*models.Room, error)
	SetRoomProcessing(roomID, projectID, userID uuid.UUID, originalImageURL string, styles []string) error
	SetRoomCompleted(roomID, projectID, userID uuid.UUID) error
	SetRoomError(roomID, projectID, userID uuid.UUID, errorMessage string) error
	CreatePreview(preview *models.Preview) error
}

// BlobStore uploads image bytes and returns a storage path plus a
// stable public URL.
type BlobStore interface {
	UploadRoomImage(userID, projectID, roomID uuid.UUID, filename string, data []byte, contentType string) (string, string, error)
}

// Generator is the external AI image-editing service: one synchronous
// call, no internal retry.
type Generator interface {
	EditImage(ctx context.Context, prompt string, image []byte, mimeType string) ([]byte, string, error)
}

// RoomInput is one room's share of a generation batch.
type RoomInput struct {
	RoomID   uuid.UUID
	Filename string
	MimeType string
	Image    []byte
	Styles   []string
}

// RoomResult is what a successful worker run produces.
type RoomResult struct {
	RoomID           uuid.UUID
	OriginalImageURL string
	ResultImageURL   string
}

// RoomOutcome is a batch entry: exactly one of Result or Err is set.
type RoomOutcome struct {
	RoomID uuid.UUID
	Result *RoomResult
	Err    error
}

// GenerationService runs the per-room generation sequence and the batch
// fan-out around it. All collaborators are injected; nothing here holds
// process-wide state.
type GenerationService struct {
	records   RecordStore
	blobs     BlobStore
	generator Generator
}

func NewGenerationService(records RecordStore, blobs BlobStore, generator Generator) *GenerationService {
	return &GenerationService{
		records:   records,
		blobs:     blobs,
		generator: generator,
	}
}

// GenerateRoom runs one room's full sequence: precondition check,
// original upload, processing commit, AI call, result upload, preview
// insert, completion. Any failure after the precondition check moves
// the room to error state with the cause recorded; the returned error
// describes the same failure for the direct caller.
//
// Terminal rooms may be run again: each run produces a fresh preview
// and overwrites the status, which is how regeneration works.
func (s *GenerationService) GenerateRoom(ctx context.Context, userID, projectID uuid.UUID, input RoomInput) (*RoomResult, error) {
	if len(input.Styles) == 0 {
		return nil, fmt.Errorf("%w: at least one style is required", ErrValidation)
	}
	if len(input.Image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}

	// Preconditions mutate nothing: a missing or foreign project/room
	// stops the run before any write.
	if _, err := s.records.GetProject(projectID, userID); err != nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if _, err := s.records.GetRoom(input.RoomID, projectID); err != nil {
		return nil, fmt.Errorf("%w: room %s", ErrNotFound, input.RoomID)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), input.Filename)
	_, originalURL, err := s.blobs.UploadRoomImage(userID, projectID, input.RoomID, filename, input.Image, input.MimeType)
	if err != nil {
		err = fmt.Errorf("failed to upload original image: %w", err)
		s.failRoom(input.RoomID, projectID, userID, err)
		return nil, err
	}

	// Durable commit point: from here the room is visibly processing
	// and a crash leaves it recoverable into error by reconciliation.
	if err := s.records.SetRoomProcessing(input.RoomID, projectID, userID, originalURL, input.Styles); err != nil {
		err = fmt.Errorf("failed to start generation: %w", err)
		s.failRoom(input.RoomID, projectID, userID, err)
		return nil, err
	}

	prompt := decor.BuildPrompt(input.Styles)
	resultData, resultMime, err := s.generator.EditImage(ctx, prompt, input.Image, input.MimeType)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrGeneration, err)
		s.failRoom(input.RoomID, projectID, userID, err)
		return nil, err
	}

	resultFilename := fmt.Sprintf("result-%d%s", time.Now().UnixMilli(), extensionFor(resultMime))
	_, resultURL, err := s.blobs.UploadRoomImage(userID, projectID, input.RoomID, resultFilename, resultData, resultMime)
	if err != nil {
		err = fmt.Errorf("failed to upload generated image: %w", err)
		s.failRoom(input.RoomID, projectID, userID, err)
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]any{
		"mime_type": resultMime,
		"styles":    input.Styles,
	})
	preview := &models.Preview{
		ID:             uuid.New(),
		RoomID:         input.RoomID,
		ResultImageURL: resultURL,
		Metadata:       metadata,
	}
	if err := s.records.CreatePreview(preview); err != nil {
		err = fmt.Errorf("failed to persist preview: %w", err)
		s.failRoom(input.RoomID, projectID, userID, err)
		return nil, err
	}

	// Completion boundary: the preview row above is what makes this
	// write valid. A crash between the two leaves a processing room
	// whose preview already exists, which reconciliation can finish.
	if err := s.records.SetRoomCompleted(input.RoomID, projectID, userID); err != nil {
		err = fmt.Errorf("failed to mark room completed: %w", err)
		s.failRoom(input.RoomID, projectID, userID, err)
		return nil, err
	}

	return &RoomResult{
		RoomID:           input.RoomID,
		OriginalImageURL: originalURL,
		ResultImageURL:   resultURL,
	}, nil
}

// RunBatch fans the inputs out to one concurrent worker per room and
// waits for all of them to reach a terminal state. A room's failure is
// captured in its own outcome and never cancels sibling rooms.
// Outcomes are returned in input order regardless of completion order.
func (s *GenerationService) RunBatch(ctx context.Context, userID, projectID uuid.UUID, inputs []RoomInput) []RoomOutcome {
	outcomes := make([]RoomOutcome, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input RoomInput) {
			defer wg.Done()
			result, err := s.GenerateRoom(ctx, userID, projectID, input)
			outcomes[i] = RoomOutcome{
				RoomID: input.RoomID,
				Result: result,
				Err:    err,
			}
		}(i, input)
	}
	wg.Wait()

	return outcomes
}

// failRoom records the failure on the room itself. The write is
// best-effort: if it also fails the room stays in processing until an
// external reconciliation pass, which is logged rather than hidden.
func (s *GenerationService) failRoom(roomID, projectID, userID uuid.UUID, cause error) {
	if err := s.records.SetRoomError(roomID, projectID, userID, cause.Error()); err != nil {
		log.Printf("room %s: failed to record error status (room left in processing): %v", roomID, err)
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
