package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"decorize-backend/internal/models"
	"decorize-backend/internal/services"
)

const maxUploadMemory = 32 << 20 // 32MB

type PreviewsHandler struct {
	store      Store
	generation *services.GenerationService
}

func NewPreviewsHandler(store Store, generation *services.GenerationService) *PreviewsHandler {
	return &PreviewsHandler{
		store:      store,
		generation: generation,
	}
}

// GeneratePreview runs the full generation sequence for a single room:
// multipart {projectId, roomId, image, styles}. On upstream failure the
// room is left in error state and the response carries the room id.
func (h *PreviewsHandler) GeneratePreview(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	projectID, err := uuid.Parse(c.PostForm("projectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}
	roomID, err := uuid.Parse(c.PostForm("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid room id"})
		return
	}

	styles, err := parseStyles(c.PostForm("styles"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "image file is required"})
		return
	}
	data, mimeType, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read image",
			Message: err.Error(),
		})
		return
	}

	result, err := h.generation.GenerateRoom(c.Request.Context(), userID, projectID, services.RoomInput{
		RoomID:   roomID,
		Filename: fileHeader.Filename,
		MimeType: mimeType,
		Image:    data,
		Styles:   styles,
	})
	if err != nil {
		h.writeGenerationError(c, roomID, err)
		return
	}

	c.JSON(http.StatusOK, models.GeneratePreviewResponse{
		Success:          true,
		RoomID:           result.RoomID.String(),
		OriginalImageURL: result.OriginalImageURL,
		ResultImageURL:   result.ResultImageURL,
	})
}

// BatchGenerate fans one worker out per room of a project. Multipart:
// files under "images", form field "rooms" with comma-separated room
// ids positionally matching the files, and "styles" as a JSON object
// mapping room id to a style-id array. Per-room failures come back as
// error outcomes; the batch itself responds 200 as long as the input
// was well-formed.
func (h *PreviewsHandler) BatchGenerate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	// Reject a foreign or missing project at the boundary instead of
	// handing every room a not-found outcome.
	if _, err := h.store.GetProject(projectID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	form := c.Request.MultipartForm
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no files uploaded under field 'images'"})
		return
	}

	roomIDs := strings.Split(c.PostForm("rooms"), ",")
	for i := range roomIDs {
		roomIDs[i] = strings.TrimSpace(roomIDs[i])
	}
	if len(roomIDs) != len(files) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("provided %d room ids but %d files", len(roomIDs), len(files)),
		})
		return
	}

	var stylesByRoom map[string][]string
	if err := json.Unmarshal([]byte(c.PostForm("styles")), &stylesByRoom); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "styles must be a JSON object mapping room id to style ids",
			Message: err.Error(),
		})
		return
	}

	inputs := make([]services.RoomInput, len(files))
	for i, fileHeader := range files {
		roomID, err := uuid.Parse(roomIDs[i])
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid room id: " + roomIDs[i]})
			return
		}
		styles := stylesByRoom[roomIDs[i]]
		if len(styles) == 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:  "at least one style is required per room",
				RoomID: roomIDs[i],
			})
			return
		}
		data, mimeType, err := readUpload(fileHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read image " + fileHeader.Filename,
				Message: err.Error(),
			})
			return
		}
		inputs[i] = services.RoomInput{
			RoomID:   roomID,
			Filename: fileHeader.Filename,
			MimeType: mimeType,
			Image:    data,
			Styles:   styles,
		}
	}

	outcomes := h.generation.RunBatch(c.Request.Context(), userID, projectID, inputs)

	response := models.BatchGenerateResponse{
		ProjectID: projectID.String(),
		Outcomes:  make([]models.BatchOutcomeResponse, len(outcomes)),
	}
	for i, outcome := range outcomes {
		out := models.BatchOutcomeResponse{RoomID: outcome.RoomID.String()}
		if outcome.Err != nil {
			out.Status = models.RoomStatusError
			out.Error = outcome.Err.Error()
		} else {
			out.Status = models.RoomStatusCompleted
			out.OriginalImageURL = outcome.Result.OriginalImageURL
			out.ResultImageURL = outcome.Result.ResultImageURL
		}
		response.Outcomes[i] = out
	}

	c.JSON(http.StatusOK, response)
}

func (h *PreviewsHandler) writeGenerationError(c *gin.Context, roomID uuid.UUID, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), RoomID: roomID.String()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error(), RoomID: roomID.String()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:  "failed to generate decoration",
			RoomID: roomID.String(),
		})
	}
}

func parseStyles(raw string) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("styles field is required")
	}
	var styles []string
	if err := json.Unmarshal([]byte(raw), &styles); err != nil {
		return nil, fmt.Errorf("styles must be a JSON array of style ids")
	}
	if len(styles) == 0 {
		return nil, fmt.Errorf("at least one style is required")
	}
	return styles, nil
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimeTypeFromFilename(fileHeader.Filename)
	}

	return data, mimeType, nil
}

func mimeTypeFromFilename(filename string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(filename), ".webp"):
		return "image/webp"
	case strings.HasSuffix(strings.ToLower(filename), ".heic"):
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
