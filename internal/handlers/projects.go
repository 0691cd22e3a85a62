package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"decorize-backend/internal/decor"
	"decorize-backend/internal/models"
)

type ProjectsHandler struct {
	store   Store
	storage BlobDeleter
}

func NewProjectsHandler(store Store, storage BlobDeleter) *ProjectsHandler {
	return &ProjectsHandler{
		store:   store,
		storage: storage,
	}
}

// CreateProject creates a project in draft status with one pending room
// per requested room type.
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if req.Name == "" || req.PlaceType == "" || len(req.RoomTypeIDs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name, placeType and roomTypeIds are required"})
		return
	}
	if _, ok := decor.PlaceByID(req.PlaceType); !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown place type: " + req.PlaceType})
		return
	}
	for _, roomTypeID := range req.RoomTypeIDs {
		if !decor.ValidRoomTypeForPlace(req.PlaceType, roomTypeID) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid room type for place: " + roomTypeID})
			return
		}
	}

	project, _, err := h.store.CreateProjectWithRooms(userID, req.Name, req.PlaceType, req.RoomTypeIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create project",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CreateProjectResponse{
		ProjectID: project.ID.String(),
		Message:   "project created successfully",
	})
}

// ListProjects returns the caller's projects, newest first, with the
// aggregate status derived from each project's room statuses.
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	projects, err := h.store.ListProjects(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list projects",
			Message: err.Error(),
		})
		return
	}

	roomStatuses, err := h.store.ListRoomStatusesByOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list projects",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		summaries[i] = projectResponse(p, roomStatuses[p.ID])
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: summaries})
}

// GetProject returns a project with its rooms (creation order) and each
// room's previews (newest first).
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	project, err := h.store.GetProject(projectID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return
	}

	rooms, err := h.store.ListRooms(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list rooms",
			Message: err.Error(),
		})
		return
	}

	roomResponses := make([]models.RoomResponse, len(rooms))
	statuses := make([]string, len(rooms))
	for i, room := range rooms {
		previews, err := h.store.ListPreviews(room.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to list previews",
				Message: err.Error(),
			})
			return
		}
		roomResponses[i] = roomResponse(room, previews)
		statuses[i] = room.Status
	}

	c.JSON(http.StatusOK, models.ProjectDetailResponse{
		Project: projectResponse(*project, statuses),
		Rooms:   roomResponses,
	})
}

// DeleteProject removes the project, its rooms and previews, and the
// stored images under the project's storage prefix.
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	if _, err := h.store.GetProject(projectID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return
	}

	// Storage cleanup is best-effort; orphaned blobs are preferable to
	// a project row that cannot be deleted.
	if err := h.storage.DeleteProjectFiles(userID, projectID); err != nil {
		log.Printf("project %s: failed to delete storage files: %v", projectID, err)
	}

	if err := h.store.DeleteProject(projectID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete project",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted successfully"})
}

func projectResponse(p models.Project, roomStatuses []string) models.ProjectResponse {
	status := p.Status
	if derived := models.DeriveProjectStatus(roomStatuses); len(roomStatuses) > 0 {
		status = derived
	}
	return models.ProjectResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		PlaceType: p.PlaceType,
		Status:    status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func roomResponse(room models.Room, previews []models.Preview) models.RoomResponse {
	resp := models.RoomResponse{
		ID:        room.ID.String(),
		ProjectID: room.ProjectID.String(),
		RoomType:  room.RoomType,
		Name:      room.Name,
		Styles:    room.Styles,
		Status:    room.Status,
		CreatedAt: room.CreatedAt,
		Previews:  make([]models.PreviewResponse, len(previews)),
	}
	if room.OriginalImageURL.Valid {
		resp.OriginalImageURL = room.OriginalImageURL.String
	}
	if room.ErrorMessage.Valid {
		resp.ErrorMessage = room.ErrorMessage.String
	}
	for i, preview := range previews {
		resp.Previews[i] = models.PreviewResponse{
			ID:             preview.ID.String(),
			RoomID:         preview.RoomID.String(),
			ResultImageURL: preview.ResultImageURL,
			CreatedAt:      preview.CreatedAt,
		}
	}
	return resp
}
