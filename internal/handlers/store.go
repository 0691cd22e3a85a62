package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"decorize-backend/internal/middleware"
	"decorize-backend/internal/models"
)

// Store is the record-store surface the HTTP handlers use. It is
// satisfied by *supabase.DatabaseClient and by the in-memory store the
// tests run against.
type Store interface {
	CreateProjectWithRooms(userID uuid.UUID, name, placeType string, roomTypeIDs []string) (*models.Project, []models.Room, error)
	GetProject(projectID, userID uuid.UUID) (*models.Project, error)
	ListProjects(userID uuid.UUID) ([]models.Project, error)
	ListRoomStatusesByOwner(userID uuid.UUID) (map[uuid.UUID][]string, error)
	DeleteProject(projectID, userID uuid.UUID) error
	ListRooms(projectID uuid.UUID) ([]models.Room, error)
	ListPreviews(roomID uuid.UUID) ([]models.Preview, error)
	RoomStatuses(projectID uuid.UUID) ([]models.RoomStatus, error)
}

// BlobDeleter is the storage surface project deletion needs.
type BlobDeleter interface {
	DeleteProjectFiles(userID, projectID uuid.UUID) error
}

// userIDFromContext pulls the authenticated user id set by the auth
// middleware. On failure it writes the response and returns false.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}

	return userID, true
}
