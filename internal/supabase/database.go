package supabase

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"decorize-backend/internal/models"
)

// DatabaseClient is the record store: direct PostgreSQL access to the
// projects, rooms and previews tables. Every query carries the owning
// user or project predicate, so a row is never read or mutated without
// re-checking ownership.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// CreateProjectWithRooms inserts a project in draft status plus one
// pending room per room type, all in a single transaction. Rooms are
// named after their room type; the label can be edited later.
func (d *DatabaseClient) CreateProjectWithRooms(userID uuid.UUID, name, placeType string, roomTypeIDs []string) (*models.Project, []models.Room, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var project models.Project
	err = tx.QueryRow(`
		INSERT INTO projects (id, user_id, name, place_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, place_type, status, created_at, updated_at
	`, uuid.New(), userID, name, placeType, models.ProjectStatusDraft).Scan(
		&project.ID, &project.UserID, &project.Name, &project.PlaceType,
		&project.Status, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create project: %w", err)
	}

	rooms := make([]models.Room, 0, len(roomTypeIDs))
	for _, roomType := range roomTypeIDs {
		var room models.Room
		err = tx.QueryRow(`
			INSERT INTO rooms (id, project_id, room_type, name, status, styles)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, project_id, room_type, name, original_image_url, styles, status, error_message, created_at, updated_at
		`, uuid.New(), project.ID, roomType, roomType, models.RoomStatusPending, pq.Array([]string{})).Scan(
			&room.ID, &room.ProjectID, &room.RoomType, &room.Name,
			&room.OriginalImageURL, pq.Array(&room.Styles), &room.Status,
			&room.ErrorMessage, &room.CreatedAt, &room.UpdatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit project: %w", err)
	}

	return &project, rooms, nil
}

func (d *DatabaseClient) GetProject(projectID, userID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := d.db.QueryRow(`
		SELECT id, user_id, name, place_type, status, created_at, updated_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID).Scan(
		&project.ID, &project.UserID, &project.Name, &project.PlaceType,
		&project.Status, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (d *DatabaseClient) ListProjects(userID uuid.UUID) ([]models.Project, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, name, place_type, status, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID, &project.UserID, &project.Name, &project.PlaceType,
			&project.Status, &project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// ListRoomStatusesByOwner returns (project id, room status) pairs for
// every room the user owns, for deriving aggregate project statuses in
// a list view without one query per project.
func (d *DatabaseClient) ListRoomStatusesByOwner(userID uuid.UUID) (map[uuid.UUID][]string, error) {
	rows, err := d.db.Query(`
		SELECT r.project_id, r.status
		FROM rooms r
		JOIN projects p ON p.id = r.project_id
		WHERE p.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[uuid.UUID][]string)
	for rows.Next() {
		var projectID uuid.UUID
		var status string
		if err := rows.Scan(&projectID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan room status: %w", err)
		}
		statuses[projectID] = append(statuses[projectID], status)
	}

	return statuses, rows.Err()
}

// DeleteProject removes the project row; rooms and previews go with it
// through ON DELETE CASCADE.
func (d *DatabaseClient) DeleteProject(projectID, userID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetRoom(roomID, projectID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := d.db.QueryRow(`
		SELECT id, project_id, room_type, name, original_image_url, styles, status, error_message, created_at, updated_at
		FROM rooms
		WHERE id = $1 AND project_id = $2
	`, roomID, projectID).Scan(
		&room.ID, &room.ProjectID, &room.RoomType, &room.Name,
		&room.OriginalImageURL, pq.Array(&room.Styles), &room.Status,
		&room.ErrorMessage, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return &room, nil
}

func (d *DatabaseClient) ListRooms(projectID uuid.UUID) ([]models.Room, error) {
	rows, err := d.db.Query(`
		SELECT id, project_id, room_type, name, original_image_url, styles, status, error_message, created_at, updated_at
		FROM rooms
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		err := rows.Scan(
			&room.ID, &room.ProjectID, &room.RoomType, &room.Name,
			&room.OriginalImageURL, pq.Array(&room.Styles), &room.Status,
			&room.ErrorMessage, &room.CreatedAt, &room.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// RoomStatuses is the snapshot read behind the live-updates stream.
func (d *DatabaseClient) RoomStatuses(projectID uuid.UUID) ([]models.RoomStatus, error) {
	rows, err := d.db.Query(`
		SELECT id, status, error_message
		FROM rooms
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read room statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.RoomStatus
	for rows.Next() {
		var status models.RoomStatus
		var errMsg sql.NullString
		if err := rows.Scan(&status.ID, &status.Status, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan room status: %w", err)
		}
		if errMsg.Valid {
			status.ErrorMessage = &errMsg.String
		}
		statuses = append(statuses, status)
	}

	return statuses, rows.Err()
}

// SetRoomProcessing records the durable commit point for a generation
// run: original image uploaded, styles chosen, work started. Ownership
// is re-checked through the project join.
func (d *DatabaseClient) SetRoomProcessing(roomID, projectID, userID uuid.UUID, originalImageURL string, styles []string) error {
	result, err := d.db.Exec(`
		UPDATE rooms
		SET original_image_url = $1, styles = $2, status = $3, error_message = NULL, updated_at = NOW()
		WHERE id = $4
		  AND project_id IN (SELECT id FROM projects WHERE id = $5 AND user_id = $6)
	`, originalImageURL, pq.Array(styles), models.RoomStatusProcessing, roomID, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark room processing: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark room processing: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetRoomCompleted flips the room to completed. The EXISTS guard keeps
// the invariant "completed iff a preview exists" inside the write
// itself: without a preview row the update is a no-op and an error.
func (d *DatabaseClient) SetRoomCompleted(roomID, projectID, userID uuid.UUID) error {
	result, err := d.db.Exec(`
		UPDATE rooms
		SET status = $1, error_message = NULL, updated_at = NOW()
		WHERE id = $2
		  AND project_id IN (SELECT id FROM projects WHERE id = $3 AND user_id = $4)
		  AND EXISTS (SELECT 1 FROM previews WHERE room_id = $2)
	`, models.RoomStatusCompleted, roomID, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark room completed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark room completed: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("room %s has no preview to complete with", roomID)
	}
	return nil
}

func (d *DatabaseClient) SetRoomError(roomID, projectID, userID uuid.UUID, errorMessage string) error {
	_, err := d.db.Exec(`
		UPDATE rooms
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
		  AND project_id IN (SELECT id FROM projects WHERE id = $4 AND user_id = $5)
	`, models.RoomStatusError, errorMessage, roomID, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark room errored: %w", err)
	}
	return nil
}

func (d *DatabaseClient) CreatePreview(preview *models.Preview) error {
	metadata := preview.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	err := d.db.QueryRow(`
		INSERT INTO previews (id, room_id, result_image_url, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, preview.ID, preview.RoomID, preview.ResultImageURL, metadata).Scan(&preview.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListPreviews(roomID uuid.UUID) ([]models.Preview, error) {
	rows, err := d.db.Query(`
		SELECT id, room_id, result_image_url, metadata, created_at
		FROM previews
		WHERE room_id = $1
		ORDER BY created_at DESC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list previews: %w", err)
	}
	defer rows.Close()

	var previews []models.Preview
	for rows.Next() {
		var preview models.Preview
		err := rows.Scan(
			&preview.ID, &preview.RoomID, &preview.ResultImageURL,
			&preview.Metadata, &preview.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preview: %w", err)
		}
		previews = append(previews, preview)
	}

	return previews, rows.Err()
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
