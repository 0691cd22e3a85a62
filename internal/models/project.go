package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	PlaceType string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Room struct {
	ID               uuid.UUID
	ProjectID        uuid.UUID
	RoomType         string
	Name             string
	OriginalImageURL sql.NullString
	Styles           []string
	Status           string
	ErrorMessage     sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Preview struct {
	ID             uuid.UUID
	RoomID         uuid.UUID
	ResultImageURL string
	Metadata       json.RawMessage
	CreatedAt      time.Time
}

// RoomStatus is the per-room slice of state pushed down the live-updates
// stream: just enough for a client to render progress.
type RoomStatus struct {
	ID           uuid.UUID `json:"id"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message"`
}
