package models

import "time"

type CreateProjectResponse struct {
	ProjectID string `json:"projectId"`
	Message   string `json:"message"`
}

type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PlaceType string    `json:"place_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type ProjectDetailResponse struct {
	Project ProjectResponse `json:"project"`
	Rooms   []RoomResponse  `json:"rooms"`
}

type RoomResponse struct {
	ID               string            `json:"id"`
	ProjectID        string            `json:"project_id"`
	RoomType         string            `json:"room_type"`
	Name             string            `json:"name"`
	OriginalImageURL string            `json:"original_image_url,omitempty"`
	Styles           []string          `json:"styles"`
	Status           string            `json:"status"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	Previews         []PreviewResponse `json:"previews"`
}

type PreviewResponse struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"room_id"`
	ResultImageURL string    `json:"result_image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type GeneratePreviewResponse struct {
	Success          bool   `json:"success"`
	RoomID           string `json:"roomId"`
	OriginalImageURL string `json:"originalImageUrl"`
	ResultImageURL   string `json:"resultImageUrl"`
}

type BatchOutcomeResponse struct {
	RoomID           string `json:"roomId"`
	Status           string `json:"status"`
	OriginalImageURL string `json:"originalImageUrl,omitempty"`
	ResultImageURL   string `json:"resultImageUrl,omitempty"`
	Error            string `json:"error,omitempty"`
}

type BatchGenerateResponse struct {
	ProjectID string                 `json:"projectId"`
	Outcomes  []BatchOutcomeResponse `json:"outcomes"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
