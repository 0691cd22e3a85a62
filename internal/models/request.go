package models

type CreateProjectRequest struct {
	Name        string   `json:"name"`
	PlaceType   string   `json:"placeType"`
	RoomTypeIDs []string `json:"roomTypeIds"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}
