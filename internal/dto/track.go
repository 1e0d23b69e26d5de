package dto

type TrackResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"session tracked"`
}
