package dto

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid request body"`
	Code    string `json:"code,omitempty" example:"invalid_request"`
}
