package dtos

import "github.com/init-pkg/mess-menu/domain/models"

type UploadMenuResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type ListMenusRequest struct {
	Date string `query:"date" json:"date" validate:"required"`
}

type ListMenusResponse struct {
	Date  string        `json:"date"`
	Menus []models.Menu `json:"menus"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
