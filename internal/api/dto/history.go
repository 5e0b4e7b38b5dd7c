package dto

import (
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
)

// HistoryResponse is a page of the history the caller's plan can see
type HistoryResponse struct {
	Plan string `json:"plan"`
	utils.PaginatedResponse
}

// ExportResponse reports where a published export went
type ExportResponse struct {
	Location string `json:"location"`
	Format   string `json:"format"`
}
