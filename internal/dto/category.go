package dto

import (
	"github.com/finlens/finlens_backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a user category.
type CreateCategoryRequest struct {
	Name         string              `json:"name" binding:"required"`
	CategoryType domain.CategoryType `json:"categoryType" binding:"required,oneof=income expense"`
	Color        string              `json:"color"`
	Icon         string              `json:"icon"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID   string              `json:"categoryID"`
	Name         string              `json:"name"`
	CategoryType domain.CategoryType `json:"categoryType"`
	Color        string              `json:"color"`
	Icon         string              `json:"icon,omitempty"`
	IsSystem     bool                `json:"isSystem"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO
func ToCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:   cat.CategoryID,
		Name:         cat.Name,
		CategoryType: cat.CategoryType,
		Color:        cat.Color,
		Icon:         cat.Icon,
		IsSystem:     cat.IsSystem,
	}
}

// ToListCategoryResponse converts a slice of domain.Category to CategoryResponse DTOs
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
