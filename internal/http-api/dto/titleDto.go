package dto

import "reviewhub/internal/http-api/models"

// CreateTitleDTO for creating a title. Genre and category arrive as slugs
// and are resolved against existing rows; an unknown slug fails validation.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"omitempty"`
	Description *string  `json:"description" binding:"omitempty"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
}

// UpdateTitleDTO is a partial update; nil fields are left untouched.
type UpdateTitleDTO struct {
	Name        *string   `json:"name" binding:"omitempty"`
	Year        *int      `json:"year" binding:"omitempty"`
	Description *string   `json:"description" binding:"omitempty"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
}

// TitleResponse nests full category/genre objects plus the computed rating.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description,omitempty"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

// FromModelToTitleResponse converts a Title model to TitleResponse DTO
func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, *FromModelToGenreResponse(&g))
	}

	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       genres,
	}
	if t.Category != nil {
		resp.Category = FromModelToCategoryResponse(t.Category)
	}
	return resp
}

// PaginatedTitleResponse for returning paginated titles
type PaginatedTitleResponse struct {
	Data       []TitleResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedTitleResponse(data []TitleResponse, total int64, page, pageSize int) *PaginatedTitleResponse {
	return &PaginatedTitleResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
