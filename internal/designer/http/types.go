package http

import "github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"

type addTextRequest struct {
	Content string            `json:"content" binding:"required"`
	Style   *domain.TextStyle `json:"style,omitempty"`
}

type editTextRequest struct {
	Content *string           `json:"content,omitempty"`
	Style   *domain.TextStyle `json:"style,omitempty"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type moveRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

type scaleRequest struct {
	ScaleX float64 `json:"scale_x" binding:"required"`
	ScaleY float64 `json:"scale_y" binding:"required"`
}

type colorRequest struct {
	Color string `json:"color" binding:"required"`
}

type sizeRequest struct {
	Size string `json:"size" binding:"required"`
}
