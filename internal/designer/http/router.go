package http

import "github.com/gin-gonic/gin"

// Register registers the designer routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/swatches", h.ListSwatches)

	d := rg.Group("", h.withDesigner)
	d.GET("/state", h.GetState)
	d.GET("/events", h.StreamEvents)
	d.PUT("/attributes/color", h.SetColor)
	d.PUT("/attributes/size", h.SetSize)
	d.DELETE("/draft", h.DeleteDraft)

	cmd := d.Group("", h.requireReady)
	cmd.GET("/layers", h.ListLayers)
	cmd.POST("/text", h.AddText)
	cmd.POST("/images", h.UploadImage)
	cmd.PUT("/selection", h.Select)
	cmd.DELETE("/selection", h.DeleteSelected)
	cmd.DELETE("/objects", h.ClearScene)
	cmd.DELETE("/objects/:id", h.DeleteObject)
	cmd.POST("/objects/:id/move", h.MoveObject)
	cmd.POST("/objects/:id/scale", h.ScaleObject)
	cmd.PATCH("/objects/:id/text", h.EditText)
	cmd.POST("/save", h.Save)
	cmd.POST("/load", h.Load)
	cmd.GET("/export", h.Export)
	cmd.POST("/submit", h.Submit)
}
