package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/service"
)

// ListSwatches returns the garment colors
func (h *Handler) ListSwatches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"swatches": product.Swatches(),
		"sizes":    domain.Sizes(),
	})
}

// GetState returns the session's layers, objects and product attributes
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, designer(c).State(c.Request.Context()))
}

func (h *Handler) ListLayers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"layers": designer(c).Layers(c.Request.Context())})
}

// AddText adds a text layer
func (h *Handler) AddText(c *gin.Context) {
	var req addTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	style := domain.DefaultTextStyle()
	if req.Style != nil {
		style = *req.Style
	}
	id, err := designer(c).AddText(c.Request.Context(), req.Content, style)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UploadImage decodes a multipart "file" and adds it as an image layer
func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required", "details": err.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload", "details": err.Error()})
		return
	}
	defer f.Close()

	res, err := designer(c).AddImage(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if res.Dropped {
		c.JSON(http.StatusConflict, gin.H{"dropped": true, "message": "scene changed during upload"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": res.ID})
}

// Select sets or clears the active object
func (h *Handler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := designer(c).Select(c.Request.Context(), req.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": req.ID})
}

// DeleteSelected removes the active object
func (h *Handler) DeleteSelected(c *gin.Context) {
	id, err := designer(c).RemoveSelected(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) DeleteObject(c *gin.Context) {
	id := c.Param("id")
	if err := designer(c).Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ClearScene removes every object
func (h *Handler) ClearScene(c *gin.Context) {
	designer(c).Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// MoveObject is one drag tick; the response carries the clamped transform
func (h *Handler) MoveObject(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	t, err := designer(c).Move(c.Request.Context(), c.Param("id"), *req.X, *req.Y)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transform": t})
}

func (h *Handler) ScaleObject(c *gin.Context) {
	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	t, err := designer(c).Scale(c.Request.Context(), c.Param("id"), req.ScaleX, req.ScaleY)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transform": t})
}

// EditText changes content and/or style of a text object
func (h *Handler) EditText(c *gin.Context) {
	var req editTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	obj, err := designer(c).EditText(c.Request.Context(), c.Param("id"), service.TextEdit{
		Content: req.Content,
		Style:   req.Style,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"object": obj})
}

// SetColor changes the garment color
func (h *Handler) SetColor(c *gin.Context) {
	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	f, err := designer(c).SetColor(c.Request.Context(), req.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	attrs, _ := designer(c).Attributes()
	c.JSON(http.StatusOK, gin.H{"attributes": attrs, "filter": f.String()})
}

func (h *Handler) SetSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	size, err := domain.ParseSize(req.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := designer(c).SetSize(c.Request.Context(), size); err != nil {
		writeError(c, err)
		return
	}
	attrs, _ := designer(c).Attributes()
	c.JSON(http.StatusOK, gin.H{"attributes": attrs})
}

// Save writes the current design to the session slot
func (h *Handler) Save(c *gin.Context) {
	d := designer(c)
	if err := d.Save(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "slot": d.Slot()})
}

// Load restores the session slot into the scene
func (h *Handler) Load(c *gin.Context) {
	d := designer(c)
	if err := d.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.State(c.Request.Context()))
}

func (h *Handler) DeleteDraft(c *gin.Context) {
	if err := designer(c).DeleteDraft(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export streams the composited PNG as a download
func (h *Handler) Export(c *gin.Context) {
	var multiplier float64
	if raw := c.Query("multiplier"); raw != "" {
		m, err := strconv.ParseFloat(raw, 64)
		if err != nil || m <= 0 || m > 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multiplier must be a number in (0, 8]"})
			return
		}
		multiplier = m
	}
	exp, _, err := designer(c).Export(c.Request.Context(), multiplier)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName))
	c.Data(http.StatusOK, "image/png", exp.PNG)
}

// Submit renders the design and hands it to the configured transport
func (h *Handler) Submit(c *gin.Context) {
	ack, err := designer(c).Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if ack == nil {
		c.JSON(http.StatusAccepted, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusAccepted, ack)
}
