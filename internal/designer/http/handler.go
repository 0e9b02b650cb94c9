package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/service"
)

const (
	sessionHeader = "X-Session-Id"
	designerKey   = "designer"
)

// Handler handles HTTP requests for designer sessions
type Handler struct {
	sessions      *service.Manager
	maxUploadSize int64
}

// New creates a new Handler
func New(sessions *service.Manager, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &Handler{sessions: sessions, maxUploadSize: maxUploadSize}
}

func sessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(sessionHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("session")); id != "" {
		return id
	}
	return service.DefaultSession
}

// withDesigner resolves the session designer for the request.
func (h *Handler) withDesigner(c *gin.Context) {
	c.Set(designerKey, h.sessions.Get(sessionID(c)))
	c.Next()
}

// requireReady turns commands issued before the renderer is ready into acknowledged no-ops.
func (h *Handler) requireReady(c *gin.Context) {
	if !designer(c).Ready(c.Request.Context()) {
		c.AbortWithStatusJSON(http.StatusAccepted, gin.H{
			"ready":   false,
			"message": "renderer not ready, command ignored",
		})
		return
	}
	c.Next()
}

func designer(c *gin.Context) *service.Designer {
	return c.MustGet(designerKey).(*service.Designer)
}

// writeError maps domain errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrObjectNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedSnapshot), errors.Is(err, domain.ErrDecodeFailure):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidSize),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrNotText),
		errors.Is(err, domain.ErrInvalidTransform):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSelection):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
