package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamEvents streams the session's change feed using Server-Sent Events (SSE)
func (h *Handler) StreamEvents(c *gin.Context) {
	d := designer(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	events := d.Subscribe()
	defer d.Unsubscribe(events)

	initialData, _ := json.Marshal(d.State(c.Request.Context()))
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", string(initialData))
	flusher.Flush()

	ctx := c.Request.Context()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case data, open := <-events:
			if !open {
				// session disposed
				fmt.Fprint(c.Writer, "event: closed\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", string(data))
			flusher.Flush()
		}
	}
}
