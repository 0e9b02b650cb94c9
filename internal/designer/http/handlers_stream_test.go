package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

// readEvent returns the next "event:" name and its data line.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestStreamEvents(t *testing.T) {
	s := setupServer(t, nil)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/designer/events", nil)
	require.NoError(t, err)
	req.Header.Set(sessionHeader, "alice")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	name, data := readEvent(t, r)
	assert.Equal(t, "initial", name)
	assert.Contains(t, data, `"ready":true`)

	_, err = s.sessions.Get("alice").AddText(ctx, "LIVE", domain.DefaultTextStyle())
	require.NoError(t, err)

	name, data = readEvent(t, r)
	assert.Equal(t, "update", name)
	assert.Contains(t, data, `"event":"object:added"`)
	assert.Contains(t, data, `"label":"LIVE"`)

	s.sessions.Dispose("alice")
	for {
		name, _ = readEvent(t, r)
		if name == "closed" {
			break
		}
	}
}

func TestStreamEvents_UsesSessionHeader(t *testing.T) {
	s := setupServer(t, nil)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/designer/events?session=bob", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	name, _ := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "initial", name)
	_, ok := s.sessions.Lookup("bob")
	assert.True(t, ok)

	cancel()
	resp.Body.Close()
}
