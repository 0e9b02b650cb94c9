package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

var sample = Submission{Image: "data:image/png;base64,AAAA", Color: "#FF0000", Size: domain.SizeL}

func TestStubTransport(t *testing.T) {
	ack, err := NewStubTransport().Submit(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, "stub", ack.Transport)
	assert.NotEmpty(t, ack.ID)
	assert.False(t, ack.AcceptedAt.IsZero())
}

func TestHTTPTransport_Submit(t *testing.T) {
	var got Submission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"order-7","message":"queued"}`))
	}))
	defer server.Close()

	ack, err := NewHTTPTransport(server.URL, 0).Submit(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
	assert.Equal(t, "order-7", ack.ID)
	assert.Equal(t, "queued", ack.Message)
	assert.Equal(t, "http", ack.Transport)
}

func TestHTTPTransport_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "printer on fire", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, 0).Submit(context.Background(), sample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPTransport_RateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, 0.5)
	_, err := tr.Submit(context.Background(), sample)
	require.NoError(t, err)

	// the burst is spent; the next token is two seconds away
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = tr.Submit(ctx, sample)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRedisTransport_Publishes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	ps := client.Subscribe(ctx, SubmissionChannel)
	defer ps.Close()
	_, err := ps.Receive(ctx)
	require.NoError(t, err)

	ack, err := NewRedisTransport(client).Submit(ctx, sample)
	require.NoError(t, err)
	assert.Equal(t, "redis", ack.Transport)
	assert.Equal(t, "published to 1 receivers", ack.Message)

	select {
	case msg := <-ps.Channel():
		var got publishedSubmission
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, ack.ID, got.ID)
		assert.Equal(t, sample, got.Submission)
	case <-time.After(2 * time.Second):
		t.Fatal("no submission published")
	}
}

func TestRedisTransport_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	_, err := NewRedisTransport(client).Submit(context.Background(), sample)
	assert.Error(t, err)
}
