// Package transport hands finished designs to whatever receives submissions.
package transport

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

// Submission is the payload handed to the transport
type Submission struct {
	Image string      `json:"image"` // base64 PNG data URL
	Color string      `json:"color"`
	Size  domain.Size `json:"size"`
}

// Ack confirms a submission was accepted
type Ack struct {
	ID         string    `json:"id"`
	Transport  string    `json:"transport"`
	AcceptedAt time.Time `json:"accepted_at"`
	Message    string    `json:"message,omitempty"`
}

// Transport delivers submissions. Retry policy belongs to the implementation.
type Transport interface {
	Name() string
	Submit(ctx context.Context, sub Submission) (*Ack, error)
}

// StubTransport accepts every submission locally and only logs it.
type StubTransport struct{}

func NewStubTransport() *StubTransport { return &StubTransport{} }

func (StubTransport) Name() string { return "stub" }

func (StubTransport) Submit(ctx context.Context, sub Submission) (*Ack, error) {
	log.Printf("[info] operation=submit transport=stub color=%s size=%s image_bytes=%d", sub.Color, sub.Size, len(sub.Image))
	return &Ack{
		ID:         uuid.New().String(),
		Transport:  "stub",
		AcceptedAt: time.Now().UTC(),
		Message:    "design accepted locally",
	}, nil
}
