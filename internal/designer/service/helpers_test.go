package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/compositor"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/persistence"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/repository"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/transport"
)

type testEnv struct {
	deps Deps
	mr   *miniredis.Miniredis
}

func sceneFactory(t *testing.T) SceneFactory {
	fonts, err := scene.LoadFonts()
	require.NoError(t, err)
	return func() (scene.Scene, error) {
		return scene.NewCanvas(fonts, domain.DefaultSafeArea()), nil
	}
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &testEnv{
		mr: mr,
		deps: Deps{
			Persistence:      persistence.NewService(repository.NewRedisSlotStore(client, 0), 0),
			Compositor:       compositor.New(nil, "tshirt"),
			Transport:        transport.NewStubTransport(),
			Area:             domain.DefaultSafeArea(),
			ExportMultiplier: domain.ExportMultiplier,
			NewScene:         sceneFactory(t),
		},
	}
}

func (e *testEnv) designer() *Designer {
	return NewDesigner(persistence.DefaultSlot, e.deps)
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// flakyFactory fails until ready is set.
type flakyFactory struct {
	ready atomic.Bool
	next  SceneFactory
}

func (f *flakyFactory) build() (scene.Scene, error) {
	if !f.ready.Load() {
		return nil, errors.New("fonts not loaded")
	}
	return f.next()
}

type failingTransport struct{}

func (failingTransport) Name() string { return "failing" }

func (failingTransport) Submit(context.Context, transport.Submission) (*transport.Ack, error) {
	return nil, errors.New("endpoint unreachable")
}
