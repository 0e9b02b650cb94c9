package bootstrap

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/tee-designer/config"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/compositor"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/persistence"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/repository"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/service"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/transport"
)

// SafeArea converts the configured bounds.
func SafeArea(cfg *config.DesignerConfig) domain.SafeArea {
	a := cfg.SafeArea
	return domain.SafeArea{MinX: a[0], MinY: a[1], MaxX: a[2], MaxY: a[3]}
}

// NewTransport selects the submission transport named by SUBMIT_TRANSPORT.
func NewTransport(cfg *config.SubmitConfig, client *redis.Client) (transport.Transport, error) {
	switch cfg.Transport {
	case "", "stub":
		return transport.NewStubTransport(), nil
	case "http":
		return transport.NewHTTPTransport(cfg.URL, cfg.Rate), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis transport requires a redis client")
		}
		return transport.NewRedisTransport(client), nil
	}
	return nil, fmt.Errorf("unknown submit transport %q", cfg.Transport)
}

// NewSceneFactory loads the fonts once and builds a canvas per session.
// A font failure leaves sessions not ready and is retried on the next command.
func NewSceneFactory(area domain.SafeArea) service.SceneFactory {
	var (
		mu    sync.Mutex
		fonts *scene.Fonts
	)
	return func() (scene.Scene, error) {
		mu.Lock()
		defer mu.Unlock()
		if fonts == nil {
			f, err := scene.LoadFonts()
			if err != nil {
				return nil, err
			}
			fonts = f
		}
		return scene.NewCanvas(fonts, area), nil
	}
}

// LoadBaseImage reads BASE_IMAGE_PATH, falling back to the built-in silhouette.
func LoadBaseImage(path string) image.Image {
	if path == "" {
		return compositor.PlaceholderBase()
	}
	img, err := compositor.LoadBase(path)
	if err != nil {
		log.Printf("Warning: failed to load base image %s, using placeholder: %v", path, err)
		return compositor.PlaceholderBase()
	}
	return img
}

// BuildDesignerDeps wires the collaborators shared by every session.
func BuildDesignerDeps(cfg *config.Config, store repository.SlotStore, client *redis.Client) (service.Deps, error) {
	tr, err := NewTransport(&cfg.Submit, client)
	if err != nil {
		return service.Deps{}, err
	}
	area := SafeArea(&cfg.Designer)
	return service.Deps{
		Persistence:      persistence.NewService(store, cfg.Store.MaxBytes),
		Compositor:       compositor.New(LoadBaseImage(cfg.Designer.BaseImagePath), cfg.Designer.ProductName),
		Transport:        tr,
		Area:             area,
		ExportMultiplier: cfg.Designer.ExportMultiplier,
		NewScene:         NewSceneFactory(area),
	}, nil
}
