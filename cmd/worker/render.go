package main

import (
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/compositor"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/persistence"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
)

func RunRender(args []string) {
	if len(args) < 2 {
		panic("usage: render <snapshot.json> <out.png> [base.png] [multiplier]")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		panic(err)
	}

	var base image.Image
	if len(args) > 2 && args[2] != "" {
		if base, err = compositor.LoadBase(args[2]); err != nil {
			panic(err)
		}
	}
	multiplier := float64(domain.ExportMultiplier)
	if len(args) > 3 {
		if multiplier, err = strconv.ParseFloat(args[3], 64); err != nil || multiplier <= 0 {
			panic(fmt.Sprintf("invalid multiplier %q", args[3]))
		}
	}

	out, snap, err := renderSnapshot(data, base, multiplier)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(args[1], out, 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote: %s (%d bytes, color %s, size %s)\n", args[1], len(out), snap.Color, snap.Size)
}

// renderSnapshot composites a stored snapshot envelope to PNG bytes.
func renderSnapshot(data []byte, base image.Image, multiplier float64) ([]byte, domain.DesignSnapshot, error) {
	snap, err := persistence.Decode(data)
	if err != nil {
		return nil, domain.DesignSnapshot{}, err
	}
	fonts, err := scene.LoadFonts()
	if err != nil {
		return nil, snap, err
	}
	canvas := scene.NewCanvas(fonts, domain.DefaultSafeArea())
	if err := canvas.Restore(snap.Canvas); err != nil {
		return nil, snap, err
	}

	img, err := compositor.New(base, "").Render(canvas, product.FilterFor(snap.Color), multiplier)
	if err != nil {
		return nil, snap, err
	}
	out, err := compositor.EncodePNG(img)
	return out, snap, err
}
