package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSwatches(t *testing.T) {
	var buf bytes.Buffer
	RunSwatches(&buf)

	out := buf.String()
	assert.Contains(t, out, "white")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "#FF0000")
	assert.Contains(t, out, "brightness(0.9) sepia(1) hue-rotate(0deg) saturate(2)")
}

func TestRenderSnapshot(t *testing.T) {
	data := []byte(`{"canvas":{"version":1,"width":400,"height":500,"objects":[]},"color":"#000080","size":"L"}`)

	out, snap, err := renderSnapshot(data, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "#000080", snap.Color)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestRenderSnapshot_Malformed(t *testing.T) {
	_, _, err := renderSnapshot([]byte(`{"canvas":`), nil, 1)
	assert.Error(t, err)
}

func TestRunRender_Multiplier(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "snapshot.json")
	out := filepath.Join(dir, "design.png")
	require.NoError(t, os.WriteFile(in, []byte(`{"canvas":{"version":1,"objects":[]},"color":"#FFFFFF","size":"M"}`), 0644))

	RunRender([]string{in, out, "", "1.5"})

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 750, cfg.Height)

	assert.Panics(t, func() { RunRender([]string{in, out, "", "zero"}) })
}
