package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextStyle_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   TextStyle
		want TextStyle
	}{
		{
			name: "zero value gets defaults",
			in:   TextStyle{},
			want: DefaultTextStyle(),
		},
		{
			name: "font size clamped to minimum",
			in:   TextStyle{FontFamily: "Courier", FontSize: 2, Fill: "#FF0000", Align: AlignLeft},
			want: TextStyle{FontFamily: "Courier", FontSize: MinFontSize, Fill: "#FF0000", Align: AlignLeft},
		},
		{
			name: "font size clamped to maximum and unknown align reset",
			in:   TextStyle{FontSize: 500, Align: "justify"},
			want: TextStyle{FontFamily: "Arial", FontSize: MaxFontSize, Fill: "#000000", Align: AlignCenter},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestBoundsFor(t *testing.T) {
	t.Run("center origin", func(t *testing.T) {
		r := BoundsFor(Transform{X: 200, Y: 200, ScaleX: 2, ScaleY: 1, Origin: OriginCenter}, 50, 20)
		assert.Equal(t, Rect{X: 150, Y: 190, W: 100, H: 20}, r)
	})

	t.Run("top-left origin", func(t *testing.T) {
		r := BoundsFor(Transform{X: 60, Y: 110, ScaleX: 0.5, ScaleY: 0.5, Origin: OriginTopLeft}, 100, 40)
		assert.Equal(t, Rect{X: 60, Y: 110, W: 50, H: 20}, r)
	})
}

func TestSafeArea(t *testing.T) {
	a := DefaultSafeArea()
	x, y := a.Center()
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 200.0, y)
	assert.Equal(t, 300.0, a.Width())
	assert.Equal(t, 200.0, a.Height())
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize(" xl ")
	require.NoError(t, err)
	assert.Equal(t, SizeXL, s)

	_, err = ParseSize("XS")
	assert.True(t, errors.Is(err, ErrInvalidSize))

	assert.Equal(t, []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL}, Sizes())
}

func TestDefaultProductAttributes(t *testing.T) {
	assert.Equal(t, ProductAttributes{Color: "#FFFFFF", Size: SizeM}, DefaultProductAttributes())
}

func TestCheckTransform(t *testing.T) {
	ok := Transform{X: 200, Y: 200, ScaleX: 1, ScaleY: 1, Origin: OriginCenter}
	tests := []struct {
		name    string
		mutate  func(*Transform)
		w, h    float64
		wantErr bool
	}{
		{"valid", func(*Transform) {}, 100, 50, false},
		{"max scale small object", func(tr *Transform) { tr.ScaleX, tr.ScaleY = MaxScale, MaxScale }, 10, 10, false},
		{"infinite x", func(tr *Transform) { tr.X = math.Inf(1) }, 100, 50, true},
		{"nan scale", func(tr *Transform) { tr.ScaleY = math.NaN() }, 100, 50, true},
		{"zero scale", func(tr *Transform) { tr.ScaleX = 0 }, 100, 50, true},
		{"scale above max", func(tr *Transform) { tr.ScaleX = MaxScale + 0.5 }, 1, 1, true},
		{"wider than extent", func(tr *Transform) { tr.ScaleX = 17 }, 100, 50, true},
		{"taller than extent", func(tr *Transform) { tr.ScaleY = 5 }, 10, 401, true},
		{"far away", func(tr *Transform) { tr.Y = -1e9 }, 100, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ok
			tt.mutate(&tr)
			err := CheckTransform(tr, tt.w, tt.h)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidTransform), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
