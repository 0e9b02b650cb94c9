package scene

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

func TestCanvas_SerializeRestoreRoundTrip(t *testing.T) {
	src := newTestCanvas(t)
	textID, err := src.AddText("HELLO", domain.TextStyle{FontSize: 36, Fill: "#FF0000", Bold: true})
	require.NoError(t, err)
	imgID, err := src.AddImage(solid(40, 20, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NoError(t, err)
	require.NoError(t, src.SetTransform(textID, domain.Transform{X: 120, Y: 140, ScaleX: 1.5, ScaleY: 1.5}))

	blob, err := src.Serialize()
	require.NoError(t, err)

	dst := newTestCanvas(t)
	var events []EventType
	dst.Subscribe(func(ev Event) { events = append(events, ev.Type) })
	require.NoError(t, dst.Restore(blob))

	assert.Equal(t, src.Objects(), dst.Objects())
	assert.Equal(t, []EventType{EventRestored}, events)
	_, selected := dst.Selected()
	assert.False(t, selected)

	again, err := dst.Serialize()
	require.NoError(t, err)
	assert.Equal(t, string(blob), string(again))

	obj, ok := dst.Object(imgID)
	require.True(t, ok)
	assert.Equal(t, 40.0, obj.Width)
}

func TestCanvas_RestoreEmpty(t *testing.T) {
	c := newTestCanvas(t)
	c.AddText("gone", domain.TextStyle{})

	require.NoError(t, c.Restore([]byte(`{}`)))
	assert.Equal(t, 0, c.Len())
}

func TestCanvas_RestoreMalformedLeavesSceneUntouched(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", `{"objects":`},
		{"future version", `{"version":99,"objects":[]}`},
		{"unknown kind", `{"objects":[{"id":"a","kind":"video","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1}}]}`},
		{"zero scale", `{"objects":[{"id":"a","kind":"text","content":"x","transform":{"x":1,"y":1,"scale_x":0,"scale_y":1}}]}`},
		{"bad origin", `{"objects":[{"id":"a","kind":"text","content":"x","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1,"origin":"middle"}}]}`},
		{"empty text", `{"objects":[{"id":"a","kind":"text","content":"","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1}}]}`},
		{"blank text", `{"objects":[{"id":"a","kind":"text","content":"   \n\t","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1}}]}`},
		{"scale too large", `{"objects":[{"id":"a","kind":"text","content":"x","transform":{"x":200,"y":200,"scale_x":1e300,"scale_y":1e300}}]}`},
		{"scaled past canvas", `{"objects":[{"id":"a","kind":"text","content":"WIDE TEXT","transform":{"x":200,"y":200,"scale_x":19,"scale_y":19}}]}`},
		{"far off canvas", `{"objects":[{"id":"a","kind":"text","content":"x","transform":{"x":1e12,"y":200,"scale_x":1,"scale_y":1}}]}`},
		{"bad image", `{"objects":[{"id":"a","kind":"image","source":"data:image/png;base64,AAAA","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1}}]}`},
		{"duplicate ids", `{"objects":[` +
			`{"id":"a","kind":"text","content":"x","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1}},` +
			`{"id":"a","kind":"text","content":"y","transform":{"x":1,"y":1,"scale_x":1,"scale_y":1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCanvas(t)
			id, _ := c.AddText("keep", domain.TextStyle{})
			before := c.Objects()

			err := c.Restore([]byte(tt.blob))
			assert.True(t, errors.Is(err, domain.ErrMalformedSnapshot), "got %v", err)
			assert.Equal(t, before, c.Objects())
			sel, _ := c.Selected()
			assert.Equal(t, id, sel)
		})
	}
}

func TestCanvas_RestoreAssignsMissingIDs(t *testing.T) {
	c := newTestCanvas(t)
	require.NoError(t, c.Restore([]byte(`{"objects":[{"kind":"text","content":"x","transform":{"x":200,"y":200,"scale_x":1,"scale_y":1}}]}`)))

	objs := c.Objects()
	require.Len(t, objs, 1)
	assert.NotEmpty(t, objs[0].ID)
	assert.Equal(t, domain.OriginCenter, objs[0].Transform.Origin)
	assert.Equal(t, domain.DefaultTextStyle(), *objs[0].Style)
}
