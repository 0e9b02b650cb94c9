package layers

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
)

func newCanvas(t *testing.T) *scene.Canvas {
	t.Helper()
	fonts, err := scene.LoadFonts()
	require.NoError(t, err)
	return scene.NewCanvas(fonts, domain.DefaultSafeArea())
}

func TestRegistry_FollowsScene(t *testing.T) {
	c := newCanvas(t)
	r := NewRegistry(c)
	defer r.Close()

	textID, err := c.AddText("HELLO", domain.TextStyle{})
	require.NoError(t, err)
	imgID, err := c.AddImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)

	assert.Equal(t, []domain.LayerEntry{
		{ID: textID, Kind: domain.KindText, Label: "HELLO"},
		{ID: imgID, Kind: domain.KindImage, Label: "image"},
	}, r.Entries())

	require.NoError(t, c.RemoveObject(textID))
	assert.Equal(t, 1, r.Len())

	c.Clear()
	assert.Empty(t, r.Entries())
}

func TestRegistry_CountMatchesObjects(t *testing.T) {
	c := newCanvas(t)
	r := NewRegistry(c)
	defer r.Close()

	rng := rand.New(rand.NewSource(42))
	var ids []string
	for i := 0; i < 200; i++ {
		if len(ids) == 0 || rng.Intn(3) > 0 {
			id, err := c.AddText("layer", domain.TextStyle{})
			require.NoError(t, err)
			ids = append(ids, id)
		} else {
			k := rng.Intn(len(ids))
			require.NoError(t, c.RemoveObject(ids[k]))
			ids = append(ids[:k], ids[k+1:]...)
		}
		if r.Len() != c.Len() {
			t.Fatalf("step %d: %d layers for %d objects", i, r.Len(), c.Len())
		}
	}
}

func TestRegistry_RebuildIsIdempotent(t *testing.T) {
	c := newCanvas(t)
	r := NewRegistry(c)
	defer r.Close()
	c.AddText("A", domain.TextStyle{})

	before := r.Entries()
	v := r.Version()
	r.Rebuild()
	r.Rebuild()
	assert.Equal(t, before, r.Entries())
	assert.Equal(t, v+2, r.Version())
}

func TestRegistry_CloseStopsFollowing(t *testing.T) {
	c := newCanvas(t)
	r := NewRegistry(c)
	r.Close()

	c.AddText("late", domain.TextStyle{})
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_EntriesIsACopy(t *testing.T) {
	c := newCanvas(t)
	r := NewRegistry(c)
	defer r.Close()
	c.AddText("A", domain.TextStyle{})

	e := r.Entries()
	e[0].Label = "changed"
	assert.Equal(t, "A", r.Entries()[0].Label)
}
