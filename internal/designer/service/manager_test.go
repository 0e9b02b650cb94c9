package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

func TestSlotFor(t *testing.T) {
	assert.Equal(t, "tshirtDesign", SlotFor(""))
	assert.Equal(t, "tshirtDesign", SlotFor(DefaultSession))
	assert.Equal(t, "tshirtDesign:alice", SlotFor("alice"))
}

func TestManager_GetReusesSessions(t *testing.T) {
	m := NewManager(newEnv(t).deps, time.Minute)

	a := m.Get("alice")
	assert.Same(t, a, m.Get("alice"))
	assert.Equal(t, "tshirtDesign:alice", a.Slot())

	def := m.Get("")
	assert.Equal(t, "tshirtDesign", def.Slot())
	assert.Equal(t, 2, m.Len())

	_, ok := m.Lookup("bob")
	assert.False(t, ok)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager(newEnv(t).deps, 0)
	ctx := context.Background()

	_, err := m.Get("alice").AddText(ctx, "A", domain.DefaultTextStyle())
	require.NoError(t, err)
	require.NoError(t, m.Get("alice").Save(ctx))

	assert.Empty(t, m.Get("bob").Layers(ctx))
	assert.Error(t, m.Get("bob").Load(ctx))
}

func TestManager_SweepEvictsIdleSessions(t *testing.T) {
	m := NewManager(newEnv(t).deps, 10*time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	idle := m.Get("idle")
	idle.mu.Lock()
	idle.lastUsed = now.Add(-time.Hour)
	idle.mu.Unlock()
	m.Get("busy")

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	_, ok := m.Lookup("idle")
	assert.False(t, ok)

	id, err := idle.AddText(context.Background(), "zombie", domain.DefaultTextStyle())
	assert.NoError(t, err)
	assert.Empty(t, id)
}

func TestManager_SweepDisabled(t *testing.T) {
	m := NewManager(newEnv(t).deps, 0)
	m.Get("a")
	m.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	assert.Equal(t, 0, m.Sweep())
	assert.NoError(t, m.Start())
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager(newEnv(t).deps, time.Minute)
	require.NoError(t, m.Start())
	d := m.Get("a")
	events := d.Subscribe()

	m.Stop(context.Background())
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.Dispose("missing") == false)

	_, open := <-events
	assert.False(t, open)
}
