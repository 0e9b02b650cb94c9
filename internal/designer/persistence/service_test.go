package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/repository"
)

func setupService(t *testing.T, maxBytes int) (*Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(repository.NewRedisSlotStore(client, 0), maxBytes), mr
}

const sampleCanvas = `{"version":1,"width":400,"height":500,"objects":[{"id":"a","kind":"text","content":"HELLO","transform":{"x":200,"y":200,"scale_x":1,"scale_y":1,"origin":"center"},"width":80,"height":28}]}`

func TestService_SaveLoadRoundTrip(t *testing.T) {
	svc, _ := setupService(t, 0)
	ctx := context.Background()

	snap := domain.DesignSnapshot{Canvas: json.RawMessage(sampleCanvas), Color: "#FF0000", Size: domain.SizeL}
	require.NoError(t, svc.Save(ctx, "", snap))

	got, err := svc.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestService_LoadThenSaveIsByteStable(t *testing.T) {
	svc, mr := setupService(t, 0)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, DefaultSlot, domain.DesignSnapshot{
		Canvas: json.RawMessage(sampleCanvas), Color: "#000080", Size: domain.SizeS,
	}))
	first, err := mr.Get("design:slot:tshirtDesign")
	require.NoError(t, err)

	snap, err := svc.Load(ctx, DefaultSlot)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, DefaultSlot, snap))

	second, err := mr.Get("design:slot:tshirtDesign")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_EmptyCanvasSavesAsObject(t *testing.T) {
	svc, mr := setupService(t, 0)
	require.NoError(t, svc.Save(context.Background(), "", domain.DesignSnapshot{Color: "#FFFFFF", Size: domain.SizeM}))

	raw, err := mr.Get("design:slot:tshirtDesign")
	require.NoError(t, err)
	assert.JSONEq(t, `{"canvas":{},"color":"#FFFFFF","size":"M"}`, raw)
}

func TestService_QuotaExceeded(t *testing.T) {
	svc, mr := setupService(t, 64)
	err := svc.Save(context.Background(), "", domain.DesignSnapshot{
		Canvas: json.RawMessage(sampleCanvas), Color: "#FFFFFF", Size: domain.SizeM,
	})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	assert.False(t, mr.Exists("design:slot:tshirtDesign"))
}

func TestService_StoreDown(t *testing.T) {
	svc, mr := setupService(t, 0)
	mr.Close()

	err := svc.Save(context.Background(), "", domain.DesignSnapshot{Color: "#FFFFFF", Size: domain.SizeM})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))

	_, err = svc.Load(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))

	assert.True(t, errors.Is(svc.Clear(context.Background(), ""), domain.ErrStorageUnavailable))
	assert.Error(t, svc.Ping(context.Background()))
}

func TestService_LoadMissing(t *testing.T) {
	svc, _ := setupService(t, 0)
	_, err := svc.Load(context.Background(), "tshirtDesign:nobody")
	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))
}

func TestService_Clear(t *testing.T) {
	svc, _ := setupService(t, 0)
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, "", domain.DesignSnapshot{Color: "#FFFFFF", Size: domain.SizeM}))
	require.NoError(t, svc.Clear(ctx, ""))

	_, err := svc.Load(ctx, "")
	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))
}

func TestDecode(t *testing.T) {
	snap, err := Decode([]byte(`{"canvas":{},"color":"#ff0000","size":"xl"}`))
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", snap.Color)
	assert.Equal(t, domain.SizeXL, snap.Size)

	tests := map[string]string{
		"not json":       `{"canvas":`,
		"missing canvas": `{"color":"#FFFFFF","size":"M"}`,
		"null canvas":    `{"canvas":null,"color":"#FFFFFF","size":"M"}`,
		"bad color":      `{"canvas":{},"color":"white","size":"M"}`,
		"bad size":       `{"canvas":{},"color":"#FFFFFF","size":"XS"}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(data))
			assert.True(t, errors.Is(err, domain.ErrMalformedSnapshot))
		})
	}
}
