package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_PublishFansOut(t *testing.T) {
	b := NewBroadcaster()
	a, c := b.Subscribe(), b.Subscribe()
	assert.Equal(t, 2, b.Subscribers())

	b.Publish([]byte("layers"))
	assert.Equal(t, "layers", string(<-a))
	assert.Equal(t, "layers", string(<-c))

	b.Unsubscribe(a)
	_, ok := <-a
	assert.False(t, ok)
	assert.Equal(t, 1, b.Subscribers())

	// double unsubscribe is a no-op
	b.Unsubscribe(a)
}

func TestBroadcaster_DropsForLaggingSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	for i := 0; i < cap(ch)+5; i++ {
		b.Publish([]byte{byte(i)})
	}
	assert.Len(t, ch, cap(ch))
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, b.Subscribers())

	late := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok)

	b.Publish([]byte("ignored"))
}
