package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Publish()

	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)
}

func TestHub_PublishCoalesces(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// Three rapid mutations while the subscriber is busy.
	hub.Publish()
	hub.Publish()
	hub.Publish()

	// Exactly one pending signal.
	assert.Len(t, ch, 1)
	<-ch
	assert.Len(t, ch, 0)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Nobody drains the subscriber; publishing must still return.
	for i := 0; i < 100; i++ {
		hub.Publish()
	}

	assert.Equal(t, uint64(100), hub.Seq())
}

func TestHub_CancelledSubscriberReceivesNothing(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()

	hub.Publish()

	assert.Len(t, ch, 0)
}

func TestHub_SeqCountsPublishes(t *testing.T) {
	hub := NewHub()

	assert.Equal(t, uint64(0), hub.Seq())

	hub.Publish()
	hub.Publish()

	assert.Equal(t, uint64(2), hub.Seq())
}
