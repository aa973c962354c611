package events

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePublishUnsubscribe(t *testing.T) {
	eb := NewEventBus()

	id, ch := eb.Subscribe()
	assert.Equal(t, 1, eb.GetTotalSubscriptions())

	event := NewTransferApplied("caller", "alice", "bob", big.NewInt(5))
	eb.Publish(event)

	select {
	case got := <-ch:
		transfer, ok := got.(*TransferApplied)
		require.True(t, ok)
		assert.Equal(t, EventTransferApplied, transfer.Type())
		assert.Equal(t, "alice", transfer.From())
		assert.Equal(t, "bob", transfer.To())
		assert.False(t, transfer.Timestamp().IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	assert.True(t, eb.Unsubscribe(id))
	assert.False(t, eb.Unsubscribe(id), "double unsubscribe reports false")
	assert.Equal(t, 0, eb.GetTotalSubscriptions())
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	eb := NewEventBus()

	_, ch1 := eb.Subscribe()
	_, ch2 := eb.Subscribe()

	eb.Publish(NewPauseChanged("admin", true))

	for _, ch := range []chan LedgerEvent{ch1, ch2} {
		select {
		case got := <-ch:
			pause, ok := got.(*PauseChanged)
			require.True(t, ok)
			assert.True(t, pause.Paused())
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out")
		}
	}
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	eb := NewEventBus()
	_, ch := eb.Subscribe()

	// Overfill the buffered channel; extra events are dropped, not blocked on.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			eb.Publish(NewSupplyMinted("alice", big.NewInt(1), big.NewInt(int64(i))))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.NotEmpty(t, ch)
}

func TestEventAmountsAreDetached(t *testing.T) {
	amount := big.NewInt(10)
	event := NewSupplyBurned("alice", amount, big.NewInt(90))

	amount.SetInt64(999)
	assert.Equal(t, 0, event.Amount().Cmp(big.NewInt(10)))
}
