package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishQueuesStoreScopedMessage(t *testing.T) {
	h := NewHub(zerolog.Nop())
	storeID := uuid.New()

	h.Publish(storeID, map[string]interface{}{"type": "sale_created", "total": 30000})

	select {
	case msg := <-h.broadcast:
		assert.Equal(t, storeID, msg.storeID)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(msg.data, &decoded))
		assert.Equal(t, "sale_created", decoded["type"])
		assert.Equal(t, float64(30000), decoded["total"])
	default:
		t.Fatal("expected a queued message")
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub(zerolog.Nop())
	storeID := uuid.New()

	for i := 0; i < broadcastBuffer+10; i++ {
		h.Publish(storeID, map[string]interface{}{"type": "product_updated"})
	}
	assert.Len(t, h.broadcast, broadcastBuffer)
}

func TestPublishOnNilHub(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() {
		h.Publish(uuid.New(), map[string]interface{}{"type": "x"})
	})
}

func TestRunStopsOnContextCancel(t *testing.T) {
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	h.Publish(uuid.New(), map[string]interface{}{"type": "sale_deleted"})
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 0, h.Clients(uuid.New()))
}
