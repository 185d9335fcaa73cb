package events

import (
	"testing"

	"github.com/sharewatch/sharewatch/internal/config"
	"go.uber.org/zap"
)

func testHubConfig() config.WebSocketConfig {
	cfg := config.GetDefaults().WebSocket
	return cfg
}

func TestShouldBroadcastEvent(t *testing.T) {
	t.Run("AllGatesOpen", func(t *testing.T) {
		h := NewHub(testHubConfig(), zap.NewNop())
		for _, et := range []EventType{EventTypeDetection, EventTypeRequestLog, EventTypeSystemStatus, EventTypeConnection} {
			if !h.shouldBroadcastEvent(et) {
				t.Errorf("Expected %s to be broadcast", et)
			}
		}
	})

	t.Run("DetectionsGateClosed", func(t *testing.T) {
		cfg := testHubConfig()
		cfg.Events.BroadcastDetections = false
		h := NewHub(cfg, zap.NewNop())

		if h.shouldBroadcastEvent(EventTypeDetection) {
			t.Error("Detection events should not be broadcast")
		}
		if !h.shouldBroadcastEvent(EventTypeRequestLog) {
			t.Error("Request log events should still be broadcast")
		}
	})

	t.Run("HubDisabled", func(t *testing.T) {
		cfg := testHubConfig()
		cfg.Enabled = false
		h := NewHub(cfg, zap.NewNop())

		if h.shouldBroadcastEvent(EventTypeDetection) {
			t.Error("Disabled hub should not broadcast")
		}
	})

	t.Run("UnknownEventType", func(t *testing.T) {
		h := NewHub(testHubConfig(), zap.NewNop())
		if h.shouldBroadcastEvent("bogus") {
			t.Error("Unknown event types should not be broadcast")
		}
	})
}

func TestShouldSendToClient(t *testing.T) {
	h := NewHub(testHubConfig(), zap.NewNop())
	event := Event{Type: EventTypeDetection}

	t.Run("NoSubscription", func(t *testing.T) {
		client := &Client{}
		if !h.shouldSendToClient(client, event) {
			t.Error("Clients without a subscription receive all events")
		}
	})

	t.Run("SubscribedType", func(t *testing.T) {
		client := &Client{Subscription: &SubscriptionRequest{
			Events: []EventType{EventTypeDetection},
		}}
		if !h.shouldSendToClient(client, event) {
			t.Error("Subscribed event type should be sent")
		}
	})

	t.Run("UnsubscribedType", func(t *testing.T) {
		client := &Client{Subscription: &SubscriptionRequest{
			Events: []EventType{EventTypeRequestLog},
		}}
		if h.shouldSendToClient(client, event) {
			t.Error("Unsubscribed event type should not be sent")
		}
	})
}

func TestBroadcastEventNonBlocking(t *testing.T) {
	h := NewHub(testHubConfig(), zap.NewNop())

	// Nothing drains the broadcast channel here; filling it beyond
	// capacity must drop events instead of blocking.
	for i := 0; i < 300; i++ {
		h.BroadcastEvent(Event{Type: EventTypeDetection})
	}
}
