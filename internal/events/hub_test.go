package events

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clearterms/clearterms/internal/config"
	"go.uber.org/zap"
)

func testHub(mutate func(*config.EventsConfig)) *Hub {
	cfg := config.GetDefaults().Events
	if mutate != nil {
		mutate(&cfg)
	}
	return NewHub(cfg, zap.NewNop())
}

func TestBroadcastEvent(t *testing.T) {
	t.Run("EnabledTypeIsQueued", func(t *testing.T) {
		h := testHub(nil)

		h.BroadcastEvent(Event{Type: EventTypeAnalysis, Timestamp: time.Now()})

		select {
		case event := <-h.broadcast:
			if event.Type != EventTypeAnalysis {
				t.Errorf("Expected analysis event, got %s", event.Type)
			}
		default:
			t.Error("Expected event on broadcast channel")
		}
	})

	t.Run("DisabledTypeIsDropped", func(t *testing.T) {
		h := testHub(func(cfg *config.EventsConfig) {
			cfg.Broadcast.Analyses = false
		})

		h.BroadcastEvent(Event{Type: EventTypeAnalysis, Timestamp: time.Now()})

		select {
		case <-h.broadcast:
			t.Error("Disabled event type should not be queued")
		default:
		}
	})

	t.Run("UnknownTypeIsDropped", func(t *testing.T) {
		h := testHub(nil)

		h.BroadcastEvent(Event{Type: "unknown", Timestamp: time.Now()})

		select {
		case <-h.broadcast:
			t.Error("Unknown event type should not be queued")
		default:
		}
	})
}

func TestShouldSendToClient(t *testing.T) {
	h := testHub(nil)
	event := Event{Type: EventTypeAnalysis}

	t.Run("NoSubscriptionReceivesAll", func(t *testing.T) {
		client := &Client{ID: "c1"}
		if !h.shouldSendToClient(client, event) {
			t.Error("Client without subscription should receive all events")
		}
	})

	t.Run("MatchingSubscription", func(t *testing.T) {
		client := &Client{
			ID:           "c2",
			Subscription: &SubscriptionRequest{Events: []EventType{EventTypeAnalysis, EventTypeRequestLog}},
		}
		if !h.shouldSendToClient(client, event) {
			t.Error("Subscribed event type should be delivered")
		}
	})

	t.Run("NonMatchingSubscription", func(t *testing.T) {
		client := &Client{
			ID:           "c3",
			Subscription: &SubscriptionRequest{Events: []EventType{EventTypeConnection}},
		}
		if h.shouldSendToClient(client, event) {
			t.Error("Unsubscribed event type should be filtered out")
		}
	})
}

func TestRegisterAndUnregister(t *testing.T) {
	h := testHub(func(cfg *config.EventsConfig) {
		cfg.Broadcast.Connections = false
	})

	client := &Client{
		ID:   "test-client",
		Send: make(chan Event, 1),
	}

	h.registerClient(client)
	if got := h.GetStats().ActiveConnections; got != 1 {
		t.Fatalf("Expected 1 active connection, got %d", got)
	}

	h.unregisterClient(client)
	stats := h.GetStats()
	if stats.ActiveConnections != 0 {
		t.Errorf("Expected 0 active connections, got %d", stats.ActiveConnections)
	}
	if stats.TotalConnections != 1 {
		t.Errorf("Expected total connections to remain 1, got %d", stats.TotalConnections)
	}

	// Unregistering twice must not panic on the closed channel
	h.unregisterClient(client)
}

func TestBroadcastEvictsSlowClients(t *testing.T) {
	h := testHub(func(cfg *config.EventsConfig) {
		cfg.Broadcast.Connections = false
	})

	fast := &Client{ID: "fast", Send: make(chan Event, 4)}
	slow := &Client{ID: "slow", Send: make(chan Event)} // unbuffered, never drained

	h.registerClient(fast)
	h.registerClient(slow)

	h.broadcastEvent(Event{Type: EventTypeAnalysis, Timestamp: time.Now()})

	if got := h.GetStats().ActiveConnections; got != 1 {
		t.Errorf("Expected slow client to be evicted, got %d active", got)
	}
	select {
	case event := <-fast.Send:
		if event.Type != EventTypeAnalysis {
			t.Errorf("Expected analysis event, got %s", event.Type)
		}
	default:
		t.Error("Fast client should have received the event")
	}
}

func TestStopTerminatesRun(t *testing.T) {
	h := testHub(nil)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	// Stop is idempotent
	h.Stop()
}

func TestHandleClientMessage(t *testing.T) {
	t.Run("PingReturnsPong", func(t *testing.T) {
		h := testHub(func(cfg *config.EventsConfig) {
			cfg.Broadcast.Connections = false
		})
		client := &Client{ID: "c1", Send: make(chan Event, 1)}
		h.registerClient(client)

		h.handleClientMessage(client, ClientMessage{Type: "ping"})

		select {
		case event := <-client.Send:
			if event.Type != "pong" {
				t.Errorf("Expected pong, got %s", event.Type)
			}
		default:
			t.Error("Expected a pong on the send channel")
		}
	})

	t.Run("PingAfterEvictionIsIgnored", func(t *testing.T) {
		h := testHub(func(cfg *config.EventsConfig) {
			cfg.Broadcast.Connections = false
		})
		client := &Client{ID: "c2", Send: make(chan Event)} // unbuffered, evicted on broadcast
		h.registerClient(client)
		h.broadcastEvent(Event{Type: EventTypeAnalysis, Timestamp: time.Now()})

		// The send channel is closed now; the pong must be dropped, not
		// sent into the closed channel.
		h.handleClientMessage(client, ClientMessage{Type: "ping"})
	})

	t.Run("SubscribeUpdatesFilter", func(t *testing.T) {
		h := testHub(nil)
		client := &Client{ID: "c3", Send: make(chan Event, 1)}

		h.handleClientMessage(client, ClientMessage{
			Type: "subscribe",
			Data: map[string]interface{}{"events": []interface{}{"analysis"}},
		})

		if client.Subscription == nil {
			t.Fatal("Expected subscription to be set")
		}
		if !h.shouldSendToClient(client, Event{Type: EventTypeAnalysis}) {
			t.Error("Subscribed type should pass the filter")
		}
		if h.shouldSendToClient(client, Event{Type: EventTypeRequestLog}) {
			t.Error("Unsubscribed type should be filtered")
		}
	})
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{name: "NoOriginHeader", origins: []string{"https://app.example.com"}, origin: "", want: true},
		{name: "Wildcard", origins: []string{"*"}, origin: "https://anywhere.example.com", want: true},
		{name: "ExactMatch", origins: []string{"https://app.example.com"}, origin: "https://app.example.com", want: true},
		{name: "Rejected", origins: []string{"https://app.example.com"}, origin: "https://evil.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHub(func(cfg *config.EventsConfig) {
				cfg.AllowedOrigins = tt.origins
			})

			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			if got := h.checkOrigin(r); got != tt.want {
				t.Errorf("checkOrigin with origin %q = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
