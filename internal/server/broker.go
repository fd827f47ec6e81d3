package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

// Event is the payload published to session subscribers after a committed
// transition.
type Event struct {
	Type      string `json:"type"`
	Phase     string `json:"phase"`
	CardIndex *int   `json:"cardIndex,omitempty"`
	Revealed  int    `json:"revealed"`
}

func eventFromChange(c flashquiz.Change) Event {
	ev := Event{Type: string(c.Op), Phase: string(c.Phase), Revealed: c.Revealed}
	if c.Card >= 0 {
		i := c.Card
		ev.CardIndex = &i
	}
	return ev
}

// Broker is an in-process pub/sub keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends an event to every subscriber of the session. Slow
// subscribers miss events rather than block the publisher.
func (b *Broker) Publish(sessionID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}
