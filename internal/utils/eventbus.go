package utils

import (
	"sync"
)

type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Handler func(event Event)

// EventBus decouples the message-send path from its consumers: the
// avatar job dispatcher and the websocket hub both subscribe. Publish
// never blocks; when the buffer is full the event is dropped, which is
// acceptable for best-effort fan-out.
type EventBus struct {
	subscribers map[string][]Handler
	events      chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Handler),
		events:      make(chan Event, 256),
	}
}

func (eb *EventBus) Publish(event string, data interface{}) {
	e := Event{Event: event, Data: data}
	select {
	case eb.events <- e:
	default:
	}
}

// Subscribe registers a handler for one event name. The empty name
// subscribes to every event.
func (eb *EventBus) Subscribe(event string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[event] = append(eb.subscribers[event], handler)
}

// Run delivers events to subscribers until the bus is closed. Handlers
// run on the bus goroutine and must not block.
func (eb *EventBus) Run() {
	for event := range eb.events {
		eb.mu.RLock()
		handlers := append([]Handler{}, eb.subscribers[event.Event]...)
		handlers = append(handlers, eb.subscribers[""]...)
		eb.mu.RUnlock()

		for _, h := range handlers {
			h(event)
		}
	}
}

func (eb *EventBus) Close() {
	close(eb.events)
}
