package tumble

import (
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/algebra"
)

const (
	BOUNDARY_BOUNCE EventType = iota
	ON_SLEEP
	ON_WAKE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// BounceEvent is sent when a body was reflected by the walls of its bounds.
// Axes lists every axis clipped during the substep; corners clip more than one.
type BounceEvent struct {
	Body *actor.Body
	Axes []algebra.Axis
}

func (e BounceEvent) Type() EventType { return BOUNDARY_BOUNCE }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.Body
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.Body
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.Body]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		sleepStates: make(map[*actor.Body]bool),
	}
}

// lazyInit makes the zero value usable
func (e *Events) lazyInit() {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.Body]bool)
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.lazyInit()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// emitBounce buffers a bounce (called once the substep positions are tested)
func (e *Events) emitBounce(body *actor.Body, axes []algebra.Axis) {
	e.buffer = append(e.buffer, BounceEvent{Body: body, Axes: append([]algebra.Axis(nil), axes...)})
}

// processSleepEvents compares the sleep state of every body to the one seen at the previous step.
// It returns the events it buffered.
func (e *Events) processSleepEvents(bodies []*actor.Body) []Event {
	e.lazyInit()

	var emitted []Event
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			emitted = append(emitted, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			emitted = append(emitted, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
	e.buffer = append(e.buffer, emitted...)

	return emitted
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
