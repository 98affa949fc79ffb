package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/karaberus/karaplay/log"
)

// idleObserverID is the observe_property id used for idle-active.
const idleObserverID = 1

const idleProperty = "idle-active"

// EventKind classifies a decoded mpv event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventStartFile
	EventFileLoaded
	EventEndFile
	EventIdle
	EventPropertyChange
	EventShutdown
)

func (k EventKind) String() string {
	switch k {
	case EventStartFile:
		return "start-file"
	case EventFileLoaded:
		return "file-loaded"
	case EventEndFile:
		return "end-file"
	case EventIdle:
		return "idle"
	case EventPropertyChange:
		return "property-change"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// PropertyValue is the data of a property-change event.
// It is one of BoolValue, NumberValue, StringValue or UnknownValue.
type PropertyValue interface {
	isPropertyValue()
}

type BoolValue bool

type NumberValue float64

type StringValue string

// UnknownValue holds anything else mpv sent (null, lists, maps) undecoded.
type UnknownValue struct {
	Raw json.RawMessage
}

func (BoolValue) isPropertyValue()    {}
func (NumberValue) isPropertyValue()  {}
func (StringValue) isPropertyValue()  {}
func (UnknownValue) isPropertyValue() {}

// Event is one message mpv pushed over the event connection.
type Event struct {
	Kind EventKind
	// Name is the raw event name; for property changes, ID, Property and Value are set.
	Name     string
	ID       int
	Property string
	Value    PropertyValue
	Reason   string
}

type rawEvent struct {
	Event  string          `json:"event"`
	ID     *int            `json:"id"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

// DecodeEvent turns one line from mpv into an Event. Command replies and other
// lines without an event name yield ErrUnexpectedEvent.
func DecodeEvent(line []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrProtocolDecode, err)
	}

	if raw.Event == "" {
		return Event{}, ErrUnexpectedEvent
	}

	ev := Event{Name: raw.Event, Reason: raw.Reason}

	switch raw.Event {
	case "start-file":
		ev.Kind = EventStartFile
	case "file-loaded":
		ev.Kind = EventFileLoaded
	case "end-file":
		ev.Kind = EventEndFile
	case "idle":
		ev.Kind = EventIdle
	case "shutdown":
		ev.Kind = EventShutdown
	case "property-change":
		if raw.ID == nil {
			return Event{}, fmt.Errorf("%w: property-change without id", ErrUnexpectedEvent)
		}
		ev.Kind = EventPropertyChange
		ev.ID = *raw.ID
		ev.Property = raw.Name
		ev.Value = decodeValue(raw.Data)
	default:
		ev.Kind = EventUnknown
	}

	return ev, nil
}

func decodeValue(data json.RawMessage) PropertyValue {
	if len(data) == 0 {
		return UnknownValue{}
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return UnknownValue{Raw: data}
	}

	switch value := v.(type) {
	case bool:
		return BoolValue(value)
	case float64:
		return NumberValue(value)
	case string:
		return StringValue(value)
	default:
		return UnknownValue{Raw: data}
	}
}

// EventSource delivers mpv events to a handler until the player goes away.
// Listen blocks for the lifetime of the subscription.
type EventSource interface {
	Listen(handle func(Event)) error
	Close()
}

// EventListener keeps one persistent connection to mpv, subscribes to the
// idle-active property on it and decodes every line mpv pushes.
type EventListener struct {
	transport *Transport

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// NewEventListener creates a listener dialing through the transport's endpoint and retry policy.
func NewEventListener(transport *Transport) *EventListener {
	return &EventListener{transport: transport}
}

// Listen connects, registers the property observer and runs the blocking
// read loop. It returns nil when mpv closes the connection or Close is called.
func (el *EventListener) Listen(handle func(Event)) error {
	conn, err := el.transport.Connect()
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	el.mu.Lock()
	if el.closed {
		el.mu.Unlock()
		conn.Close()
		return nil
	}
	el.conn = conn
	el.mu.Unlock()

	defer el.Close()

	// observe_property is per client: notifications only reach the
	// connection that registered the observer.
	frame, err := Encode(ObserveProperty{ID: idleObserverID, Name: idleProperty})
	if err != nil {
		return err
	}
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("observe %s: %w", idleProperty, err)
	}

	log.Infof("mpv event listener started on %s (observing: %s)", el.transport.Endpoint(), idleProperty)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			el.dispatch(line, handle)
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || el.isClosed() {
				return nil
			}
			return fmt.Errorf("event listener read: %w", err)
		}
	}
}

func (el *EventListener) dispatch(line []byte, handle func(Event)) {
	ev, err := DecodeEvent(line)
	switch {
	case err == nil:
		handle(ev)
	case errors.Is(err, ErrUnexpectedEvent):
		log.Tracef("ignoring mpv message: %s", line)
	default:
		log.Warnf("skipping mpv line: %v", err)
	}
}

func (el *EventListener) isClosed() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.closed
}

// Close ends the subscription and unblocks Listen.
func (el *EventListener) Close() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.closed {
		return
	}
	el.closed = true

	if el.conn != nil {
		el.conn.Close()
	}
}
