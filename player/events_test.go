package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeEvent(t *testing.T) {
	Convey("DecodeEvent", t, func() {
		Convey("Lifecycle events map to kinds", func() {
			for line, kind := range map[string]EventKind{
				`{"event":"start-file","playlist_entry_id":3}`: EventStartFile,
				`{"event":"file-loaded"}`:                      EventFileLoaded,
				`{"event":"end-file","reason":"eof"}`:          EventEndFile,
				`{"event":"idle"}`:                             EventIdle,
				`{"event":"shutdown"}`:                         EventShutdown,
				`{"event":"video-reconfig"}`:                   EventUnknown,
			} {
				ev, err := DecodeEvent([]byte(line))
				So(err, ShouldBeNil)
				So(ev.Kind, ShouldEqual, kind)
			}
		})

		Convey("Property changes decode their value into the tagged variant", func() {
			cases := map[string]PropertyValue{
				`{"event":"property-change","id":1,"name":"idle-active","data":true}`:    BoolValue(true),
				`{"event":"property-change","id":2,"name":"time-pos","data":12.5}`:       NumberValue(12.5),
				`{"event":"property-change","id":3,"name":"path","data":"v.mp4"}`:        StringValue("v.mp4"),
				`{"event":"property-change","id":4,"name":"track-list","data":[1,2]}`:    UnknownValue{Raw: []byte(`[1,2]`)},
				`{"event":"property-change","id":5,"name":"idle-active","data":null}`:    UnknownValue{Raw: []byte(`null`)},
				`{"event":"property-change","id":6,"name":"idle-active"}`:                UnknownValue{},
			}

			for line, value := range cases {
				ev, err := DecodeEvent([]byte(line))
				So(err, ShouldBeNil)
				So(ev.Kind, ShouldEqual, EventPropertyChange)
				So(ev.Value, ShouldResemble, value)
			}
		})

		Convey("Command replies are not events", func() {
			_, err := DecodeEvent([]byte(`{"data":null,"request_id":0,"error":"success"}`))
			So(errors.Is(err, ErrUnexpectedEvent), ShouldBeTrue)
		})

		Convey("A property change without id is an unexpected shape", func() {
			_, err := DecodeEvent([]byte(`{"event":"property-change","name":"idle-active","data":true}`))
			So(errors.Is(err, ErrUnexpectedEvent), ShouldBeTrue)
		})

		Convey("Garbage is a decode error", func() {
			_, err := DecodeEvent([]byte(`{"event":`))
			So(errors.Is(err, ErrProtocolDecode), ShouldBeTrue)
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given a listener attached to a fake mpv", t, func() {
		mpv := newFakeMpv(t)
		Reset(mpv.close)

		listener := NewEventListener(NewTransport(mpv.path, testConfig(mpv.path)))

		var (
			mu     sync.Mutex
			events []Event
		)
		done := make(chan error, 1)
		go func() {
			done <- listener.Listen(func(ev Event) {
				mu.Lock()
				events = append(events, ev)
				mu.Unlock()
			})
		}()

		So(mpv.waitLines(1, time.Second), ShouldResemble, []string{`{"command":["observe_property",1,"idle-active"]}`})

		Convey("Pushed events reach the handler in order, junk is skipped", func() {
			mpv.push(`{"event":"start-file"}`)
			mpv.push(`garbage`)
			mpv.push(`{"event":"property-change","id":1,"name":"idle-active","data":false}`)

			So(eventually(func() bool {
				mu.Lock()
				defer mu.Unlock()
				return len(events) == 2
			}), ShouldBeTrue)

			mu.Lock()
			So(events[0].Kind, ShouldEqual, EventStartFile)
			So(events[1].Kind, ShouldEqual, EventPropertyChange)
			So(events[1].Value, ShouldEqual, BoolValue(false))
			mu.Unlock()

			listener.Close()
			So(<-done, ShouldBeNil)
		})

		Convey("Listen returns when mpv goes away", func() {
			mpv.close()

			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(2 * time.Second):
				So("listener still running", ShouldBeEmpty)
			}
		})
	})
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
