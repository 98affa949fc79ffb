package player

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOptions(t *testing.T) {
	Convey("Given options whose values contain delimiters", t, func() {
		opts := Options{
			"audio-file": "a,b.mp3",
			"sub-file":   "c.srt",
		}

		Convey("The escaped form length-prefixes every value", func() {
			So(opts.Encode(false), ShouldEqual, "audio-file=%7%a,b.mp3,sub-file=%5%c.srt")
		})

		Convey("Decoding by position recovers the values verbatim", func() {
			decoded, err := DecodeOptions(opts.Encode(false))
			So(err, ShouldBeNil)
			So(decoded, ShouldResemble, opts)
		})

		Convey("Values with '%' and '=' survive too", func() {
			tricky := Options{"force-media-title": "100% = love, really", "x": ""}
			decoded, err := DecodeOptions(tricky.Encode(false))
			So(err, ShouldBeNil)
			So(decoded, ShouldResemble, tricky)
		})

		Convey("Multi-byte values are prefixed with their byte length", func() {
			So(Options{"force-media-title": "残酷な天使"}.Encode(false), ShouldEqual, "force-media-title=%15%残酷な天使")
		})

		Convey("The plain form joins key=value pairs", func() {
			So(Options{"aid": "1", "sub-file": "c.srt"}.Encode(true), ShouldEqual, "aid=1,sub-file=c.srt")
		})
	})

	Convey("DecodeOptions rejects malformed strings", t, func() {
		for _, bad := range []string{"=x", "a=%3%ab", "a=%x%abc", "a=%2%abc", "a=%1"} {
			_, err := DecodeOptions(bad)
			So(errors.Is(err, ErrProtocolDecode), ShouldBeTrue)
		}
	})
}

func TestEncode(t *testing.T) {
	decode := func(frame []byte) map[string]any {
		So(frame[len(frame)-1], ShouldEqual, byte('\n'))
		var out map[string]any
		So(json.Unmarshal(frame, &out), ShouldBeNil)
		return out
	}

	Convey("Encode", t, func() {
		Convey("loadfile uses the named form with escaped options", func() {
			frame, err := Encode(LoadFile{
				URL:     "v.mp4",
				Flags:   AppendPlay,
				Options: Options{"force-media-title": "a,b"},
			})
			So(err, ShouldBeNil)

			cmd := decode(frame)["command"].(map[string]any)
			So(cmd["name"], ShouldEqual, "loadfile")
			So(cmd["url"], ShouldEqual, "v.mp4")
			So(cmd["flags"], ShouldEqual, "append-play")
			So(cmd["options"], ShouldEqual, "force-media-title=%3%a,b")
			So(cmd, ShouldNotContainKey, "index")
		})

		Convey("loadfile defaults to replace and carries an index when set", func() {
			index := 2
			frame, err := Encode(LoadFile{URL: "i.mp3", Index: &index})
			So(err, ShouldBeNil)

			cmd := decode(frame)["command"].(map[string]any)
			So(cmd["flags"], ShouldEqual, "replace")
			So(cmd["index"], ShouldEqual, 2.0)
			So(cmd, ShouldNotContainKey, "options")
		})

		Convey("observe_property is positional", func() {
			frame, err := Encode(ObserveProperty{ID: 1, Name: "idle-active"})
			So(err, ShouldBeNil)
			So(string(frame), ShouldEqual, `{"command":["observe_property",1,"idle-active"]}`+"\n")
		})

		Convey("run commands carry string arguments", func() {
			frame, err := Encode(AudioAdd("i.mp3"))
			So(err, ShouldBeNil)
			So(string(frame), ShouldEqual, `{"command":["audio-add","i.mp3","select"]}`+"\n")

			frame, err = Encode(SubAdd("s.srt"))
			So(err, ShouldBeNil)
			So(string(frame), ShouldEqual, `{"command":["sub-add","s.srt","select"]}`+"\n")

			frame, err = Encode(Quit())
			So(err, ShouldBeNil)
			So(string(frame), ShouldEqual, `{"command":["quit"]}`+"\n")
		})
	})
}
