package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/karaberus/karaplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("converts values to the type of the key", func() {
			v, err := Parse(key.IPCRetryDelay, []string{"50"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 50)

			v, err = Parse(key.HistorySave, []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = Parse(key.PlayerArgs, []string{"--fs", "--volume=80"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{"--fs", "--volume=80"})
		})

		Convey("accepts every mpv idle mode", func() {
			for _, mode := range []string{"yes", "once", "no"} {
				v, err := Parse(key.PlayerIdle, []string{mode})
				So(err, ShouldBeNil)
				So(v, ShouldEqual, mode)
			}
		})

		Convey("rejects an idle mode mpv does not know", func() {
			_, err := Parse(key.PlayerIdle, []string{"forever"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, key.PlayerIdle)
		})

		Convey("rejects negative durations and retry counts below one", func() {
			for _, k := range []string{key.IPCRetryDelay, key.IPCResponseTimeout, key.PlayerQuitGrace} {
				_, err := Parse(k, []string{"-1"})
				So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)

				_, err = Parse(k, []string{"0"})
				So(err, ShouldBeNil)
			}

			_, err := Parse(key.IPCConnectRetries, []string{"0"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
		})

		Convey("rejects values of the wrong type", func() {
			_, err := Parse(key.IPCConnectRetries, []string{"many"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)

			_, err = Parse(key.LogsJson, []string{"maybe"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
		})

		Convey("rejects unknown log levels and icon variants", func() {
			_, err := Parse(key.LogsLevel, []string{"loud"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)

			_, err = Parse(key.IconsVariant, []string{"ascii"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
		})

		Convey("suggests the closest key for a typo", func() {
			_, err := Parse("player.idel", []string{"yes"})
			So(errors.Is(err, ErrUnknownKey), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, key.PlayerIdle)
		})

		Convey("requires a value", func() {
			_, err := Parse(key.PlayerIdle, nil)
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
		})
	})
}

func TestProblems(t *testing.T) {
	Convey("Given the default settings", t, func() {
		t.Setenv("KARAPLAY_CONFIG_PATH", t.TempDir())
		So(Setup(), ShouldBeNil)

		Convey("There is nothing to report", func() {
			So(Problems(), ShouldBeEmpty)
		})

		Convey("Values from the environment are checked too", func() {
			t.Setenv("KARAPLAY_PLAYER_IDLE", "sometimes")
			t.Setenv("KARAPLAY_IPC_RETRY_DELAY_MS", "-5")

			problems := Problems()
			So(problems, ShouldHaveLength, 2)
			So(Check(key.PlayerIdle), ShouldNotBeNil)
			So(Check(key.IPCRetryDelay), ShouldNotBeNil)
			So(Check(key.PlayerArgs), ShouldBeNil)
		})

		Reset(func() {
			viper.Reset()
		})
	})
}

func TestInUse(t *testing.T) {
	Convey("Given a key with a derived value", t, func() {
		SetEffective(key.PlayerSocket, func() any { return "/run/user/1000/karaplay-mpv.sock" })
		Reset(func() { delete(effective, key.PlayerSocket) })

		field := Default[key.PlayerSocket]

		Convey("InUse resolves it and other keys have none", func() {
			So(InUse(key.PlayerSocket), ShouldEqual, "/run/user/1000/karaplay-mpv.sock")
			So(InUse(key.PlayerBinary), ShouldBeNil)
		})

		Convey("Pretty shows the value in use", func() {
			So(field.Pretty(), ShouldContainSubstring, "/run/user/1000/karaplay-mpv.sock")
		})

		Convey("JSON carries it as effective", func() {
			raw, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var out map[string]any
			So(json.Unmarshal(raw, &out), ShouldBeNil)
			So(out["effective"], ShouldEqual, "/run/user/1000/karaplay-mpv.sock")
		})
	})
}
