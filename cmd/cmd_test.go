package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/karaberus/karaplay/config"
	"github.com/karaberus/karaplay/key"
	"github.com/karaberus/karaplay/player"
	"github.com/karaberus/karaplay/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func TestNewBundle(t *testing.T) {
	Convey("newBundle", t, func() {
		Convey("names an untitled bundle after its primary file", func() {
			So(newBundle("/songs/Gurenge.mkv", "", "", "").Title, ShouldEqual, "Gurenge")
			So(newBundle("", "/songs/Gurenge.inst.flac", "", "").Title, ShouldEqual, "Gurenge.inst")
		})

		Convey("keeps an explicit title", func() {
			So(newBundle("v.mp4", "", "", "Racing into the Night").Title, ShouldEqual, "Racing into the Night")
		})

		Convey("leaves an unplayable bundle untitled", func() {
			b := newBundle("", "", "s.srt", "")
			So(b.Title, ShouldBeEmpty)
			So(b.Validate(), ShouldNotBeNil)
		})
	})
}

func TestMask(t *testing.T) {
	Convey("mask shows only the last four characters", t, func() {
		So(mask("abcdefgh"), ShouldEqual, "****efgh")
		So(mask("abc"), ShouldEqual, "***")
	})
}

func TestSessionSchema(t *testing.T) {
	Convey("The session schema describes a track line", t, func() {
		var out bytes.Buffer
		sessionSchemaCmd.SetOut(&out)
		sessionSchemaCmd.Run(sessionSchemaCmd, nil)

		var schema map[string]any
		So(json.Unmarshal(out.Bytes(), &schema), ShouldBeNil)

		props, ok := schema["properties"].(map[string]any)
		So(ok, ShouldBeTrue)
		So(props, ShouldContainKey, "video")
		So(props, ShouldContainKey, "inst")
		So(props, ShouldContainKey, "sub")
		So(props, ShouldContainKey, "title")
	})
}

func TestLineParsing(t *testing.T) {
	Convey("A session line decodes into a bundle", t, func() {
		var in bundleLine
		So(json.Unmarshal([]byte(`{"video":"v.mp4","inst":"i.mp3","sub":"s.srt"}`), &in), ShouldBeNil)

		b := newBundle(in.Video, in.Inst, in.Sub, in.Title)
		So(b.Primary(), ShouldEqual, "v.mp4")
		So(b.Instrumental.OrEmpty(), ShouldEqual, "i.mp3")
		So(b.Title, ShouldEqual, "v")
	})
}

func TestConfigKey(t *testing.T) {
	Convey("Given a config subcommand with a --key flag", t, func() {
		c := &cobra.Command{}
		c.Flags().String("key", "", "")

		Convey("The argument names the key", func() {
			k, err := configKey(c, []string{key.PlayerIdle, "once"})
			So(err, ShouldBeNil)
			So(k, ShouldEqual, key.PlayerIdle)
		})

		Convey("The flag is used without arguments", func() {
			So(c.Flags().Set("key", key.IPCRetryDelay), ShouldBeNil)
			k, err := configKey(c, nil)
			So(err, ShouldBeNil)
			So(k, ShouldEqual, key.IPCRetryDelay)
		})

		Convey("A typo is an unknown key", func() {
			_, err := configKey(c, []string{"ipc.retry_dleay_ms"})
			So(errors.Is(err, config.ErrUnknownKey), ShouldBeTrue)
		})

		Convey("A missing key is an error", func() {
			_, err := configKey(c, nil)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("The socket setting reports the endpoint actually used", t, func() {
		So(config.InUse(key.PlayerSocket), ShouldEqual, player.ConfigFromViper().Endpoint)
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Given the settings karaplay reads from the environment", t, func() {
		Convey("Every setting and the config path are listed in order", func() {
			vars := envVars()
			So(vars, ShouldHaveLength, len(config.Default)+1)

			names := lo.Map(vars, func(v envVar, _ int) string { return v.Name })
			So(names, ShouldContain, "KARAPLAY_PLAYER_SOCKET")
			So(names, ShouldContain, where.EnvConfigPath)
			So(slices.IsSorted(names), ShouldBeTrue)
		})

		Convey("A value the setting rejects is flagged", func() {
			t.Setenv("KARAPLAY_PLAYER_IDLE", "forever")
			t.Setenv("KARAPLAY_PLAYER_QUIT_GRACE_MS", "500")
			viper.MustBindEnv(key.PlayerIdle, "KARAPLAY_PLAYER_IDLE")
			viper.MustBindEnv(key.PlayerQuitGrace, "KARAPLAY_PLAYER_QUIT_GRACE_MS")

			byName := lo.KeyBy(envVars(), func(v envVar) string { return v.Name })
			So(byName["KARAPLAY_PLAYER_IDLE"].Problem, ShouldNotBeNil)
			So(byName["KARAPLAY_PLAYER_QUIT_GRACE_MS"].Problem, ShouldBeNil)
			So(byName["KARAPLAY_PLAYER_QUIT_GRACE_MS"].Value, ShouldEqual, "500")
		})
	})
}
