package history

import (
	"fmt"
	"testing"

	"github.com/karaberus/karaplay/filesystem"
	"github.com/karaberus/karaplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		viper.Set(key.HistorySave, true)
		viper.Set(key.HistoryLimit, 3)
		So(Clear(), ShouldBeNil)

		Reset(func() {
			viper.Set(key.HistorySave, true)
			viper.Set(key.HistoryLimit, 100)
		})

		Convey("When recording a bundle", func() {
			err := Record(&Entry{Title: "Gurenge", Video: "v.mp4", Instrumental: "i.mp3", Session: "abc"})

			Convey("Then it can be read back with a timestamp", func() {
				So(err, ShouldBeNil)

				entries, err := Get()
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Title, ShouldEqual, "Gurenge")
				So(entries[0].Instrumental, ShouldEqual, "i.mp3")
				So(entries[0].PlayedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("Only the most recent entries are kept", func() {
			for i := 1; i <= 5; i++ {
				So(Record(&Entry{Title: fmt.Sprintf("song %d", i)}), ShouldBeNil)
			}

			entries, err := Get()
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 3)
			So(entries[0].Title, ShouldEqual, "song 3")
			So(entries[2].Title, ShouldEqual, "song 5")
		})

		Convey("Nothing is recorded when saving is off", func() {
			viper.Set(key.HistorySave, false)
			So(Record(&Entry{Title: "skipped"}), ShouldBeNil)

			entries, err := Get()
			So(err, ShouldBeNil)
			So(entries, ShouldBeEmpty)
		})

		Convey("Clear empties the history", func() {
			So(Record(&Entry{Title: "x"}), ShouldBeNil)
			So(Clear(), ShouldBeNil)

			entries, err := Get()
			So(err, ShouldBeNil)
			So(entries, ShouldBeEmpty)
		})
	})
}
