package util

import (
	"testing"

	"github.com/karaberus/karaplay/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "song", "songs"), ShouldEqual, "1 song")
		So(Quantify(0, "song", "songs"), ShouldEqual, "0 songs")
		So(Quantify(2, "song", "songs"), ShouldEqual, "2 songs")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history file"), ShouldEqual, "History file")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/songs/Gurenge.mkv"), ShouldEqual, "Gurenge")
		So(FileStem("karaoke.inst.mp3"), ShouldEqual, "karaoke.inst")
		So(FileStem("file"), ShouldEqual, "file")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		Convey("Delete removes files and directories", func() {
			So(fs.WriteFile("/cache/history.json", []byte("{}"), 0o644), ShouldBeNil)
			So(Delete("/cache/history.json"), ShouldBeNil)
			exists, _ := fs.Exists("/cache/history.json")
			So(exists, ShouldBeFalse)

			So(fs.WriteFile("/cache/a/b", nil, 0o644), ShouldBeNil)
			So(Delete("/cache"), ShouldBeNil)
			exists, _ = fs.DirExists("/cache")
			So(exists, ShouldBeFalse)
		})

		Convey("Delete of a missing path fails", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}
