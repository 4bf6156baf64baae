package util

import (
	"math"
	"testing"

	"github.com/cheta-player/cheta/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(1.2, 0, 1), ShouldEqual, 1)
		So(Clamp(-0.3, 0, 1), ShouldEqual, 0)
		So(Clamp(0.35, 0, 1), ShouldEqual, 0.35)
		So(Clamp(7, 0, 5), ShouldEqual, 5)
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(0), ShouldEqual, "0:00")
		So(FormatSeconds(35.9), ShouldEqual, "0:35")
		So(FormatSeconds(754), ShouldEqual, "12:34")
		So(FormatSeconds(3723), ShouldEqual, "1:02:03")
		So(FormatSeconds(-1), ShouldEqual, "--:--")
		So(FormatSeconds(math.NaN()), ShouldEqual, "--:--")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history file"), ShouldEqual, "History file")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/cheta/sub", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/cheta/sub/a.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("Removes single files", func() {
			So(Delete("/tmp/cheta/sub/a.json"), ShouldBeNil)
			exists, _ := fs.Exists("/tmp/cheta/sub/a.json")
			So(exists, ShouldBeFalse)
		})

		Convey("Removes directory trees", func() {
			So(Delete("/tmp/cheta"), ShouldBeNil)
			exists, _ := fs.Exists("/tmp/cheta/sub")
			So(exists, ShouldBeFalse)
		})

		Convey("Reports missing paths", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}
