package where

import (
	"path/filepath"
	"testing"

	"github.com/cheta-player/cheta/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/tmp/cheta-test-config")
			path := Config()
			So(path, ShouldEqual, "/tmp/cheta-test-config")
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("State()", func() {
			path := State()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs() lives under the config directory", func() {
			So(filepath.Dir(Logs()), ShouldEqual, Config())
		})

		Convey("History() is a json file in State()", func() {
			So(filepath.Dir(History()), ShouldEqual, State())
			So(filepath.Ext(History()), ShouldEqual, ".json")
		})

		Convey("Temp()", func() {
			So(lo.Must(filesystem.API().IsDir(Temp())), ShouldBeTrue)
		})
	})
}
