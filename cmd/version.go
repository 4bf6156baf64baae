package cmd

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/cheta-player/cheta/color"
	"github.com/cheta-player/cheta/constant"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(color.Purple),
	"join":   strings.Join,
}).Parse(`{{ accent "▶" }} {{ accent .App }} {{ bold .Version }}

  {{ faint "Revision" }}  {{ .Revision }}
  {{ faint "Built" }}     {{ .BuiltAt }} by {{ .BuiltBy }}
  {{ faint "Platform" }}  {{ .OS }}/{{ .Arch }}
  {{ faint "Engines" }}   {{ join .Engines ", " }}
  {{ faint "mpv" }}       {{ .MPV }}
`))

type versionInfo struct {
	App, Version, Revision, BuiltAt, BuiltBy string
	OS, Arch                                 string
	Engines                                  []string
	MPV                                      string
}

func currentVersion() versionInfo {
	mpv := "not found in PATH"
	if path, err := exec.LookPath(engine.NewMPV().Binary); err == nil {
		mpv = path
	}

	return versionInfo{
		App:      constant.Cheta,
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Engines:  engine.Available(),
		MPV:      mpv,
	}
}

// versionCmd prints the build metadata and which engines this build can use.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, build metadata and available engines",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), currentVersion()))
	},
}
