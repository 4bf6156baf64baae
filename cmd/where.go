package cmd

import (
	"os"
	"path/filepath"

	"github.com/cheta-player/cheta/color"
	"github.com/cheta-player/cheta/style"
	"github.com/cheta-player/cheta/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// whereTarget is a path cheta reads or writes, selectable with its own flag.
type whereTarget struct {
	name     string
	about    string
	where    func() string
	argLong  string
	argShort mo.Option[string]
}

var whereTargets = []whereTarget{
	{"Config", "settings file directory", where.Config, "config", mo.Some("c")},
	{"History", "resume positions", where.History, "history", mo.Some("s")},
	{"Logs", "daily log files", where.Logs, "logs", mo.Some("l")},
	{"Sockets", "mpv IPC sockets of running players", where.Temp, "sockets", mo.Some("t")},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		help := t.name + " path"
		if short, ok := t.argShort.Get(); ok {
			whereCmd.Flags().BoolP(t.argLong, short, false, help)
		} else {
			whereCmd.Flags().Bool(t.argLong, false, help)
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

// liveSockets lists the sockets in dir, one per running player.
func liveSockets(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "mpv-*.sock"))
	return matches
}

// whereCmd prints where cheta keeps its files. With a flag it prints only that path,
// so it composes with shell commands like `cd $(cheta where --logs)`.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where cheta keeps settings, history, logs and sockets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range whereTargets {
			if lo.Must(cmd.Flags().GetBool(t.argLong)) {
				cmd.Println(t.where())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render

		for i, t := range whereTargets {
			cmd.Printf("%s %s %s\n", header(t.name), style.Faint(t.about), style.Fg(color.Yellow)("--"+t.argLong))
			cmd.Println(t.where())

			if t.argLong == "sockets" {
				for _, s := range liveSockets(t.where()) {
					cmd.Println("  " + filepath.Base(s))
				}
			}

			if i < len(whereTargets)-1 {
				cmd.Println()
			}
		}
	},
}
