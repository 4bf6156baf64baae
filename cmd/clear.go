package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/icon"
	"github.com/cheta-player/cheta/util"
	"github.com/cheta-player/cheta/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
	remove   func(string) error
}

// clearTargets registry of all application artifacts that can be selectively cleared.
var clearTargets = []clearTarget{
	{"history file", "history", mo.Some("s"), where.History, util.Delete},
	{"logs directory", "logs", mo.Some("l"), where.Logs, util.Delete},
	{"stale sockets", "temp", mo.Some("t"), where.Temp, sweepSockets},
}

// sweepSockets leaves the sockets of running players in place.
func sweepSockets(dir string) error {
	_, err := engine.SweepSockets(dir)
	return err
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// clearCmd removes saved resume points, logs and leftover sockets.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear saved history, logs and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			names := lo.Map(selected, func(t clearTarget, _ int) string { return t.name })

			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Clear %s?", joinNames(names)),
				Default: false,
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		for _, target := range selected {
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.remove(target.location())
			e()

			if err != nil {
				fmt.Printf("%s %s: %s\n", icon.Get(icon.Fail), util.Capitalize(target.name), err)
				continue
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}
	},
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s and %s", joinList(names[:len(names)-1]), names[len(names)-1])
	}
}

func joinList(names []string) string {
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
