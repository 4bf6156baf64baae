package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/icon"
	"github.com/cheta-player/cheta/probe"
	"github.com/cheta-player/cheta/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	probeCmd.Flags().Bool("schema", false, "Print the JSON schema of the output and exit")
	probeCmd.Flags().DurationP("timeout", "t", 10*time.Second, "How long to wait for the engine to report a duration")
	addEngineFlag(probeCmd)

	probeCmd.SetOut(os.Stdout)
}

// probeCmd loads a source and prints its length without opening the player.
var probeCmd = &cobra.Command{
	Use:               "probe <source>",
	Short:             "Load a source and print what the engine reports about it",
	Args:              cobra.RangeArgs(0, 1),
	ValidArgsFunction: completionSources,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&probe.Output{})))
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}
		source := args[0]

		eng, err := engineFor(cmd, source)
		handleErr(err)

		erase := util.PrintErasable(icon.Get(icon.Progress) + " Probing " + source + "...")
		out, err := probe.Run(eng, source, lo.Must(cmd.Flags().GetDuration("timeout")))
		erase()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(out))
			return
		}

		cmd.Println(out.String())
	},
}

func addEngineFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("engine", "e", "", "Playback engine to use instead of player.default")
	lo.Must0(cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return engine.Available(), cobra.ShellCompDirectiveNoFileComp
	}))
}

func engineFor(cmd *cobra.Command, source string) (engine.Engine, error) {
	if name := lo.Must(cmd.Flags().GetString("engine")); name != "" {
		return engine.Named(name)
	}
	return engine.For(source)
}
