package cmd

import (
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/history"
	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/tui"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	addEngineFlag(cmd)
	cmd.Flags().BoolP("no-resume", "R", false, "Start from the beginning even when a resume point is saved")
}

// playCmd opens a source in the player overlay.
var playCmd = &cobra.Command{
	Use:   "play <source>",
	Short: "Play a file, an http(s) URL, or a simulated sim:<duration> source",
	Example: `  cheta play ~/Videos/talk.mkv
  cheta play https://example.com/clip.mp4
  cheta play sim:2m --engine sim`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSources,
	Run: func(cmd *cobra.Command, args []string) {
		play(cmd, args[0])
	},
}

func play(cmd *cobra.Command, source string) {
	options := tui.Options{
		Source: source,
		Engine: lo.Must(cmd.Flags().GetString("engine")),
	}

	if lo.Must(cmd.Flags().GetBool("no-resume")) {
		viper.Set(key.HistoryResume, false)
	}

	eng := options.Engine
	if eng == "" {
		eng = viper.GetString(key.Player)
	}
	if eng == "mpv" && !engine.IsSim(source) {
		CheckDependencies()
	}

	handleErr(tui.Run(&options))
}

// completionSources suggests previously played sources matching the typed prefix.
func completionSources(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	entries, err := history.Recent()
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}

	sources := lo.FilterMap(entries, func(e *history.Entry, _ int) (string, bool) {
		return e.Source, fuzzy.Match(toComplete, e.Source)
	})
	return sources, cobra.ShellCompDirectiveDefault
}
