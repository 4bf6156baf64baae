// Package cmd implements the command-line interface for cheta.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cheta-player/cheta/color"
	"github.com/cheta-player/cheta/constant"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/icon"
	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/log"
	"github.com/cheta-player/cheta/style"
	"github.com/cheta-player/cheta/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember the playback position on exit")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnExit, rootCmd.PersistentFlags().Lookup("write-history")))

	addPlayFlags(rootCmd)

	// Sockets of crashed mpv processes are left in the temp directory.
	// Live sessions share it, so only sockets nobody listens on go.
	go func() {
		_, _ = engine.SweepSockets(where.Temp())
	}()
}

// rootCmd defines the entry point for cheta. With a source argument it behaves like play.
var rootCmd = &cobra.Command{
	Use:   constant.Cheta + " [source]",
	Short: "A terminal front-end for mpv with a drag-to-seek overlay",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal front-end for mpv with a drag-to-seek overlay"),
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionSources,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		play(cmd, args[0])
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
