package cmd

import (
	"os"

	"github.com/cheta-player/cheta/color"
	"github.com/cheta-player/cheta/config"
	"github.com/cheta-player/cheta/style"
	"github.com/cheta-player/cheta/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVar is an environment variable and the setting it overrides.
type envVar struct {
	name    string
	setting string
}

// envVars lists every variable cheta reads, sorted by name.
func envVars() []envVar {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) envVar {
		field := config.Default[k]
		return envVar{name: field.Env(), setting: k}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath, setting: "config directory"})

	slices.SortFunc(vars, func(a, b envVar) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		}
		return 0
	})
	return vars
}

// envCmd shows the environment variables that override settings and their values.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name))
			cmd.Print("=")

			if present {
				cmd.Print(style.Fg(color.Green)(value))
			} else {
				cmd.Print(style.Fg(color.Red)("unset"))
			}
			cmd.Println(" " + style.Faint(v.setting))
		}
	},
}
