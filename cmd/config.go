package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cheta-player/cheta/color"
	"github.com/cheta-player/cheta/config"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/icon"
	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/overlay"
	"github.com/cheta-player/cheta/style"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

// completionConfigKeys offers registered keys that fuzzily match the typed text,
// so "hide" completes to overlay.autohide_delay.
func completionConfigKeys(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	keys := fuzzy.FindFold(toComplete, lo.Keys(config.Default))
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// validator checks a value already converted to the field's type.
type validator func(v any) (any, error)

func positive(unit string) validator {
	return func(v any) (any, error) {
		if v.(int) <= 0 {
			return nil, fmt.Errorf("must be a positive number of %s", unit)
		}
		return v, nil
	}
}

func oneOf(options func() []string) validator {
	return func(v any) (any, error) {
		s := strings.ToLower(strings.TrimSpace(v.(string)))
		if !lo.Contains(options(), s) {
			return nil, fmt.Errorf("%q is not one of %s", v, strings.Join(options(), ", "))
		}
		return s, nil
	}
}

// validators reject values that would only fail once the player starts.
var validators = map[string]validator{
	key.OverlayAutoHideDelay: positive("milliseconds"),
	key.OverlaySeekGrace:     positive("milliseconds"),
	key.PlayerTickInterval:   positive("milliseconds"),
	key.OverlaySkipSeconds:   positive("seconds"),
	key.HistoryMaxAge: func(v any) (any, error) {
		if v.(int) < 0 {
			return nil, errors.New("must be 0 or more days")
		}
		return v, nil
	},
	key.OverlaySeekSettle: func(v any) (any, error) {
		settle, err := overlay.ParseSettle(v.(string))
		if err != nil {
			return nil, err
		}
		return settle.String(), nil
	},
	key.Player:       oneOf(engine.Available),
	key.IconsVariant: oneOf(icon.AvailableVariants),
	key.LogsLevel: func(v any) (any, error) {
		level, err := logrus.ParseLevel(v.(string))
		if err != nil {
			return nil, err
		}
		return level.String(), nil
	},
}

// parseValue converts raw to the type of the key's default and validates it.
func parseValue(k string, raw []string) (any, error) {
	field, ok := config.Default[k]
	if !ok {
		return nil, errUnknownKey(k)
	}
	if len(raw) == 0 {
		return nil, errors.New("value is required")
	}

	var v any
	switch field.Value.(type) {
	case string:
		v = raw[0]
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %s", k, raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value for %s: %s", k, raw[0])
		}
		v = b
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", k)
	}

	if validate, ok := validators[k]; ok {
		checked, err := validate(v)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", k, err)
		}
		v = checked
	}

	return v, nil
}

// keyAndValue reads the key from the first argument or --key, and the value from
// the remaining arguments or --value.
func keyAndValue(cmd *cobra.Command, args []string) (string, []string, error) {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) >= 1 {
		k = args[0]
	}
	if k == "" {
		return "", nil, errors.New("key is required as an argument or --key flag")
	}

	value := lo.Must(cmd.Flags().GetStringSlice("value"))
	if len(args) >= 2 {
		value = args[1:]
	}

	return k, value, nil
}

func writeConfig() error {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		return viper.SafeWriteConfig()
	default:
		return err
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd groups the subcommands that read and change settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change player settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Specify the configuration keys to retrieve information for")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd describes settings with their current and default values.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))

			for _, k := range keys {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				fields = append(fields, field)
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJson {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		pretty := lo.Map(fields, func(f config.Field, _ int) string { return f.Pretty() })
		cmd.Println(strings.Join(pretty, "\n\n"))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The configuration key to change")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "The new value of the key")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configSetCmd validates and stores a new value for a setting.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Change a setting, e.g. `set overlay.autohide_delay 5000`",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, raw, err := keyAndValue(cmd, args)
		handleErr(err)

		v, err := parseValue(k, raw)
		handleErr(err)

		viper.Set(k, v)
		handleErr(writeConfig())

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(k),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The configuration key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configGetCmd prints the effective value of a setting.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k := lo.Must(cmd.Flags().GetString("key"))
		if len(args) == 1 {
			k = args[0]
		}

		if _, ok := config.Default[k]; !ok {
			handleErr(errUnknownKey(k))
		}

		fmt.Println(viper.Get(k))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "The configuration key to restore to its default value")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every setting to its default")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configResetCmd restores settings to their defaults.
var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore a setting, or all of them, to the default",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(fmt.Errorf("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		k := lo.Must(cmd.Flags().GetString("key"))

		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			handleErr(writeConfig())
			fmt.Printf("%s reset all settings\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		field, ok := config.Default[k]
		if !ok {
			handleErr(errUnknownKey(k))
		}

		viper.Set(k, field.Value)
		handleErr(writeConfig())

		fmt.Printf(
			"%s reset %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(k),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", field.Value)),
		)
	},
}
