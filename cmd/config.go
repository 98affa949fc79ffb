package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/karaberus/karaplay/color"
	"github.com/karaberus/karaplay/config"
	"github.com/karaberus/karaplay/constant"
	"github.com/karaberus/karaplay/filesystem"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/key"
	"github.com/karaberus/karaplay/player"
	"github.com/karaberus/karaplay/style"
	"github.com/karaberus/karaplay/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// configFile is where set, reset and write persist settings.
func configFile() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// configKey takes the key from the first argument or the --key flag.
func configKey(cmd *cobra.Command, args []string) (string, error) {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}

	if k == "" {
		return "", errors.New("key is required as an argument or --key flag")
	}

	if _, ok := config.Default[k]; !ok {
		return "", fmt.Errorf(
			"%w %s, did you mean %s?",
			config.ErrUnknownKey,
			style.Fg(color.Red)(k),
			style.Fg(color.Yellow)(config.Closest(k)),
		)
	}

	return k, nil
}

// saveConfig writes viper's settings, creating the file on first use.
func saveConfig() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}
	return err
}

func printDone(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func init() {
	rootCmd.AddCommand(configCmd)

	// An empty player.socket means the platform default; show which one.
	config.SetEffective(key.PlayerSocket, func() any {
		return player.ConfigFromViper().Endpoint
	})
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change karaplay settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings: meaning, env variable, current, default and in-use value",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = lo.Keys(config.Default)
		}
		sort.Strings(keys)

		fields := make([]*config.Field, 0, len(keys))
		for _, k := range keys {
			field, ok := config.Default[k]
			if !ok {
				handleErr(fmt.Errorf("%w %s, did you mean %s?", config.ErrUnknownKey, k, config.Closest(k)))
			}
			fields = append(fields, &field)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(fields))
			return
		}

		for i, field := range fields {
			cmd.Print(field.Pretty())
			if err := config.Check(field.Key); err != nil {
				cmd.Printf("\n%s %s", style.Fg(style.WarningColor)(icon.Get(icon.Warn)), err)
			}

			if i < len(fields)-1 {
				cmd.Print("\n\n")
			}
		}
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report settings from the config file or environment that karaplay would reject",
	Run: func(cmd *cobra.Command, args []string) {
		problems := config.Problems()
		for _, err := range problems {
			fmt.Printf("%s %s\n", style.Fg(style.ErrorColor)(icon.Get(icon.Fail)), err)
		}

		if len(problems) > 0 {
			os.Exit(1)
		}
		printDone("all settings are valid")
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to set")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "New value; repeat for list settings such as player.args")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Change a setting and write it to the config file",
	Example:           "  karaplay config set player.idle once\n  karaplay config set player.args --fs --volume=80",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, err := configKey(cmd, args)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		v, err := config.Parse(k, raw)
		handleErr(err)

		viper.Set(k, v)
		handleErr(saveConfig())

		printDone("set %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(v)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configGetCmd.SetOut(os.Stdout)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the value of a setting, or the value in use when it is empty",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, err := configKey(cmd, args)
		handleErr(err)

		v := viper.Get(k)
		if inUse := config.InUse(k); fmt.Sprint(v) == "" && inUse != nil {
			v = inUse
		}
		cmd.Println(v)
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			err := filesystem.API().Remove(configFile())
			if !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		printDone("wrote config to %s", configFile())
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		printDone("deleted %s", configFile())
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore settings to their defaults",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			handleErr(saveConfig())
			printDone("reset all settings")
			return
		}

		k, err := configKey(cmd, args)
		handleErr(err)

		viper.Set(k, config.Default[k].Value)
		handleErr(saveConfig())
		printDone("reset %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(config.Default[k].Value)))
	},
}
