package cmd

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/karaberus/karaplay/color"
	"github.com/karaberus/karaplay/config"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/style"
	"github.com/karaberus/karaplay/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// envVar is one environment variable karaplay reads.
type envVar struct {
	Name  string
	Key   string
	Value string
	// Problem is set when the variable holds a value its setting rejects.
	Problem error
}

func envVars() []envVar {
	vars := []envVar{{
		Name:  where.EnvConfigPath,
		Value: os.Getenv(where.EnvConfigPath),
	}}

	for _, field := range config.Default {
		v := envVar{
			Name:  field.Env(),
			Key:   field.Key,
			Value: os.Getenv(field.Env()),
		}
		if v.Value != "" {
			v.Problem = config.Check(field.Key)
		}
		vars = append(vars, v)
	}

	slices.SortFunc(vars, func(a, b envVar) int {
		return strings.Compare(a.Name, b.Name)
	})
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")

	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables karaplay reads and their values",
	Long:  "Show the environment variables karaplay reads. Every setting can be overridden with one; values a setting would reject are flagged.",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		vars := lo.Filter(envVars(), func(v envVar, _ int) bool {
			set := v.Value != ""
			return !(setOnly && !set) && !(unsetOnly && set)
		})

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Variable", "Setting", "Value"})

		for _, v := range vars {
			value := style.Fg(color.Red)("unset")
			switch {
			case v.Problem != nil:
				value = style.Fg(style.WarningColor)(icon.Get(icon.Warn) + " " + v.Value)
			case v.Value != "":
				value = style.Fg(color.Green)(v.Value)
			}

			tw.AppendRow(table.Row{style.Fg(color.Purple)(v.Name), style.Faint(v.Key), value})
		}

		cmd.Println(tw.Render())

		for _, v := range vars {
			if v.Problem != nil {
				cmd.Printf("%s %s: %s\n", icon.Get(icon.Warn), v.Name, v.Problem)
			}
		}
	},
}
