package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/karaberus/karaplay/config"
	"github.com/karaberus/karaplay/constant"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/key"
	"github.com/karaberus/karaplay/player"
	"github.com/karaberus/karaplay/style"
	"github.com/karaberus/karaplay/util"
	"github.com/karaberus/karaplay/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv is installed and recent enough",
	Run: func(cmd *cobra.Command, args []string) {
		binary := viper.GetString(key.PlayerBinary)

		if _, err := exec.LookPath(binary); err != nil {
			printMissingDependencyError(binary)
			os.Exit(1)
		}

		erase := util.PrintErasable(fmt.Sprintf("%s Checking %s...", icon.Get(icon.Progress), binary))
		v, err := version.Mpv(binary)
		erase()
		handleErr(err)

		ok, err := version.MpvSupported(v)
		handleErr(err)

		if !ok {
			fmt.Printf("%s mpv %s is older than %s, playback may misbehave\n",
				style.Fg(style.WarningColor)(icon.Get(icon.Warn)), v, constant.MinMpvVersion)
		} else {
			fmt.Printf("%s mpv %s\n", style.Fg(style.SuccessColor)(icon.Get(icon.Success)), v)
		}

		fmt.Printf("%s endpoint %s\n", icon.Get(icon.Success), player.ConfigFromViper().Endpoint)

		for _, err := range config.Problems() {
			fmt.Printf("%s %s\n", style.Fg(style.WarningColor)(icon.Get(icon.Warn)), err)
		}
	},
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH. Set %s if it lives elsewhere.", dep, key.PlayerBinary))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
