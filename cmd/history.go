package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/karaberus/karaplay/color"
	"github.com/karaberus/karaplay/history"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/style"
	"github.com/karaberus/karaplay/util"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Bool("clear", false, "Forget all played tracks")
	historyCmd.Flags().BoolP("json", "j", false, "Print the history as JSON")
	historyCmd.Flags().IntP("number", "n", 20, "Number of most recent entries to show (0 for all)")

	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played tracks",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		entries, err := history.Get()
		handleErr(err)

		if n := lo.Must(cmd.Flags().GetInt("number")); n > 0 && len(entries) > n {
			entries = entries[len(entries)-n:]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("nothing played yet"))
			return
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"#", "Played", "Title", "Session"})
		for i, e := range entries {
			tw.AppendRow(table.Row{
				i + 1,
				e.PlayedAt.Local().Format("2006-01-02 15:04"),
				e.Title,
				style.Fg(color.Gray)(e.Session[:min(8, len(e.Session))]),
			})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})

		cmd.Println(tw.Render())
		cmd.Println(style.Faint(util.Quantify(len(entries), "track", "tracks")))
	},
}
