package cmd

import (
	"errors"

	"github.com/karaberus/karaplay/player"
	"github.com/karaberus/karaplay/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("video", "", "Video file or URL")
	playCmd.Flags().StringP("inst", "i", "", "Instrumental audio file or URL")
	playCmd.Flags().StringP("sub", "s", "", "Subtitle file or URL")
	playCmd.Flags().StringP("title", "t", "", "Title shown by mpv (defaults to the file name)")
	addSessionFlags(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [video]",
	Short: "Play one karaoke track and wait until mpv is done",
	Example: `  karaplay play song.mkv --sub song.ass
  karaplay play --inst song.inst.flac --sub song.ass --title "Gurenge"`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		video := lo.Must(cmd.Flags().GetString("video"))
		if len(args) == 1 {
			if video != "" {
				handleErr(errors.New("video given both as argument and --video"))
			}
			video = args[0]
		}

		bundle := newBundle(
			video,
			lo.Must(cmd.Flags().GetString("inst")),
			lo.Must(cmd.Flags().GetString("sub")),
			lo.Must(cmd.Flags().GetString("title")),
		)
		handleErr(bundle.Validate())

		tok, err := token(cmd)
		handleErr(err)

		session, err := openSession(cmd)
		handleErr(err)

		if err := session.submit(cmd, bundle, tok); err != nil {
			util.Ignore(session.lock.Unlock)
			handleErr(err)
		}

		session.wait()
	},
}

// newBundle builds a bundle, naming it after its primary file when no title is given.
func newBundle(video, inst, sub, title string) player.TrackBundle {
	bundle := player.NewTrackBundle(video, inst, sub, title)
	if title == "" && bundle.Validate() == nil {
		bundle.Title = util.FileStem(bundle.Primary())
	}
	return bundle
}
