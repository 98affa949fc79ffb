package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/log"
	"github.com/karaberus/karaplay/style"
	"github.com/karaberus/karaplay/util"
	"github.com/spf13/cobra"
)

// bundleLine is one line of `karaplay session` input.
type bundleLine struct {
	Video string `json:"video,omitempty" jsonschema:"description=Video file or URL"`
	Inst  string `json:"inst,omitempty" jsonschema:"description=Instrumental audio file or URL. Played as the main item when there is no video"`
	Sub   string `json:"sub,omitempty" jsonschema:"description=Subtitle file or URL"`
	Title string `json:"title,omitempty" jsonschema:"description=Title shown by mpv"`
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	addSessionFlags(sessionCmd)

	sessionCmd.AddCommand(sessionSchemaCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Read tracks as JSON lines from stdin and play them in one mpv session",
	Long: `Read tracks as JSON lines from stdin and play them in one mpv session.

Each line is an object such as {"video":"song.mkv","sub":"song.ass"}.
Tracks are played in the order they arrive; mpv quits once the queue is empty
and stdin is closed.`,
	Run: func(cmd *cobra.Command, args []string) {
		tok, err := token(cmd)
		handleErr(err)

		session, err := openSession(cmd)
		handleErr(err)

		interactive := util.IsTerminal(os.Stdin)
		prompt := func() {
			if interactive {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), style.Faint("track> "))
			}
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for prompt(); scanner.Scan(); prompt() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var in bundleLine
			if err := json.Unmarshal([]byte(line), &in); err != nil {
				log.Warnf("session input: %v", err)
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s invalid line: %v\n", icon.Get(icon.Fail), err)
				continue
			}

			bundle := newBundle(in.Video, in.Inst, in.Sub, in.Title)
			if err := session.submit(cmd, bundle, tok); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", icon.Get(icon.Fail), err)
			}
		}
		if err := scanner.Err(); err != nil {
			log.Warnf("session input: %v", err)
		}

		session.wait()
	},
}

var sessionSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a session input line",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.DoNotReference = true

		schema := reflector.Reflect(&bundleLine{})
		schema.Title = "track"

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
