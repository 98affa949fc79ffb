package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/karaberus/karaplay/auth"
	"github.com/karaberus/karaplay/color"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd, tokenGetCmd, tokenDeleteCmd)

	tokenGetCmd.Flags().BoolP("reveal", "r", false, "Print the whole token instead of a masked form")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the bearer token mpv sends to media servers",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the token in the system keyring",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			prompt := &survey.Password{Message: "Token:"}
			handleErr(survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)))
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(errors.New("empty token"))
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s token saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var tokenGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		token, err := auth.GetToken()
		if errors.Is(err, keyring.ErrNotFound) {
			handleErr(errors.New("no token stored"))
		}
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("reveal")) {
			token = mask(token)
		}
		fmt.Printf("%s %s\n", icon.Get(icon.Key), token)
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the stored token",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		err := auth.DeleteToken()
		if errors.Is(err, keyring.ErrNotFound) {
			err = nil
		}
		handleErr(err)
		fmt.Printf("%s token deleted\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// mask keeps the last four characters of a token.
func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
