package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/yojana/internal/recommend"
	"github.com/hammamikhairi/yojana/internal/speech"
)

var (
	promptProfile profileFlags
	promptText    string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the recommendation and speech prompts",
	Long: `Render the instructions that would be sent to the model, without
calling the network. Missing profile fields are left blank.

Examples:
  yojana prompt --age 45 --occupation Farmer --lang hi
  yojana prompt --profile farmer.yaml --text "PM-Kisan"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup("")
		if err != nil {
			return err
		}
		defer a.close()

		profile, err := promptProfile.resolve()
		if err != nil {
			return err
		}
		lang := a.cfg.Lang()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, recommend.BuildPrompt(profile, lang, a.cfg.TopN))
		if promptText != "" {
			text, err := speech.NormalizeText(promptText)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, speech.Instruction(text, lang))
		}
		return nil
	},
}

func init() {
	promptProfile.bind(promptCmd)
	promptCmd.Flags().StringVar(&promptText, "text", "", "also print the speech instruction for this text")
	rootCmd.AddCommand(promptCmd)
}
