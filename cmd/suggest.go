package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/ui"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the top tasks from the built-in sample set",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringP("strategy", "s", "", "scoring strategy (default from config)")
	suggestCmd.Flags().Int("limit", 0, "number of tasks to show (default from config)")
	suggestCmd.Flags().Bool("json", false, "print the suggestion as JSON")

	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	sess, err := loadSession(cmd)
	if err != nil {
		return err
	}
	strategy, err := strategyFlag(cmd, sess)
	if err != nil {
		return err
	}
	limit := sess.cfg.Analysis.SuggestLimit
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		limit = v
	}

	clock, err := sess.cfg.Clock()
	if err != nil {
		return err
	}
	sug, err := ranking.New(clock).Suggest(strategy, limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), sug)
	}
	ui.NewWriter(cmd.OutOrStdout()).Suggestion(sug)
	return nil
}
