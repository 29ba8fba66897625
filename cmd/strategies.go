package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/scoring"
	"github.com/papapumpkin/triage/internal/ui"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List scoring strategies and their weights",
	Args:  cobra.NoArgs,
	RunE:  runStrategies,
}

func init() {
	strategiesCmd.Flags().Bool("json", false, "print strategies as JSON")

	rootCmd.AddCommand(strategiesCmd)
}

type strategyOutput struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Default     bool            `json:"default"`
	Weights     scoring.Weights `json:"weights"`
}

func runStrategies(cmd *cobra.Command, _ []string) error {
	sess, err := loadSession(cmd)
	if err != nil {
		return err
	}
	def := sess.cfg.Strategy()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		var out []strategyOutput
		for _, s := range scoring.Strategies() {
			out = append(out, strategyOutput{
				Name:        s.String(),
				DisplayName: s.DisplayName(),
				Default:     s == def,
				Weights:     s.Weights(),
			})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}
	ui.NewWriter(cmd.OutOrStdout()).Strategies(scoring.Strategies(), def)
	return nil
}
