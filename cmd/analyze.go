package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/scoring"
	"github.com/papapumpkin/triage/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Score and rank a JSON file of tasks",
	Long: "Analyze reads a JSON array of tasks from a file, or from stdin when the\n" +
		"argument is - or omitted, and prints them ranked by priority.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("strategy", "s", "", "scoring strategy (default from config)")
	analyzeCmd.Flags().Bool("json", false, "print the ranking as JSON")
	analyzeCmd.Flags().Bool("strict", false, "reject dependency IDs that are not a task position in the batch")

	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutput struct {
	Tasks    []ranking.ScoredTask `json:"tasks"`
	Strategy scoring.Strategy     `json:"strategy"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd)
	if err != nil {
		return err
	}
	strategy, err := strategyFlag(cmd, sess)
	if err != nil {
		return err
	}

	opts := intake.Options{StrictDependencies: sess.cfg.Analysis.StrictDependencies}
	if v, _ := cmd.Flags().GetBool("strict"); v {
		opts.StrictDependencies = true
	}

	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	errPrinter := ui.NewWriter(cmd.ErrOrStderr())

	tasks, err := intake.Parse(in, opts)
	var batch *intake.BatchError
	if errors.As(err, &batch) {
		errPrinter.ValidationFailed(batch.Tasks)
		return fmt.Errorf("%s: %d invalid task(s)", name, len(batch.Tasks))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	clock, err := sess.cfg.Clock()
	if err != nil {
		return err
	}
	ranked, err := ranking.New(clock).Analyze(tasks, strategy)
	var cycleErr *ranking.CycleError
	if errors.As(err, &cycleErr) {
		titles := make([]string, len(tasks))
		for i, t := range tasks {
			titles[i] = t.Title
		}
		errPrinter.Cycle(cycleErr.Cycle, titles)
		return fmt.Errorf("%s: %w", name, err)
	}
	if err != nil {
		return err
	}
	sess.logger.Debug("analyzed tasks", "source", name, "tasks", len(ranked), "strategy", strategy.String())

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), analyzeOutput{Tasks: ranked, Strategy: strategy})
	}
	ui.NewWriter(cmd.OutOrStdout()).Ranked(strategy, ranked)
	return nil
}

// openInput returns the task source named by args. No argument or "-"
// means stdin.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("opening tasks: %w", err)
	}
	return f, args[0], nil
}

// strategyFlag resolves --strategy, falling back to the configured default.
// Unlike the HTTP API, an unknown name is an error.
func strategyFlag(cmd *cobra.Command, sess *session) (scoring.Strategy, error) {
	name, _ := cmd.Flags().GetString("strategy")
	if name == "" {
		return sess.cfg.Strategy(), nil
	}
	s, ok := scoring.LookupStrategy(name)
	if !ok {
		return 0, fmt.Errorf("unknown strategy %q (see 'triage strategies')", name)
	}
	return s, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
