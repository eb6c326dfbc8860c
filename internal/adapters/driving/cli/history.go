package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recent safety checks",
		Long:  `List recently completed comprehensive safety checks, newest first.`,
		RunE:  runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if checkLog == nil {
		return errors.New("check history not configured")
	}

	entries, err := checkLog.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading check history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No safety checks recorded yet.")
		return nil
	}

	cmd.Println("Recent safety checks:")
	for _, e := range entries {
		dosage := e.Result.Dosage
		if dosage == "" {
			dosage = "-"
		}
		cmd.Printf("  %s  %-10s %-20s %-8s risk=%s\n",
			e.Result.Timestamp.Format("2006-01-02 15:04"),
			e.PatientID,
			e.Result.Medication,
			dosage,
			e.RiskLevel,
		)
	}
	return nil
}
