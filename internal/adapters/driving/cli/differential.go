package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var differentialCmd = &cobra.Command{
	Use:   "differential [symptoms]",
	Short: "Generate a differential diagnosis",
	Long: `Generate a ranked differential diagnosis for the presented symptoms,
informed by the active patient's history and medication list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDifferential,
}

func init() {
	rootCmd.AddCommand(differentialCmd)
}

func runDifferential(cmd *cobra.Command, args []string) error {
	if safetyService == nil {
		return errors.New("safety service not configured")
	}

	symptoms := strings.Join(args, " ")
	text, err := safetyService.GenerateDifferential(cmd.Context(), symptoms)
	if err != nil {
		return fmt.Errorf("generating differential: %w", err)
	}
	cmd.Println(text)
	return nil
}
