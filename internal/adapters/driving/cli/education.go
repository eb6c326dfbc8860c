package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	educationLevel string

	educationCmd = &cobra.Command{
		Use:   "education [medication]",
		Short: "Generate patient education material",
		Long: `Generate plain-language education material about a medication,
written at the requested reading level.`,
		Args: cobra.ExactArgs(1),
		RunE: runEducation,
	}
)

func init() {
	educationCmd.Flags().StringVar(&educationLevel, "level", "", `target reading level (default "8th grade")`)
	rootCmd.AddCommand(educationCmd)
}

func runEducation(cmd *cobra.Command, args []string) error {
	if safetyService == nil {
		return errors.New("safety service not configured")
	}

	text, err := safetyService.GenerateEducation(cmd.Context(), args[0], educationLevel)
	if err != nil {
		return fmt.Errorf("generating education material: %w", err)
	}
	cmd.Println(text)
	return nil
}
