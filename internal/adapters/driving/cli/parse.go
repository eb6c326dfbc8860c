package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

var (
	parseJSON bool

	parseCmd = &cobra.Command{
		Use:   "parse [order text]",
		Short: "Parse a free-text medication order",
		Long: `Extract a structured order (medication, dosage, frequency, route,
indication, duration) from free text.

Example:
  guardian parse "start lisinopril 10mg daily for hypertension"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
)

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "output the parsed order as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if orderService == nil {
		return errors.New("order service not configured")
	}

	text := strings.Join(args, " ")
	order, err := orderService.ParseOrder(cmd.Context(), text)
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			cmd.Println("The model did not return a parseable order. Raw output:")
			cmd.Println()
			cmd.Println(parseErr.Raw)
			return errors.New("order could not be parsed")
		}
		return fmt.Errorf("parsing order: %w", err)
	}

	if parseJSON {
		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling order: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Parsed order:")
	for _, field := range []string{"patient_name", "medication", "dosage", "frequency", "route", "indication", "duration"} {
		value, ok := order.Field(field)
		if !ok {
			value = "-"
		}
		cmd.Printf("  %-13s %s\n", field+":", value)
	}
	return nil
}
