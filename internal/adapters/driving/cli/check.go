package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

var (
	checkJSON bool

	checkCmd = &cobra.Command{
		Use:   "check [medication] [dosage]",
		Short: "Run a comprehensive safety check",
		Long: `Run every safety check against the active patient and synthesise a
final recommendation.

The pipeline runs drug interaction analysis, allergy screening, risk
assessment and guideline review in order, then asks the model for a single
APPROVE / APPROVE WITH MODIFICATIONS / DO NOT APPROVE decision. A check
that fails mid-run is reported as "Not checked" and the rest still run.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCheck,
	}
)

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(checkCmd)
}

// Styles for the check report.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	riskStyles  = map[domain.RiskLevel]lipgloss.Style{
		domain.RiskHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		domain.RiskModerate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		domain.RiskLow:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		domain.RiskUnknown:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
	}
)

func runCheck(cmd *cobra.Command, args []string) error {
	if safetyService == nil {
		return errors.New("safety service not configured")
	}

	medication := args[0]
	dosage := ""
	if len(args) > 1 {
		dosage = args[1]
	}

	result := safetyService.RunComprehensiveCheck(cmd.Context(), medication, dosage)

	if checkJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Error != "" {
		return fmt.Errorf("safety check aborted: %s", result.Error)
	}

	title := fmt.Sprintf("Safety Check: %s", medication)
	if dosage != "" {
		title += " " + dosage
	}
	cmd.Println(headerStyle.Render(title))
	cmd.Println()

	printSection(cmd, result, domain.CheckDrugInteractions, result.DrugInteractions)
	printSection(cmd, result, domain.CheckAllergySafety, result.AllergySafety)
	printSection(cmd, result, domain.CheckRiskAssessment, result.RiskAssessment)
	printSection(cmd, result, domain.CheckGuidelinesReview, result.Guidelines)

	cmd.Println(headerStyle.Render("Final Recommendation"))
	risk := domain.DeriveRiskLevel(result.FinalRecommendation)
	cmd.Printf("Risk: %s\n\n", riskStyles[risk].Render(risk.String()))
	cmd.Println(result.FinalRecommendation)
	cmd.Println()
	cmd.Printf("Check ID: %s\n", result.ID)

	return nil
}

func printSection(cmd *cobra.Command, result *domain.SafetyCheckResult, name, text string) {
	cmd.Println(headerStyle.Render(name))
	if !result.Performed(name) {
		cmd.Printf("%s (%s)\n\n", domain.NotChecked, text)
		return
	}
	cmd.Println(text)
	cmd.Println()
}
