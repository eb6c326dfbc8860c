package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Manage patient records",
	Long: `View and manage the per-patient records used by safety checks.

Most commands operate on the active patient; select one with 'patient use'.`,
}

var patientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all patient records",
	RunE:  runPatientList,
}

var patientUseCmd = &cobra.Command{
	Use:   "use [patient-id]",
	Short: "Select the active patient",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatientUse,
}

var (
	patientShowJSON bool

	patientShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the active patient's record",
		RunE:  runPatientShow,
	}
)

var patientNoteCmd = &cobra.Command{
	Use:   "note [text]",
	Short: "Append a clinical note to the active patient",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPatientNote,
}

func init() {
	patientShowCmd.Flags().BoolVar(&patientShowJSON, "json", false, "output the record as JSON")
	patientCmd.AddCommand(patientListCmd)
	patientCmd.AddCommand(patientUseCmd)
	patientCmd.AddCommand(patientShowCmd)
	patientCmd.AddCommand(patientNoteCmd)
	rootCmd.AddCommand(patientCmd)
}

func runPatientList(cmd *cobra.Command, _ []string) error {
	if patientService == nil {
		return errors.New("patient service not configured")
	}

	patients, err := patientService.ListPatients(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing patients: %w", err)
	}

	if len(patients) == 0 {
		cmd.Println("No patient records found.")
		return nil
	}

	active := patientService.ActiveID()
	cmd.Println("Patients:")
	for _, p := range patients {
		marker := " "
		if p.ID == active {
			marker = "*"
		}
		cmd.Printf("  %s %-12s %s\n", marker, p.ID, p.Name)
	}
	return nil
}

func runPatientUse(cmd *cobra.Command, args []string) error {
	if patientService == nil {
		return errors.New("patient service not configured")
	}

	id := args[0]
	if err := patientService.SetActive(cmd.Context(), id); err != nil {
		return fmt.Errorf("selecting patient: %w", err)
	}
	cmd.Printf("Active patient: %s\n", id)
	return nil
}

func runPatientShow(cmd *cobra.Command, _ []string) error {
	if patientService == nil {
		return errors.New("patient service not configured")
	}

	record, err := patientService.GetActive(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading active patient: %w", err)
	}

	if patientShowJSON {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling record: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s (%s)\n", record.Name, record.ID)
	cmd.Printf("  Age: %d   Weight: %.1f kg   Height: %.0f cm\n", record.Age, record.WeightKg, record.HeightCm)
	cmd.Printf("  Conditions: %s\n", joinList(record.Conditions))
	cmd.Println("  Medications:")
	for _, m := range record.Medications {
		cmd.Printf("    - %s %s %s (%s)\n", m.Name, m.Dosage, m.Frequency, m.Purpose)
	}
	if len(record.Medications) == 0 {
		cmd.Println("    (none)")
	}
	cmd.Println("  Allergies:")
	for _, a := range record.Allergies {
		cmd.Printf("    - %s: %s\n", a.Allergen, a.Reaction)
	}
	if len(record.Allergies) == 0 {
		cmd.Println("    (none)")
	}
	if len(record.RecentLabs) > 0 {
		cmd.Println("  Recent labs:")
		for name := range record.RecentLabs {
			cmd.Printf("    - %s: %s\n", name, record.Lab(name))
		}
	}
	if n := len(record.ClinicalNotes); n > 0 {
		latest := record.ClinicalNotes[n-1]
		cmd.Printf("  Latest note (%s): %s\n", latest.Date, latest.Note)
	}
	if record.LastVisit != "" {
		cmd.Printf("  Last visit: %s\n", record.LastVisit)
	}
	return nil
}

func runPatientNote(cmd *cobra.Command, args []string) error {
	if patientService == nil {
		return errors.New("patient service not configured")
	}

	note := strings.Join(args, " ")
	if err := patientService.AppendNote(cmd.Context(), note); err != nil {
		return fmt.Errorf("adding note: %w", err)
	}
	cmd.Println("Note recorded.")
	return nil
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
