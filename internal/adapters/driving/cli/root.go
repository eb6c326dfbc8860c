// Package cli implements the guardian command-line interface using cobra.
// Commands are thin adapters: they parse flags, call the core services and
// render the results. All wiring happens in main before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/clinsafe/guardian-cli/internal/adapters/driving/tui"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
	"github.com/clinsafe/guardian-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services, set once by SetServices before Execute.
var (
	patientService driving.PatientService
	safetyService  driving.SafetyService
	orderService   driving.OrderService
	chatService    driving.ChatService
	configStore    driven.ConfigStore
	checkLog       driven.CheckLog
	recordWatcher  tui.RecordWatcher
)

// Services bundles everything the commands need.
type Services struct {
	Patient driving.PatientService
	Safety  driving.SafetyService
	Order   driving.OrderService
	Chat    driving.ChatService
	Config  driven.ConfigStore
	Log     driven.CheckLog

	// Watcher reports out-of-band patient record changes to the chat UI.
	// Optional; nil when the store cannot watch.
	Watcher tui.RecordWatcher
}

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	patientService = s.Patient
	safetyService = s.Safety
	orderService = s.Order
	chatService = s.Chat
	configStore = s.Config
	checkLog = s.Log
	recordWatcher = s.Watcher
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "guardian",
	Short: "AI-assisted medication safety checks",
	Long: `Guardian is a clinical decision-support CLI.

It keeps per-patient records on disk and uses a configured LLM provider to
run medication safety checks: drug interactions, allergy screening, risk
assessment and guideline review, synthesised into a single recommendation.

All output is advisory. Clinical decisions remain with the clinician.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
