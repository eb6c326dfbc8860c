// Command guardian is the medication safety CLI. It wires the stores, the
// configured LLM backend and the core services together, then hands control
// to the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/clinsafe/guardian-cli/internal/adapters/driven/ai"
	configfile "github.com/clinsafe/guardian-cli/internal/adapters/driven/config/file"
	storagefile "github.com/clinsafe/guardian-cli/internal/adapters/driven/storage/file"
	"github.com/clinsafe/guardian-cli/internal/adapters/driven/storage/sqlite"
	"github.com/clinsafe/guardian-cli/internal/adapters/driving/cli"
	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/services"
	"github.com/clinsafe/guardian-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settings := loadSettings(configStore)

	// A cloud provider without a key is a startup error, not something to
	// discover on the first model call.
	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		return err
	}
	if llm == nil && settings.LLM.Provider.RequiresAPIKey() {
		return fmt.Errorf("%w: provider %s requires an API key; set GUARDIAN_API_KEY or run 'guardian settings set-key'",
			domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	if llm != nil {
		defer llm.Close()
		logger.Info("LLM backend: %s", llm.ModelName())
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	patientStore, err := storagefile.NewPatientStore(settings.PatientsDir)
	if err != nil {
		return fmt.Errorf("opening patient store: %w", err)
	}

	ctx := context.Background()
	if err := patientStore.Seed(ctx, demoPatient()); err != nil {
		return fmt.Errorf("seeding demo patient: %w", err)
	}

	checkLog, err := sqlite.NewCheckLog("")
	if err != nil {
		return fmt.Errorf("opening check log: %w", err)
	}
	defer checkLog.Close()

	patients := services.NewPatientService(patientStore)
	if err := patients.SetActive(ctx, demoPatientID); err != nil {
		return fmt.Errorf("selecting default patient: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(float64(settings.RequestsPerMinute)/60.0), 1)

	safety := services.NewSafetyService(llm, patients, limiter, checkLog)
	safety.SetPromptStore(promptStore)

	parser := services.NewOrderParser(llm)
	parser.SetPromptStore(promptStore)

	toolset := services.NewToolset(patients, safety)
	chat := services.NewChatService(llm, toolset)
	chat.SetPromptStore(promptStore)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Patient: patients,
		Safety:  safety,
		Order:   parser,
		Chat:    chat,
		Config:  configStore,
		Log:     checkLog,
		Watcher: patientStore,
	})

	return cli.Execute()
}

// loadSettings reads the persisted configuration, filling gaps with
// defaults. GUARDIAN_API_KEY overrides the stored key when set.
func loadSettings(store driven.ConfigStore) *domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if provider := domain.AIProvider(store.GetString("llm.provider")); provider.IsValid() {
		settings.LLM.Provider = provider
	}
	if model := store.GetString("llm.model"); model != "" {
		settings.LLM.Model = model
	}
	if url := store.GetString("llm.base_url"); url != "" {
		settings.LLM.BaseURL = url
	}
	settings.LLM.APIKey = store.GetString("llm.api_key")
	if key := os.Getenv("GUARDIAN_API_KEY"); key != "" {
		settings.LLM.APIKey = key
	}

	if dir := store.GetString("patients.dir"); dir != "" {
		settings.PatientsDir = dir
	}
	if rpm := store.GetInt("ratelimit.requests_per_minute"); rpm > 0 {
		settings.RequestsPerMinute = rpm
	}
	return settings
}

const demoPatientID = "P-90210"

// demoPatient is the bundled sample record. Seeding never overwrites an
// existing file, so local edits to the record survive restarts.
func demoPatient() *domain.PatientRecord {
	return &domain.PatientRecord{
		ID:       demoPatientID,
		Name:     "Robert Smith",
		Age:      65,
		WeightKg: 82,
		HeightCm: 175,
		Conditions: []string{
			"Atrial Fibrillation",
			"Hypertension",
			"Type 2 Diabetes",
		},
		Medications: []domain.Medication{
			{
				Name:      "Warfarin",
				Dosage:    "5mg",
				Frequency: "Once daily",
				Purpose:   "Anticoagulation for AFib",
				StartDate: "2023-06-15",
			},
			{
				Name:      "Lisinopril",
				Dosage:    "10mg",
				Frequency: "Once daily",
				Purpose:   "Blood pressure control",
				StartDate: "2022-03-20",
			},
			{
				Name:      "Metformin",
				Dosage:    "500mg",
				Frequency: "Twice daily",
				Purpose:   "Blood sugar control",
				StartDate: "2021-11-10",
			},
		},
		Allergies: []domain.Allergy{
			{Allergen: "Penicillin", Reaction: "Rash and swelling"},
		},
		RecentLabs: map[string]any{
			"date":       "2024-10-15",
			"INR":        2.3,
			"creatinine": 1.1,
			"HbA1c":      6.8,
		},
		VitalSigns: map[string]any{
			"blood_pressure": "138/82",
			"heart_rate":     72,
			"temperature":    36.8,
		},
		ClinicalNotes: []domain.ClinicalNote{
			{
				Date: "2024-10-15",
				Note: "Patient reports good medication compliance. No bleeding episodes. INR therapeutic.",
			},
		},
		LastVisit: "2024-10-15",
	}
}
