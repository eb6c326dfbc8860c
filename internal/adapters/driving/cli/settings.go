package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, model and related options.

Settings are stored in the TOML config file; API keys can also be supplied
via the GUARDIAN_API_KEY environment variable, which takes precedence.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "set-provider [provider]",
	Short: "Set the LLM provider",
	Long: `Set the LLM provider used for safety checks.

Available providers:
  anthropic - Anthropic cloud API (requires API key)
  openai    - OpenAI cloud API (requires API key)
  ollama    - local Ollama instance (no key required)`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsProvider,
}

var settingsModelCmd = &cobra.Command{
	Use:   "set-model [model]",
	Short: "Set the model name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsModel,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the provider API key",
	Long:  `Prompt for the API key without echoing it and store it in the config file.`,
	RunE:  runSettingsKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsModelCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	provider := domain.AIProvider(configStore.GetString("llm.provider"))
	model := configStore.GetString("llm.model")
	apiKey := configStore.GetString("llm.api_key")
	if env := os.Getenv("GUARDIAN_API_KEY"); env != "" {
		apiKey = env
	}

	defaults := domain.DefaultAppSettings()
	if !provider.IsValid() {
		provider = defaults.LLM.Provider
	}
	if model == "" {
		model = defaults.LLM.Model
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}

	settings := domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	status := "configured"
	if !settings.IsConfigured() {
		status = "not configured - run 'guardian settings set-key'"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	if rpm := configStore.GetInt("ratelimit.requests_per_minute"); rpm > 0 {
		cmd.Printf("Rate limit: %d requests/minute\n", rpm)
	} else {
		cmd.Printf("Rate limit: %d requests/minute (default)\n", defaults.RequestsPerMinute)
	}
	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsProvider(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	provider := domain.AIProvider(args[0])
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q (anthropic, openai or ollama)", args[0])
	}

	if err := configStore.Set("llm.provider", provider.String()); err != nil {
		return fmt.Errorf("saving provider: %w", err)
	}
	cmd.Printf("LLM provider set to: %s\n", provider.Description())

	if provider.RequiresAPIKey() && configStore.GetString("llm.api_key") == "" && os.Getenv("GUARDIAN_API_KEY") == "" {
		cmd.Println("Note: this provider requires an API key. Run 'guardian settings set-key'.")
	}
	return nil
}

func runSettingsModel(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set("llm.model", args[0]); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	cmd.Printf("Model set to: %s\n", args[0])
	return nil
}

func runSettingsKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("Enter API key: ")
	key := readPassword()
	cmd.Println()
	if key == "" {
		return errors.New("no key entered")
	}

	if err := configStore.Set("llm.api_key", key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
