package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junyi/aria/internal/config"
)

var (
	configureProvider string
	configureAPIKey   string
	configureModel    string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the assistant configuration file",
	Long: `Configure writes the configuration file with the given AI provider and
API key, filling every other setting with its default. Run it again to
overwrite an existing configuration.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().StringVar(&configureProvider, "provider", "anthropic", "AI provider (anthropic, openai)")
	configureCmd.Flags().StringVar(&configureAPIKey, "api-key", "", "API key for the provider")
	configureCmd.Flags().StringVar(&configureModel, "model", "", "classifier model (default depends on provider)")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	if configureAPIKey == "" {
		return fmt.Errorf("--api-key is required")
	}

	validator := config.NewValidator()
	if err := validator.ValidateAPIKey(configureAPIKey, configureProvider); err != nil {
		return err
	}
	if configureModel != "" {
		if err := validator.ValidateModel(configureModel); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.AI.Profiles = []config.AIProfile{
		{
			ID:       "default",
			Provider: configureProvider,
			APIKey:   configureAPIKey,
			Priority: 1,
		},
	}
	if configureModel != "" {
		cfg.Classifier.Model = configureModel
		cfg.Extractor.Model = configureModel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if errs := validator.ValidateConfig(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %v", errs[0])
	}

	loader := config.NewLoader(cfgFile)
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration saved to: %s\n", loader.GetConfigPath())
	fmt.Fprintln(out, "\nYou can now start chatting with: aria chat")

	return nil
}
