package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/junyi/aria/internal/config"
	"github.com/junyi/aria/internal/history"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show assistant status",
	Long:  `Status reports the configuration in use, the configured AI profiles and the size of the conversation history.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Aria Status")
	fmt.Fprintln(out, "===========")
	fmt.Fprintln(out)

	configPath := loader.GetConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "Config:     %s (not written, using defaults)\n", configPath)
	} else {
		fmt.Fprintf(out, "Config:     %s\n", configPath)
	}
	fmt.Fprintf(out, "Data dir:   %s\n", cfg.DataDir)

	if len(cfg.AI.Profiles) == 0 {
		fmt.Fprintln(out, "AI:         not configured (run: aria configure)")
	} else {
		for _, p := range cfg.AI.Profiles {
			fmt.Fprintf(out, "AI:         %s (profile %q, priority %d)\n", p.Provider, p.ID, p.Priority)
		}
	}

	fmt.Fprintf(out, "Classifier: %s (min confidence %.2f)\n", cfg.Classifier.Model, cfg.Classifier.MinConfidence)

	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		fmt.Fprintf(out, "History:    %s (empty)\n", cfg.History.Path)
		return nil
	}

	store, err := history.NewStore(history.Config{
		Path:     cfg.History.Path,
		MaxTurns: cfg.History.MaxTurns,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	turns, err := store.Len()
	if err != nil {
		return fmt.Errorf("failed to count history turns: %w", err)
	}
	fmt.Fprintf(out, "History:    %s (%d turns, cap %d)\n", cfg.History.Path, turns, cfg.History.MaxTurns)

	return nil
}
