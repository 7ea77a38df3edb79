package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/junyi/aria/internal/backends"
	"github.com/junyi/aria/internal/config"
	"github.com/junyi/aria/pkg/dispatch"
	"github.com/junyi/aria/pkg/handlers"
)

var handlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "List the registered task handlers",
	Long:  `Handlers prints every registered task handler in dispatch order, with its priority, task types and keyword count.`,
	RunE:  runHandlers,
}

func init() {
	rootCmd.AddCommand(handlersCmd)
}

func runHandlers(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := dispatch.NewRegistry(dispatch.DefaultRegistryConfig())
	nop := zerolog.Nop()

	reminder := handlers.NewReminderHandler(backends.NewConsoleNotifier(cmd.OutOrStdout(), nop), nop)
	defer reminder.Close()

	toRegister := []dispatch.Handler{
		handlers.NewSystemHandler(backends.NewOSController(cfg.DataDir, nop), nop),
		handlers.NewHelpHandler(registry, nop),
		handlers.NewMusicHandler(backends.NewLocalPlayer(cfg.Handlers.Music.LibraryPath, nop), nop),
		handlers.NewWeatherHandler(backends.NewOpenMeteo(nop), nop),
		handlers.NewFilesHandler(backends.NewOSFileOps(cfg.DataDir, nop), nop),
	}
	if cfg.Handlers.Reminder.Enabled {
		toRegister = append(toRegister, reminder)
	}
	for _, h := range toRegister {
		if err := registry.Register(h); err != nil {
			return fmt.Errorf("failed to register handler: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Registered Handlers")
	fmt.Fprintln(out, "===================")
	fmt.Fprintln(out)

	for _, desc := range registry.Catalog() {
		fmt.Fprintf(out, "%-10s  priority %d  version %s\n", desc.Name, desc.Priority, desc.Version)
		fmt.Fprintf(out, "  task types: %v\n", desc.TaskTypes)
		fmt.Fprintf(out, "  keywords:   %d\n", len(desc.Keywords))
		if len(desc.Capabilities) > 0 {
			fmt.Fprintf(out, "  capabilities: %v\n", desc.Capabilities)
		}
		fmt.Fprintln(out)
	}

	return nil
}
