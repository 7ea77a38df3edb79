package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/junyi/aria/internal/config"
	"github.com/junyi/aria/pkg/dispatch"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the assistant",
	Long: `Chat starts an interactive session. Each line you type is dispatched to
the registered task handlers; type "exit" or press Ctrl-D to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	app, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Aria %s — type your request, or \"exit\" to quit.\n\n", version)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "退出" {
			break
		}

		convo, err := app.store.Recent(cfg.Dispatch.ContextWindow)
		if err != nil {
			app.log.Warn().Err(err).Msg("Failed to read conversation history")
		}

		resp, err := app.dispatcher.Dispatch(cmd.Context(), line, convo)
		if err != nil {
			return err
		}

		printResponse(out, resp)

		if err := app.store.Append("user", line); err != nil {
			app.log.Warn().Err(err).Msg("Failed to persist user turn")
		}
		if err := app.store.Append("assistant", resp.Message); err != nil {
			app.log.Warn().Err(err).Msg("Failed to persist assistant turn")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(out, "\nGoodbye!")
	return nil
}

func printResponse(out io.Writer, resp dispatch.Response) {
	fmt.Fprintf(out, "%s\n", resp.Message)
	if resp.Kind == dispatch.ResponseClarify && len(resp.Missing) > 0 {
		keys := make([]string, 0, len(resp.Missing))
		for k := range resp.Missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  - %s: %s\n", k, resp.Missing[k])
		}
	}
	fmt.Fprintln(out)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
