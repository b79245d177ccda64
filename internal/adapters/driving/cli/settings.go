package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driving"
)

var settingsService driving.SettingsService

var errNoSettingsService = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage bfs settings",
	Long: `View and change the tunables kept in the config file.

Available keys:
  store.threads          execution contexts for read and read-write opens
  store.busy_timeout_ms  milliseconds to wait on a locked store file
  stream.batch_size      writes per transaction in stream mode
  log.verbose            enable debug logging`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// SetSettingsService wires the service used by the settings command.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	s := settingsService.Get()
	values := map[string]any{
		domain.KeyThreads:       s.Threads,
		domain.KeyBusyTimeoutMS: s.BusyTimeout.Milliseconds(),
		domain.KeyBatchSize:     s.BatchSize,
		domain.KeyVerbose:       s.Verbose,
	}

	// Aligned columns for people, key=value for scripts.
	format := "%s=%v\n"
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		format = "%-22s %v\n"
	}
	for _, key := range settingsService.Keys() {
		cmd.Printf(format, key, values[key])
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}
