// Package cli implements the bfs command line.
//
// Commands take the store file as their first argument. The historical form
// "bfs FILE COMMAND [ARGS]" is accepted as well as "bfs COMMAND FILE [ARGS]".
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bfs/internal/core/ports/driving"
	"github.com/custodia-labs/bfs/internal/logger"
)

// version is set at build time or by SetVersion.
var version = "dev"

// Services used by the commands. Set by SetServices or the setup hook.
var (
	fileService    driving.FileService
	archiveService driving.ArchiveService
	watchService   driving.WatchService
)

// Global flags.
var (
	configPath string
	verbose    bool
)

// Options are the global flag values passed to the setup hook.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// setup builds the services once flags are parsed.
var setup func(Options) error

var rootCmd = &cobra.Command{
	Use:   "bfs",
	Short: "BFS (Blob File System)",
	Long: `bfs keeps string attributes and named blobs in a single store file.

Usage: bfs FILE COMMAND [ARGS] or bfs COMMAND FILE [ARGS]`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if verbose {
			logger.SetVerbose(true)
		}
		if setup != nil {
			if err := setup(Options{ConfigPath: configPath, Verbose: verbose}); err != nil {
				return err
			}
		}
		logger.Section(cmd.Name())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bfs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetOut(os.Stdout)
}

// SetServices wires the services used by the commands.
func SetServices(files driving.FileService, archive driving.ArchiveService, watch driving.WatchService) {
	fileService = files
	archiveService = archive
	watchService = watch
}

// SetSetup registers fn to build services after flag parsing.
func SetSetup(fn func(Options) error) {
	setup = fn
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the command line given by args, excluding the program name.
// ctx is handed to every command; cancelling it stops long-running ones.
func Execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(reorderArgs(args))
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error("%v", err)
	}
	return err
}

// reorderArgs rewrites "FILE COMMAND ..." to "COMMAND FILE ..." when the
// second positional argument names a command and the first does not.
func reorderArgs(args []string) []string {
	var pos []int
	for i := 0; i < len(args) && len(pos) < 2; i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			if takesValue(arg) {
				i++
			}
			continue
		}
		pos = append(pos, i)
	}
	if len(pos) < 2 || isCommand(args[pos[0]]) || !isCommand(args[pos[1]]) {
		return args
	}

	out := append([]string(nil), args...)
	out[pos[0]], out[pos[1]] = out[pos[1]], out[pos[0]]
	return out
}

// takesValue reports whether a flag argument consumes the next argument.
func takesValue(arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	name := strings.TrimLeft(arg, "-")
	flags := rootCmd.PersistentFlags()
	f := flags.Lookup(name)
	if f == nil && len(name) == 1 {
		f = flags.ShorthandLookup(name)
	}
	return f != nil && f.Value.Type() != "bool"
}

func isCommand(name string) bool {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
