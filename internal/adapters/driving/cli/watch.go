package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE DIR",
	Short: "Mirror a directory into blobs",
	Long: `Loads DIR into FILE and keeps it in step until interrupted. Created and
written files are stored, removed and renamed ones are cleared. Hidden files
and directories are ignored.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}
	return watchService.Watch(cmd.Context(), args[0], args[1])
}
