package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

var blobListCmd = &cobra.Command{
	Use:   "blobList FILE [PATTERN]",
	Short: "List blobs and their sizes",
	Long: `Lists the blobs whose names match PATTERN, an SQL LIKE pattern where %
matches any run of characters and _ matches one. Without PATTERN every blob
is listed. The last line is the total size.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBlobList,
}

var blobGetCmd = &cobra.Command{
	Use:   "blobGet FILE NAME [OUTPUT]",
	Short: "Write a blob to a file",
	Long:  `Writes blob NAME to OUTPUT, or to a file named NAME. Parent directories are created.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runBlobGet,
}

var blobSetCmd = &cobra.Command{
	Use:   "blobSet FILE NAME [INPUT]",
	Short: "Store a file as a blob",
	Long:  `Stores the content of INPUT, or of the file named NAME, as blob NAME.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runBlobSet,
}

var blobClrCmd = &cobra.Command{
	Use:   "blobClr FILE NAME",
	Short: "Clear a blob",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlobClr,
}

// blobListHuman is a flag for the blobList command.
var blobListHuman bool

func init() {
	blobListCmd.Flags().BoolVarP(&blobListHuman, "human", "H", false, "Print sizes in human readable units")

	rootCmd.AddCommand(blobListCmd)
	rootCmd.AddCommand(blobGetCmd)
	rootCmd.AddCommand(blobSetCmd)
	rootCmd.AddCommand(blobClrCmd)
}

func runBlobList(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}

	pattern := domain.MatchAll
	if len(args) == 2 {
		pattern = args[1]
	}
	blobs, err := fileService.ListBlobs(cmd.Context(), args[0], pattern)
	if err != nil {
		return err
	}

	var total int
	for _, b := range blobs {
		cmd.Printf("%10s %s\n", formatSize(b.Size), b.Name)
		total += b.Size
	}
	cmd.Printf("%10s bytes\n", formatSize(total))
	return nil
}

func formatSize(n int) string {
	if blobListHuman {
		return humanize.Bytes(uint64(n))
	}
	return fmt.Sprintf("%d", n)
}

func runBlobGet(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}

	name := args[1]
	output := name
	if len(args) == 3 {
		output = args[2]
	}

	data, err := fileService.GetBlob(cmd.Context(), args[0], name)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: blob %q", domain.ErrNotFound, name)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", output, err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

func runBlobSet(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}

	name := args[1]
	input := name
	if len(args) == 3 {
		input = args[2]
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	return fileService.SetBlob(cmd.Context(), args[0], name, data)
}

func runBlobClr(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}
	return fileService.ClearBlob(cmd.Context(), args[0], args[1])
}
