package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE DIR [PATTERN]",
	Short: "Write blobs to a directory",
	Long: `Writes every blob matching PATTERN (default: all) to DIR, one file per
blob named by the blob name. Blobs are fetched in parallel.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE DIR",
	Short: "Bulk load a directory as blobs",
	Long: `Stores every regular file under DIR as a blob named by its relative
path. Hidden files and directories are skipped. FILE is opened in stream mode.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

var dumpCmd = &cobra.Command{
	Use:   "dump FILE OUTPUT",
	Short: "Write attributes and blobs to a compressed archive",
	Long:  `Writes a zstd-compressed tar of FILE to OUTPUT. Use - for standard output.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDump,
}

var restoreCmd = &cobra.Command{
	Use:   "restore FILE INPUT",
	Short: "Load a compressed archive",
	Long:  `Loads an archive written by dump into FILE. Use - for standard input.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runRestore,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(restoreCmd)
}

var errNoArchiveService = errors.New("archive service not configured")

func runExport(cmd *cobra.Command, args []string) error {
	if archiveService == nil {
		return errNoArchiveService
	}

	pattern := domain.MatchAll
	if len(args) == 3 {
		pattern = args[2]
	}
	n, err := archiveService.Export(cmd.Context(), args[0], args[1], pattern)
	if err != nil {
		return err
	}
	cmd.Printf("exported %d blobs\n", n)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if archiveService == nil {
		return errNoArchiveService
	}

	n, err := archiveService.Import(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	cmd.Printf("imported %d blobs\n", n)
	return nil
}

func runDump(cmd *cobra.Command, args []string) (err error) {
	if archiveService == nil {
		return errNoArchiveService
	}

	if args[1] == "-" {
		return archiveService.Dump(cmd.Context(), args[0], cmd.OutOrStdout())
	}
	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[1], err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return archiveService.Dump(cmd.Context(), args[0], f)
}

func runRestore(cmd *cobra.Command, args []string) error {
	if archiveService == nil {
		return errNoArchiveService
	}

	if args[1] == "-" {
		return archiveService.Restore(cmd.Context(), args[0], cmd.InOrStdin())
	}
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[1], err)
	}
	defer f.Close()
	return archiveService.Restore(cmd.Context(), args[0], f)
}
