package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ingestRecursive walks directories when set.
var ingestRecursive bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest files into the document library",
	Long: `Reads files, extracts their text, chunks and embeds the content,
and adds them to the searchable library. Re-ingesting a file replaces
its earlier version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestRecursive, "recursive", "r", false, "recurse into directories")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	paths, err := collectPaths(args)
	if err != nil {
		return err
	}

	ingested := 0
	replaced := 0
	for _, path := range paths {
		result, err := ingestService.IngestFile(ctx, path)
		if err != nil {
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			continue
		}

		ingested++
		if result.Replaced {
			replaced++
		}
		cmd.Printf("  %s (%d chunks)\n", result.Document.Title, result.ChunkCount)
	}

	cmd.Printf("\nIngested %d of %d files", ingested, len(paths))
	if replaced > 0 {
		cmd.Printf(" (%d replaced)", replaced)
	}
	cmd.Println()

	if ingested == 0 && len(paths) > 0 {
		return errors.New("no files were ingested")
	}
	return nil
}

// collectPaths expands arguments into the list of files to ingest.
// Directories are walked when --recursive is set, otherwise rejected.
func collectPaths(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		if !ingestRecursive {
			return nil, fmt.Errorf("%s is a directory (use --recursive)", arg)
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	return paths, nil
}
