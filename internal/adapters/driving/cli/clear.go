package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all documents from the library",
	Long: `Deletes every document, chunk, vector and keyword entry.
This cannot be undone. Prompts for confirmation unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if !clearForce {
		cmd.Print("This will delete all ingested documents. Continue? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx := context.Background()
	if err := libraryService.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear library: %w", err)
	}

	cmd.Println("Library cleared.")
	return nil
}
