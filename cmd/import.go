package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/source"
)

var flagImportDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import meals from JSONL or CSV files",
	Long: "Import meals from .jsonl files (one {\"description\",\"calories\",\"timestamp\"} object per line)\n" +
		"or .csv files with description and calories columns, such as `calburn export` output.\n" +
		"Directories are searched recursively. Each meal is added as a new record.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without adding meals")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	var files []source.DiscoveredFile
	for _, arg := range args {
		found, err := source.ScanPath(arg)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		fmt.Println("  No .jsonl or .csv files found.")
		return nil
	}

	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var added, rejected, parseErrors int
	for _, df := range files {
		result := source.ParseFile(df, tr.Now(), tr.Ledger.Location())
		if result.Err != nil {
			return fmt.Errorf("%s: %w", df.Path, result.Err)
		}
		for _, le := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s:%d: %v\n", df.Path, le.Line, le.Err)
		}
		parseErrors += result.ParseErrors()

		for _, m := range result.Meals {
			if flagImportDryRun {
				added++
				continue
			}
			if _, err := tr.Ledger.Add(ctx, m.Description, m.Calories, m.At); err != nil {
				if errors.Is(err, model.ErrStorage) {
					return err
				}
				fmt.Fprintf(os.Stderr, "  %s:%d: %v\n", df.Path, m.Line, err)
				rejected++
				continue
			}
			added++
		}
	}

	verb := "Imported"
	if flagImportDryRun {
		verb = "Would import"
	}
	fmt.Printf("  %s %d meal(s) from %d file(s)", verb, added, len(files))
	if rejected+parseErrors > 0 {
		fmt.Printf(", %d line(s) skipped", rejected+parseErrors)
	}
	fmt.Println()
	return nil
}
