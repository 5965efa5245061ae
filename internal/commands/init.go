package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zzpboek/zzpbtw/internal/books"
	"github.com/zzpboek/zzpbtw/internal/config"
	"github.com/zzpboek/zzpbtw/internal/export"
)

func newInitCommand() *cobra.Command {
	var name string
	var vatNumber string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, vatNumber)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&vatNumber, "vat-number", "", "own BTW identification number")

	return cmd
}

func runInit(out io.Writer, dir, name, vatNumber string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	for _, d := range []string{"logs", export.ReportsDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Business.VATNumber = vatNumber
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Empty books files with headers.
	if err := books.NewStore(nil, nil, nil, nil, nil).Save(dir); err != nil {
		return fmt.Errorf("writing books: %w", err)
	}

	gitignore := ".env\n" + export.ReportsDir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(out, "Initialized zzpbtw books for %s at %s\n", name, dir)
	return nil
}
