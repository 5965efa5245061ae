package commands

import (
	"github.com/spf13/cobra"

	"github.com/zzpboek/zzpbtw/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:     "zzpbtw",
		Short:   "BTW calculations for Dutch freelancers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "books directory")
	rootCmd.PersistentFlags().StringVar(&opts.date, "date", "", "reference date YYYY-MM-DD (default: $ZZPBTW_CURRENT_DATE or today)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVATCommand(&opts))
	rootCmd.AddCommand(newRecurringCommand(&opts))
	rootCmd.AddCommand(newTimeCommand(&opts))

	return rootCmd
}
