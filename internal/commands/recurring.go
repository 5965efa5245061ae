package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
	"github.com/zzpboek/zzpbtw/internal/recurring"
)

func newRecurringCommand(opts *rootOptions) *cobra.Command {
	recCmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring expense projections",
	}
	recCmd.AddCommand(newRecurringPreviewCommand(opts))
	recCmd.AddCommand(newRecurringOutstandingCommand(opts))
	recCmd.AddCommand(newRecurringAnnualCommand(opts))
	return recCmd
}

func newRecurringPreviewCommand(opts *rootOptions) *cobra.Command {
	var count int
	var days int
	var fromStart bool

	cmd := &cobra.Command{
		Use:   "preview <template-id>",
		Short: "Show upcoming occurrences of a recurring expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "recurring")
			if err != nil {
				return err
			}
			t, ok := p.store.Template(args[0])
			if !ok {
				return fmt.Errorf("unknown recurring template %q", args[0])
			}

			var occ []model.Occurrence
			switch {
			case fromStart:
				occ, err = recurring.Preview(t, count)
			case days > 0:
				occ, err = recurring.Project(t, p.asOf, days)
			default:
				occ, err = recurring.Upcoming(t, p.asOf, count)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %s)\n", t.Name, t.ID, t.Frequency)
			printOccurrences(out, occ)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 12, "number of occurrences")
	cmd.Flags().IntVar(&days, "days", 0, "project occurrences within this many days of the reference date instead")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "count from the template start date")
	cmd.MarkFlagsMutuallyExclusive("days", "from-start")

	return cmd
}

func newRecurringOutstandingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding [template-id]",
		Short: "List occurrences up to the reference date with no booked expense",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "recurring")
			if err != nil {
				return err
			}

			templates := p.store.Templates()
			if len(args) == 1 {
				t, ok := p.store.Template(args[0])
				if !ok {
					return fmt.Errorf("unknown recurring template %q", args[0])
				}
				templates = []model.RecurringExpenseTemplate{t}
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, t := range templates {
				occ, err := recurring.Outstanding(t, p.asOf, p.store.RecordedDates(t.ID))
				if err != nil {
					return fmt.Errorf("template %s: %w", t.ID, err)
				}
				if len(occ) == 0 {
					continue
				}
				total += len(occ)
				fmt.Fprintf(out, "%s (%s)\n", t.Name, t.ID)
				printOccurrences(out, occ)
			}
			if total == 0 {
				fmt.Fprintln(out, "No outstanding recurring expenses.")
			}
			p.log.Debug().Int("outstanding", total).Msg("checked recurring templates")
			return nil
		},
	}
}

func newRecurringAnnualCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "annual",
		Short: "Yearly gross cost per recurring expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "recurring")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sum := decimal.Zero
			for _, t := range p.store.Templates() {
				cost, err := recurring.AnnualCost(t, p.asOf)
				if err != nil {
					return fmt.Errorf("template %s: %w", t.ID, err)
				}
				status := ""
				if t.Paused {
					status = " (paused)"
				}
				fmt.Fprintf(out, "  %-30s %-9s %12s%s\n", t.Name, t.Frequency, cost.StringFixed(2), status)
				sum = sum.Add(cost)
			}
			fmt.Fprintf(out, "  %-30s %-9s %12s\n", "Total", "", sum.StringFixed(2))
			return nil
		},
	}
}

func printOccurrences(out io.Writer, occ []model.Occurrence) {
	if len(occ) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, o := range occ {
		fmt.Fprintf(out, "  %s %10s  vat %8s  gross %10s  deductible %8s\n",
			period.FormatDate(o.Date), o.Amount.StringFixed(2), o.VATAmount.StringFixed(2),
			o.GrossAmount.StringFixed(2), o.DeductibleVATAmount.StringFixed(2))
	}
}
