package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zzpboek/zzpbtw/internal/period"
	"github.com/zzpboek/zzpbtw/internal/readiness"
)

func newTimeCommand(opts *rootOptions) *cobra.Command {
	timeCmd := &cobra.Command{
		Use:   "time",
		Short: "Time entry invoicing status",
	}
	timeCmd.AddCommand(newTimeStatusCommand(opts))
	return timeCmd
}

func newTimeStatusCommand(opts *rootOptions) *cobra.Command {
	var onlyReady bool

	cmd := &cobra.Command{
		Use:   "status <client-id>",
		Short: "Show which time entries of a client can be invoiced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "readiness")
			if err != nil {
				return err
			}
			client, ok := p.store.Client(args[0])
			if !ok {
				return fmt.Errorf("unknown client %q", args[0])
			}

			entries := p.store.TimeEntriesFor(client.ID)
			if onlyReady {
				entries = readiness.Invoiceable(entries, client, p.asOf)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s invoicing) on %s\n", client.Name, client.InvoicingFrequency.Normalize(), period.FormatDate(p.asOf))
			statuses := readiness.ClassifyAll(entries, client, p.asOf)
			for _, e := range entries {
				info, ok := statuses[e.ID]
				if !ok {
					info = readiness.Classify(e, client, p.asOf)
				}
				fmt.Fprintf(out, "  %s %-10s %6s  %-18s %-6s %s\n",
					period.FormatDate(e.EntryDate), e.ID, e.Hours.StringFixed(2), info.Label, info.Color, info.Reason)
			}

			s := readiness.Summarize(p.store.TimeEntriesFor(client.ID), client, p.asOf)
			fmt.Fprintf(out, "Total %d: %d billable (%d ready), %d not billable, %d invoiced\n",
				s.Total, s.Billable, s.Ready, s.NotBillable, s.Invoiced)
			return nil
		},
	}

	cmd.Flags().BoolVar(&onlyReady, "ready", false, "only list entries that can be invoiced now")

	return cmd
}
