package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/zzpboek/zzpbtw/internal/auditlog"
	"github.com/zzpboek/zzpbtw/internal/export"
	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
	"github.com/zzpboek/zzpbtw/internal/vat"
	"github.com/zzpboek/zzpbtw/internal/vatreturn"
)

func newVATCommand(opts *rootOptions) *cobra.Command {
	vatCmd := &cobra.Command{
		Use:   "vat",
		Short: "VAT classification and quarterly returns",
	}
	vatCmd.AddCommand(newVATClassifyCommand(opts))
	vatCmd.AddCommand(newVATRulesCommand(opts))
	vatCmd.AddCommand(newVATReturnCommand(opts))
	return vatCmd
}

type classifyFlags struct {
	clientID  string
	country   string
	business  bool
	vatNumber string
	items     []string
	override  string
	total     string
}

func newVATClassifyCommand(opts *rootOptions) *cobra.Command {
	var f classifyFlags

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Work out the VAT treatment of an invoice",
		Example: "  zzpbtw vat classify --client muller --item 40:75\n" +
			"  zzpbtw vat classify --country DE --business --vat-number DE123456789 --item 1:1000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "vat")
			if err != nil {
				return err
			}
			return runClassify(cmd.OutOrStdout(), p, f)
		},
	}

	cmd.Flags().StringVar(&f.clientID, "client", "", "client ID from clients.csv")
	cmd.Flags().StringVar(&f.country, "country", "", "client country code")
	cmd.Flags().BoolVar(&f.business, "business", false, "client is a business")
	cmd.Flags().StringVar(&f.vatNumber, "vat-number", "", "client VAT number")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "line item as quantity:unit_price (repeatable)")
	cmd.Flags().StringVar(&f.override, "override", "", "force VAT type (standard, reduced, reverse_charge, exempt)")
	cmd.Flags().StringVar(&f.total, "total", "", "check a pre-computed total against the calculation")
	cmd.MarkFlagsMutuallyExclusive("client", "country")

	return cmd
}

func runClassify(out io.Writer, p *project, f classifyFlags) error {
	var j vat.Jurisdiction
	if f.clientID != "" {
		c, ok := p.store.Client(f.clientID)
		if !ok {
			return fmt.Errorf("unknown client %q", f.clientID)
		}
		j = vat.JurisdictionOf(c)
	} else {
		j = vat.Jurisdiction{CountryCode: f.country, IsBusiness: f.business, HasVATNumber: strings.TrimSpace(f.vatNumber) != ""}
	}

	items, err := parseItems(f.items)
	if err != nil {
		return err
	}

	c, err := p.cfg.Classifier()
	if err != nil {
		return fmt.Errorf("loading VAT rates: %w", err)
	}
	res, err := c.Classify(items, j, model.VATType(f.override), p.asOf)
	if err != nil {
		return err
	}
	if res.UsedFallbackRate {
		p.log.Warn().Str("vat_type", string(res.VATType)).Msg("no VAT rate row for date, used fallback rate")
	}

	fmt.Fprintf(out, "VAT type:    %s (%s)\n", res.VATType, res.Rule)
	fmt.Fprintf(out, "Subtotal:    %s\n", res.Subtotal.StringFixed(2))
	fmt.Fprintf(out, "VAT rate:    %s%%\n", res.VATRate.Mul(decimal.NewFromInt(100)).String())
	fmt.Fprintf(out, "VAT amount:  %s\n", res.VATAmount.StringFixed(2))
	fmt.Fprintf(out, "Total:       %s\n", res.TotalAmount.StringFixed(2))
	fmt.Fprintf(out, "Explanation: %s\n", res.Explanation)
	if res.UsedFallbackRate {
		fmt.Fprintln(out, "Note:        fallback rate used, no rate configured for this date")
	}

	if f.total != "" {
		supplied, err := decimal.NewFromString(f.total)
		if err != nil {
			return fmt.Errorf("parsing --total %q: %w", f.total, err)
		}
		if err := vat.CheckTotals(res.InvoiceCalculation, supplied); err != nil {
			return err
		}
		fmt.Fprintln(out, "Total check: ok")
	}
	return nil
}

// parseItems reads "quantity:unit_price" pairs.
func parseItems(raw []string) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(raw))
	for _, s := range raw {
		qty, price, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("item %q: want quantity:unit_price", s)
		}
		q, err := decimal.NewFromString(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("item %q: quantity: %w", s, err)
		}
		u, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return nil, fmt.Errorf("item %q: unit price: %w", s, err)
		}
		items = append(items, model.LineItem{Quantity: q, UnitPrice: u})
	}
	return items, nil
}

func newVATRulesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the VAT classification rules and the rates in force",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "vat")
			if err != nil {
				return err
			}
			c, err := p.cfg.Classifier()
			if err != nil {
				return fmt.Errorf("loading VAT rates: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "VAT rules on %s:\n", period.FormatDate(p.asOf))
			for _, r := range c.DescribeRules(p.asOf) {
				fmt.Fprintf(out, "  %-22s %-15s %5s%%  %s\n", r.Rule, r.VATType, r.Rate.Mul(decimal.NewFromInt(100)).String(), r.Description)
			}
			fmt.Fprintf(out, "EU member states: %s\n", strings.Join(c.EUCountries(), " "))
			return nil
		},
	}
}

func newVATReturnCommand(opts *rootOptions) *cobra.Command {
	var quarter string
	var format string
	var noAudit bool

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Compute the quarterly BTW return and ICP declaration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(opts, "vatreturn")
			if err != nil {
				return err
			}
			return runReturn(cmd.OutOrStdout(), p, quarter, format, !noAudit)
		},
	}

	cmd.Flags().StringVar(&quarter, "quarter", "", "quarter as YYYY-QN (default: the quarter before the reference date)")
	cmd.Flags().StringVar(&format, "export", "", "also write the report to reports/ (csv or xlsx)")
	cmd.Flags().BoolVar(&noAudit, "no-audit", false, "do not record the report in logs/audit-log.csv")

	return cmd
}

func runReturn(out io.Writer, p *project, quarterFlag, format string, audit bool) error {
	year, q, err := resolveQuarter(quarterFlag, p)
	if err != nil {
		return err
	}

	ret, err := vatreturn.Aggregate(p.store.Invoices(), p.store.Expenses(), q, year, vatreturn.Options{
		HomeCountry:        p.cfg.Business.HomeCountry,
		ServiceDescription: p.cfg.ICP.ServiceDescription,
		EUCountries:        p.cfg.EUCountries(),
	})
	if err != nil {
		return err
	}
	if ret.SkippedICPEntries > 0 {
		p.log.Warn().
			Int("count", ret.SkippedICPEntries).
			Strs("invoice_ids", ret.SkippedInvoiceIDs).
			Msg("reverse charge invoices missing client country or VAT number")
	}

	threshold, err := p.cfg.HighVolumeThreshold()
	if err != nil {
		return err
	}
	icp := vatreturn.Summarize(ret, vatreturn.SummaryOptions{HighVolumeThreshold: threshold})

	printReturn(out, ret, icp)

	rep := export.Report{
		ID:          auditlog.NewReportID(),
		GeneratedOn: p.asOf,
		Business:    p.cfg.Business.Name,
		Return:      ret,
		ICP:         icp,
	}

	var path string
	if format != "" {
		path, err = export.DefaultRegistry().WriteFile(p.root, format, rep)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", path)
	}

	if audit {
		entry := auditlog.Entry{
			ReportID:  rep.ID,
			Timestamp: timeNow(),
			Action:    auditlog.ActionVATReturn,
			Period:    period.FormatQuarter(year, q),
			AsOf:      p.asOf,
			Summary:   fmt.Sprintf("vat_to_pay=%s icp_total=%s", ret.VATToPay.StringFixed(2), icp.TotalServices.StringFixed(2)),
			Output:    path,
		}
		if err := auditlog.Append(p.root, entry); err != nil {
			p.log.Warn().Err(err).Msg("failed to write audit log")
		}
	}
	p.log.Info().Str("report_id", rep.ID).Str("quarter", period.FormatQuarter(year, q)).Msg("computed VAT return")
	return nil
}

// resolveQuarter parses --quarter, defaulting to the last completed quarter.
func resolveQuarter(flag string, p *project) (int, int, error) {
	if flag != "" {
		return period.ParseQuarter(flag)
	}
	year, q := period.QuarterOf(p.asOf)
	if q == 1 {
		return year - 1, 4, nil
	}
	return year, q - 1, nil
}

func printReturn(out io.Writer, ret model.VATReturn, icp vatreturn.ICPSummary) {
	fmt.Fprintf(out, "BTW return %s (%s to %s)\n", period.FormatQuarter(ret.Year, ret.Quarter),
		period.FormatDate(ret.PeriodStart), period.FormatDate(ret.PeriodEnd))
	for _, row := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Revenue", ret.TotalRevenue},
		{"VAT collected", ret.TotalVATCollected},
		{"Deductible expenses", ret.TotalExpenses},
		{"VAT paid (voorbelasting)", ret.TotalVATPaid},
		{"VAT to pay", ret.VATToPay},
		{"Reverse charge (3b)", ret.ReverseChargeRevenue},
	} {
		fmt.Fprintf(out, "  %-26s %12s\n", row.label+":", row.value.StringFixed(2))
	}

	fmt.Fprintf(out, "ICP declaration (deadline %s)\n", period.FormatDate(icp.SubmissionDeadline))
	for _, c := range icp.Customers {
		fmt.Fprintf(out, "  %-16s %-2s %12s  %s (%d)\n", c.VATNumber, c.CountryCode, c.NetAmount.StringFixed(2), c.ClientName, c.TransactionCount)
	}
	for _, n := range icp.Notes {
		fmt.Fprintf(out, "  note: %s\n", n)
	}
	for _, w := range icp.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
}
