package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter renders a report as one CSV file: the return as label/value
// rows, a blank row, then the ICP lines.
type CSVWriter struct{}

func (c *CSVWriter) Format() string { return "csv" }

func (c *CSVWriter) Write(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"field", "value"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, kv := range summaryRows(rep) {
		if err := cw.Write(kv[:]); err != nil {
			return fmt.Errorf("writing %s: %w", kv[0], err)
		}
	}

	if err := cw.Write(nil); err != nil {
		return err
	}
	if err := cw.Write(icpHeader); err != nil {
		return fmt.Errorf("writing ICP header: %w", err)
	}
	for _, cust := range rep.ICP.Customers {
		if err := cw.Write(icpRow(cust)); err != nil {
			return fmt.Errorf("writing ICP line %s: %w", cust.VATNumber, err)
		}
	}
	return cw.Error()
}
