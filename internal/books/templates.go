package books

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/zzpboek/zzpbtw/internal/model"
	"github.com/zzpboek/zzpbtw/internal/period"
)

// templateFile is the recurring.yaml document.
type templateFile struct {
	Templates []templateYAML `yaml:"templates"`
}

// templateYAML keeps amounts and dates as strings so they survive the
// round trip without float conversion.
type templateYAML struct {
	ID                         string `yaml:"id"`
	Name                       string `yaml:"name"`
	Amount                     string `yaml:"amount"`
	Frequency                  string `yaml:"frequency"`
	StartDate                  string `yaml:"start_date"`
	EndDate                    string `yaml:"end_date,omitempty"`
	DayOfMonth                 int    `yaml:"day_of_month,omitempty"`
	AmountEscalationPercentage string `yaml:"amount_escalation_percentage,omitempty"`
	LastEscalationDate         string `yaml:"last_escalation_date,omitempty"`
	VATRate                    string `yaml:"vat_rate,omitempty"`
	IsVATDeductible            bool   `yaml:"is_vat_deductible"`
	BusinessUsePercentage      string `yaml:"business_use_percentage,omitempty"`
	Paused                     bool   `yaml:"paused,omitempty"`
}

// ReadTemplates decodes recurring.yaml.
func ReadTemplates(r io.Reader) ([]model.RecurringExpenseTemplate, error) {
	var doc templateFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing recurring templates: %w", err)
	}

	out := make([]model.RecurringExpenseTemplate, 0, len(doc.Templates))
	for i, ty := range doc.Templates {
		t, err := ty.toModel()
		if err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, ty.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// WriteTemplates encodes recurring.yaml.
func WriteTemplates(w io.Writer, templates []model.RecurringExpenseTemplate) error {
	doc := templateFile{Templates: make([]templateYAML, 0, len(templates))}
	for _, t := range templates {
		doc.Templates = append(doc.Templates, templateFromModel(t))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding recurring templates: %w", err)
	}
	return enc.Close()
}

func (ty templateYAML) toModel() (model.RecurringExpenseTemplate, error) {
	t := model.RecurringExpenseTemplate{
		ID:              ty.ID,
		Name:            ty.Name,
		Frequency:       model.Frequency(ty.Frequency),
		DayOfMonth:      ty.DayOfMonth,
		IsVATDeductible: ty.IsVATDeductible,
		Paused:          ty.Paused,
	}

	var err error
	if t.Amount, err = parseDecimal("amount", ty.Amount); err != nil {
		return t, err
	}
	if t.AmountEscalationPercentage, err = parseDecimal("amount_escalation_percentage", ty.AmountEscalationPercentage); err != nil {
		return t, err
	}
	if t.VATRate, err = parseDecimal("vat_rate", ty.VATRate); err != nil {
		return t, err
	}
	if t.BusinessUsePercentage, err = parseDecimal("business_use_percentage", ty.BusinessUsePercentage); err != nil {
		return t, err
	}
	if t.StartDate, err = parseDate("start_date", ty.StartDate); err != nil {
		return t, err
	}
	if t.EndDate, err = optionalDate("end_date", ty.EndDate); err != nil {
		return t, err
	}
	if t.LastEscalationDate, err = optionalDate("last_escalation_date", ty.LastEscalationDate); err != nil {
		return t, err
	}
	return t, nil
}

func templateFromModel(t model.RecurringExpenseTemplate) templateYAML {
	return templateYAML{
		ID:                         t.ID,
		Name:                       t.Name,
		Amount:                     t.Amount.String(),
		Frequency:                  string(t.Frequency),
		StartDate:                  period.FormatDate(t.StartDate),
		EndDate:                    formatOptionalDate(t.EndDate),
		DayOfMonth:                 t.DayOfMonth,
		AmountEscalationPercentage: optionalDecimalString(t.AmountEscalationPercentage),
		LastEscalationDate:         formatOptionalDate(t.LastEscalationDate),
		VATRate:                    optionalDecimalString(t.VATRate),
		IsVATDeductible:            t.IsVATDeductible,
		BusinessUsePercentage:      optionalDecimalString(t.BusinessUsePercentage),
		Paused:                     t.Paused,
	}
}

func optionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return period.FormatDate(*t)
}

func optionalDecimalString(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
