package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATType is the VAT treatment applied to a transaction.
type VATType string

const (
	VATStandard      VATType = "standard"
	VATReverseCharge VATType = "reverse_charge"
	VATExempt        VATType = "exempt"
	VATReduced       VATType = "reduced"
)

// Valid reports whether t is one of the known VAT types.
func (t VATType) Valid() bool {
	switch t {
	case VATStandard, VATReverseCharge, VATExempt, VATReduced:
		return true
	}
	return false
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Reportable reports whether invoices in this state count towards a VAT return.
func (s InvoiceStatus) Reportable() bool {
	return s == InvoiceSent || s == InvoicePaid
}

// ReminderLevel tracks how far payment reminders for an invoice have escalated.
type ReminderLevel string

const (
	ReminderNone   ReminderLevel = "none"
	ReminderFirst  ReminderLevel = "first"
	ReminderSecond ReminderLevel = "second"
	ReminderFinal  ReminderLevel = "final"
)

// Next returns the level after l. The final level is terminal.
func (l ReminderLevel) Next() ReminderLevel {
	switch l {
	case ReminderFirst:
		return ReminderSecond
	case ReminderSecond, ReminderFinal:
		return ReminderFinal
	default:
		return ReminderFirst
	}
}

// LineItem is a single billable line used as calculation input.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal // > 0
	UnitPrice   decimal.Decimal // >= 0
}

// InvoiceCalculation is the VAT outcome for one transaction.
type InvoiceCalculation struct {
	Subtotal    decimal.Decimal
	VATAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	VATRate     decimal.Decimal // fraction, 0.21 = 21%
	VATType     VATType
}

// InvoiceClient is the client data joined onto an invoice for reporting.
type InvoiceClient struct {
	Name        string
	CountryCode string
	VATNumber   string
	IsBusiness  bool
}

// InvoiceClientOf copies the reporting fields of a client profile.
func InvoiceClientOf(c ClientProfile) *InvoiceClient {
	return &InvoiceClient{
		Name:        c.Name,
		CountryCode: c.CountryCode,
		VATNumber:   c.VATNumber,
		IsBusiness:  c.IsBusiness,
	}
}

// Invoice is a persisted invoice as consumed by the VAT return.
type Invoice struct {
	ID            string
	Number        string
	ClientID      string
	InvoiceDate   time.Time
	Status        InvoiceStatus
	Subtotal      decimal.Decimal
	VATAmount     decimal.Decimal
	VATType       VATType
	ReminderLevel ReminderLevel
	Client        *InvoiceClient // nil when the client record is missing
}
