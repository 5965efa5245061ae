package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is a block of tracked work for a client.
type TimeEntry struct {
	ID          string
	ClientID    string
	EntryDate   time.Time
	Hours       decimal.Decimal
	Description string
	Billable    bool
	Invoiced    bool
	InvoiceID   string // empty when not linked to an invoice
}

// TimeEntryStatus is the invoicing state shown for a time entry.
type TimeEntryStatus string

const (
	StatusNotBillable TimeEntryStatus = "niet-factureerbaar"
	StatusBillable    TimeEntryStatus = "factureerbaar"
	StatusInvoiced    TimeEntryStatus = "gefactureerd"
)

// StatusColor is the badge color for a time entry status.
type StatusColor string

const (
	ColorRed    StatusColor = "red"
	ColorOrange StatusColor = "orange"
	ColorGreen  StatusColor = "green"
	ColorPurple StatusColor = "purple"
)

// TimeEntryStatusInfo is the classification of one time entry.
type TimeEntryStatusInfo struct {
	Status TimeEntryStatus
	Label  string
	Color  StatusColor
	Reason string
}

// Ready reports whether the entry can be put on an invoice now.
func (i TimeEntryStatusInfo) Ready() bool {
	return i.Status == StatusBillable && i.Color == ColorGreen
}
