// Package finance tracks project payments and the totals derived from them.
package finance

import (
	"fmt"
	"strings"
)

// PaymentType separates money in from money out.
type PaymentType string

const (
	Income  PaymentType = "income"
	Expense PaymentType = "expense"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	StatusPlanned       PaymentStatus = "planned"
	StatusInvoiced      PaymentStatus = "invoiced"
	StatusPaid          PaymentStatus = "paid"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusOverdue       PaymentStatus = "overdue"
	StatusCancelled     PaymentStatus = "cancelled"
)

var typeLabels = map[string]PaymentType{
	"הכנסה": Income,
	"הוצאה": Expense,
}

var statusLabels = map[string]PaymentStatus{
	"מתוכנן":        StatusPlanned,
	"חשבונית הוצאה": StatusInvoiced,
	"שולם":          StatusPaid,
	"שולם חלקית":    StatusPartiallyPaid,
	"באיחור":        StatusOverdue,
	"בוטל":          StatusCancelled,
}

// IsValid checks the type against known values.
func (t PaymentType) IsValid() bool {
	return t == Income || t == Expense
}

// IsValid checks the status against known values.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInvoiced, StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// ParsePaymentType accepts canonical names and the stored Hebrew labels.
func ParsePaymentType(s string) (PaymentType, error) {
	s = strings.TrimSpace(s)
	if t, ok := typeLabels[s]; ok {
		return t, nil
	}
	t := PaymentType(strings.ToLower(s))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid payment type: %s", s)
	}
	return t, nil
}

// ParsePaymentStatus accepts canonical names and the stored Hebrew labels.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	s = strings.TrimSpace(s)
	if st, ok := statusLabels[s]; ok {
		return st, nil
	}
	st := PaymentStatus(strings.ReplaceAll(strings.ToLower(s), " ", "_"))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return st, nil
}

// Payment is a single planned or settled money movement on a project.
type Payment struct {
	ID             string        `json:"id" yaml:"id"`
	ProjectID      string        `json:"projectId" yaml:"projectId"`
	OrganizationID string        `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	TaskID         string        `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	Type           PaymentType   `json:"type" yaml:"type"`
	Category       string        `json:"category,omitempty" yaml:"category,omitempty"`
	PlannedAmount  float64       `json:"plannedAmount" yaml:"plannedAmount"`
	ActualAmount   float64       `json:"actualAmount" yaml:"actualAmount"`
	PlannedDate    string        `json:"plannedDate,omitempty" yaml:"plannedDate,omitempty"`
	ActualDate     string        `json:"actualDate,omitempty" yaml:"actualDate,omitempty"`
	Status         PaymentStatus `json:"status" yaml:"status"`
	Reference      string        `json:"reference,omitempty" yaml:"reference,omitempty"`
	Notes          string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewPayment creates a validated planned payment.
func NewPayment(projectID string, typ PaymentType, planned float64, plannedDate string) (Payment, error) {
	p := Payment{
		ProjectID:     projectID,
		Type:          typ,
		PlannedAmount: planned,
		PlannedDate:   plannedDate,
		Status:        StatusPlanned,
	}
	if err := p.Validate(); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// Validate checks required fields and amount signs.
func (p Payment) Validate() error {
	if p.ProjectID == "" {
		return fmt.Errorf("payment project must not be empty")
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("invalid payment type: %s", p.Type)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid payment status: %s", p.Status)
	}
	if p.PlannedAmount < 0 || p.ActualAmount < 0 {
		return fmt.Errorf("payment amounts must be >= 0")
	}
	return nil
}
