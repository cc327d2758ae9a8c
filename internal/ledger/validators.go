package ledger

import (
	"time"
)

// TransactionInput carries the already-decoded form fields for a
// transaction create or update.
type TransactionInput struct {
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	PaymentMode string  `json:"payment_mode"`
	Description string  `json:"description"`
	EventID     uint    `json:"event_id"`
}

// EventInput carries the already-decoded form fields for an event create
// or update.
type EventInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FieldErrors maps field names to their validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// ValidateTransaction returns per-field errors, or an empty map when the
// input is acceptable. An omitted payment mode defaults to cash.
func ValidateTransaction(in *TransactionInput) FieldErrors {
	errs := FieldErrors{}

	if in.Date == "" {
		errs.add("date", "Date is required")
	} else if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		errs.add("date", "Date must be in YYYY-MM-DD format")
	}

	if in.Name == "" {
		errs.add("name", "Name is required")
	} else if len(in.Name) > 100 {
		errs.add("name", "Name is too long")
	}

	if in.Amount <= 0 {
		errs.add("amount", "Amount must be greater than 0")
	}

	if in.Type != string(TypeIncome) && in.Type != string(TypeExpenditure) {
		errs.add("type", "Please select Income or Expenditure")
	}

	if in.PaymentMode == "" {
		in.PaymentMode = string(PaymentCash)
	} else if in.PaymentMode != string(PaymentCash) && in.PaymentMode != string(PaymentBank) {
		errs.add("payment_mode", "Please select Cash or Bank")
	}

	if len(in.Description) > 500 {
		errs.add("description", "Description is too long")
	}

	if in.EventID == 0 {
		errs.add("event_id", "Event is required")
	}

	return errs
}

// ValidateEvent returns per-field errors for an event input.
func ValidateEvent(in *EventInput) FieldErrors {
	errs := FieldErrors{}

	if in.Name == "" {
		errs.add("name", "Event name is required")
	} else if len(in.Name) > 200 {
		errs.add("name", "Name is too long")
	}

	if len(in.Description) > 500 {
		errs.add("description", "Description is too long")
	}

	return errs
}
