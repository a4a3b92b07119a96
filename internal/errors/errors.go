// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrNoRecipients is returned when a campaign is started with an empty
// recipient list.
var ErrNoRecipients = errors.New("no valid recipients to process")

// ErrNoSource is returned when neither a CSV path nor a database
// source is configured.
var ErrNoSource = errors.New("no recipient source configured")

// InvalidRecipientError describes why a row was rejected during import.
// Row is 1-based and counts the header row, matching what a user sees
// in a spreadsheet.
type InvalidRecipientError struct {
	Row    int
	Field  string
	Reason string
}

func (e *InvalidRecipientError) Error() string {
	return fmt.Sprintf("row %d: invalid %s: %s", e.Row, e.Field, e.Reason)
}

// Helper constructor
func NewInvalidRecipient(row int, field, reason string) *InvalidRecipientError {
	return &InvalidRecipientError{Row: row, Field: field, Reason: reason}
}
