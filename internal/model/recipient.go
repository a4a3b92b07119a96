// internal/model/recipient.go
package model

import "strings"

type Recipient struct {
	Phone       string `db:"phone" json:"phone"`
	Name        string `db:"business_name" json:"business_name"`
	Description string `db:"description" json:"description,omitempty"`
	Website     string `db:"website" json:"website,omitempty"`
	MapsLink    string `db:"google_maps_link" json:"google_maps_link,omitempty"`
}

// HasWebsite reports whether the recipient already runs a website.
// Whitespace-only values count as no website.
func (r Recipient) HasWebsite() bool {
	return strings.TrimSpace(r.Website) != ""
}
