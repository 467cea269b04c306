// Package customcontent stores user-submitted supplementary records:
// invoice formats and legislation references. Submissions are auto-approved
// on creation; there is no moderation workflow.
package customcontent

import "time"

// StatusApproved is the only status submissions ever get.
const StatusApproved = "approved"

// CustomFormat is a user-submitted invoice format reference.
type CustomFormat struct {
	ID          string    `json:"id"`
	CountryCode string    `json:"countryCode"`
	Name        string    `json:"name"`
	URL         string    `json:"url,omitempty"`
	Authority   string    `json:"authority,omitempty"`
	Type        string    `json:"type,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CustomLegislation is a user-submitted legislation reference.
type CustomLegislation struct {
	ID           string    `json:"id"`
	CountryCode  string    `json:"countryCode"`
	Name         string    `json:"name"`
	URL          string    `json:"url,omitempty"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	Type         string    `json:"type,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FormatRequest is the payload for submitting a format.
type FormatRequest struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Authority   string `json:"authority,omitempty"`
	Type        string `json:"type,omitempty"`
}

// LegislationRequest is the payload for submitting legislation.
type LegislationRequest struct {
	CountryCode  string `json:"countryCode"`
	Name         string `json:"name"`
	URL          string `json:"url,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Type         string `json:"type,omitempty"`
}
