// Package country holds the merged country view model and the merge engine
// that combines identity and compliance datasets into it.
package country

// ChannelStatus is a jurisdiction's legal requirement level for one
// invoicing channel.
type ChannelStatus string

const (
	StatusMandated  ChannelStatus = "mandated"
	StatusPlanned   ChannelStatus = "planned"
	StatusPermitted ChannelStatus = "permitted"
	StatusNone      ChannelStatus = "none"
)

// Format references an invoice document format, optionally versioned.
type Format struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Legislation references the legal act behind a mandate.
type Legislation struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Language string `json:"language,omitempty"`
}

// Channel describes the compliance state of a single invoicing channel
// (B2G, B2B or B2C).
type Channel struct {
	Status             ChannelStatus `json:"status"`
	ImplementationDate string        `json:"implementationDate,omitempty"`
	Formats            []Format      `json:"formats"`
	Legislation        Legislation   `json:"legislation"`
}

// CountryIdentity is an immutable reference record from the static country
// list. ISOCode3 is the canonical join key.
type CountryIdentity struct {
	ISOCode3  string `json:"isoCode3"`
	ISOCode2  string `json:"isoCode2"`
	Name      string `json:"name"`
	Continent string `json:"continent"`
	Region    string `json:"region,omitempty"`
}

// ComplianceRecord holds the three channel states for one country. Name is a
// legacy fallback key for records predating ISO coding.
type ComplianceRecord struct {
	ISOCode3    string  `json:"isoCode3"`
	Name        string  `json:"name,omitempty"`
	B2G         Channel `json:"b2g"`
	B2B         Channel `json:"b2b"`
	B2C         Channel `json:"b2c"`
	LastUpdated string  `json:"lastUpdated"`
}

// EInvoicing groups the normalized channel states on the merged view.
type EInvoicing struct {
	B2G         Channel `json:"b2g"`
	B2B         Channel `json:"b2b"`
	B2C         Channel `json:"b2c"`
	LastUpdated string  `json:"lastUpdated"`
}

// Country is the merged, read-only projection served to clients. It is
// rebuilt from the two datasets on every read and never persisted.
type Country struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ISOCode2   string     `json:"isoCode2"`
	ISOCode3   string     `json:"isoCode3"`
	Continent  string     `json:"continent"`
	Region     string     `json:"region,omitempty"`
	EInvoicing EInvoicing `json:"eInvoicing"`
}
