// Package linkhealth classifies URLs against static allow/deny lists of
// domain substrings. Classification is synchronous pattern matching only;
// no network probing happens here, and the result gates whether the UI
// offers a link override at all.
package linkhealth

import "strings"

// Status is the classification outcome for a URL.
type Status string

const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not-found"
	StatusUnknown  Status = "unknown"
)

// knownGoodDomains are substrings of hosts observed to serve stable official
// documents.
var knownGoodDomains = []string{
	"eur-lex.europa.eu",
	"ec.europa.eu",
	"peppol.org",
	"peppol.eu",
	"gov.uk",
	"legislation.gov.uk",
	"bundesfinanzministerium.de",
	"gesetze-im-internet.de",
	"legifrance.gouv.fr",
	"impots.gouv.fr",
	"agenziaentrate.gov.it",
	"boe.es",
	"sat.gob.mx",
	"gov.br",
	"zatca.gov.sa",
	"gstn.org.in",
	"irs.gov",
	"oecd.org",
	"un.org",
	"unece.org",
	"iso.org",
	"cen.eu",
}

// knownBrokenDomains are substrings of hosts or paths that reliably 404 or
// have been retired.
var knownBrokenDomains = []string{
	"webarchive.nationalarchives.gov.uk/+",
	"europa.eu/einvoicing-old",
	"cenbii.eu",
	"e-invoice-gateway.net",
	"invoicing-portal.example",
	"archive.org/broken",
}

// Classify matches the URL against the deny list first, then the allow
// list. Anything matching neither is unknown, which callers treat as "do
// not block, do not vouch".
func Classify(url string) Status {
	if strings.TrimSpace(url) == "" {
		return StatusUnknown
	}
	lower := strings.ToLower(url)
	for _, broken := range knownBrokenDomains {
		if strings.Contains(lower, broken) {
			return StatusNotFound
		}
	}
	for _, good := range knownGoodDomains {
		if strings.Contains(lower, good) {
			return StatusOK
		}
	}
	return StatusUnknown
}
