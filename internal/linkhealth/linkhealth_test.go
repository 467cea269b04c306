package linkhealth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Status
	}{
		{"eur-lex is known good", "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:32014L0055", StatusOK},
		{"peppol is known good", "https://peppol.org/about/", StatusOK},
		{"case-insensitive match", "HTTPS://EUR-LEX.EUROPA.EU/x", StatusOK},
		{"retired gateway is broken", "http://www.e-invoice-gateway.net/spec", StatusNotFound},
		{"deny list wins over allow list", "https://webarchive.nationalarchives.gov.uk/+/https://gov.uk/old", StatusNotFound},
		{"unlisted domain is unknown", "https://some-random-blog.example.com/e-invoicing", StatusUnknown},
		{"empty url is unknown", "", StatusUnknown},
		{"whitespace url is unknown", "   ", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
		})
	}
}
