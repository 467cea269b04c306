// Package compliance applies the offline default-rule table that fills in
// channel statuses for countries whose source data left them at "none". The
// rules are static group-membership tables; nothing here talks to the
// network.
package compliance

import (
	"time"

	"mandatemap/internal/country"
)

// euMemberStates are the 27 EU member states by ISO3 code. Membership drives
// the Directive 2014/55/EU B2G default and the ViDA B2B default.
var euMemberStates = map[string]bool{
	"AUT": true, "BEL": true, "BGR": true, "HRV": true, "CYP": true,
	"CZE": true, "DNK": true, "EST": true, "FIN": true, "FRA": true,
	"DEU": true, "GRC": true, "HUN": true, "IRL": true, "ITA": true,
	"LVA": true, "LTU": true, "LUX": true, "MLT": true, "NLD": true,
	"POL": true, "PRT": true, "ROU": true, "SVK": true, "SVN": true,
	"ESP": true, "SWE": true,
}

// vatCountries lists jurisdictions operating a VAT/GST system outside the
// EU tables above. VAT membership defaults B2B and B2C to permitted.
// Countries carried by the explicit b2bMandates table are deliberately not
// listed here: the VAT rule runs first and would otherwise claim their B2B
// channel with the weaker "permitted" default.
var vatCountries = map[string]bool{
	"ALB": true, "ARE": true, "ARG": true, "ARM": true, "AUS": true,
	"AZE": true, "BGD": true, "BHR": true, "BIH": true, "BLR": true,
	"BOL": true, "CAN": true, "CHE": true,
	"CHN": true, "COL": true, "CRI": true, "DOM": true, "ECU": true,
	"GBR": true, "GEO": true, "GHA": true, "GTM": true,
	"IDN": true, "ISL": true, "ISR": true, "JPN": true,
	"KEN": true, "LKA": true, "MAR": true,
	"MDA": true, "MKD": true, "MNE": true, "MYS": true,
	"NGA": true, "NOR": true, "NZL": true, "PAK": true, "PAN": true,
	"PER": true, "PHL": true, "PRY": true, "RUS": true,
	"SGP": true, "SRB": true, "THA": true, "TUN": true,
	"TWN": true, "TZA": true, "UGA": true, "UKR": true, "URY": true,
	"UZB": true, "ZAF": true, "ZMB": true,
}

// b2bMandates is the explicit per-country B2B mandate table for
// jurisdictions with a clearance or near-clearance model already in force.
var b2bMandates = map[string]country.Channel{
	"BRA": {Status: country.StatusMandated, ImplementationDate: "2008-04-01",
		Formats:     []country.Format{{Name: "NF-e", Version: "4.0"}},
		Legislation: country.Legislation{Name: "Ajuste SINIEF 07/05"}},
	"CHL": {Status: country.StatusMandated, ImplementationDate: "2018-02-01",
		Formats:     []country.Format{{Name: "DTE"}},
		Legislation: country.Legislation{Name: "Ley 20.727"}},
	"EGY": {Status: country.StatusMandated, ImplementationDate: "2023-04-01",
		Formats:     []country.Format{{Name: "Egyptian e-Invoice JSON"}},
		Legislation: country.Legislation{Name: "Ministerial Decree 188/2020"}},
	"IND": {Status: country.StatusMandated, ImplementationDate: "2020-10-01",
		Formats:     []country.Format{{Name: "GST INV-01"}},
		Legislation: country.Legislation{Name: "GST Notification 61/2020"}},
	"KAZ": {Status: country.StatusMandated, ImplementationDate: "2019-01-01",
		Formats:     []country.Format{{Name: "ESF"}},
		Legislation: country.Legislation{Name: "Tax Code of Kazakhstan, Art. 412"}},
	"KOR": {Status: country.StatusMandated, ImplementationDate: "2011-01-01",
		Formats:     []country.Format{{Name: "e-Tax Invoice"}},
		Legislation: country.Legislation{Name: "VAT Act Article 32"}},
	"MEX": {Status: country.StatusMandated, ImplementationDate: "2014-01-01",
		Formats:     []country.Format{{Name: "CFDI", Version: "4.0"}},
		Legislation: country.Legislation{Name: "Código Fiscal de la Federación, Art. 29"}},
	"SAU": {Status: country.StatusMandated, ImplementationDate: "2021-12-04",
		Formats:     []country.Format{{Name: "FATOORA XML"}},
		Legislation: country.Legislation{Name: "ZATCA E-Invoicing Regulation"}},
	"TUR": {Status: country.StatusMandated, ImplementationDate: "2014-04-01",
		Formats:     []country.Format{{Name: "UBL-TR", Version: "1.2"}},
		Legislation: country.Legislation{Name: "Tax Procedure Law General Communiqué 509"}},
	"VNM": {Status: country.StatusMandated, ImplementationDate: "2022-07-01",
		Formats:     []country.Format{{Name: "Vietnam e-invoice XML"}},
		Legislation: country.Legislation{Name: "Decree 123/2020/ND-CP"}},
}

var euB2GDefault = country.Channel{
	Status:             country.StatusMandated,
	ImplementationDate: "2020-04-18",
	Formats: []country.Format{
		{Name: "Peppol BIS Billing", Version: "3.0"},
		{Name: "EN 16931 UBL"},
	},
	Legislation: country.Legislation{
		Name: "Directive 2014/55/EU",
		URL:  "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:32014L0055",
	},
}

var euB2BDefault = country.Channel{
	Status:             country.StatusPlanned,
	ImplementationDate: "2030-07-01",
	Formats:            []country.Format{{Name: "EN 16931"}},
	Legislation: country.Legislation{
		Name: "VAT in the Digital Age (ViDA) package",
		URL:  "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:52022PC0701",
	},
}

var vatPermittedDefault = country.Channel{
	Status: country.StatusPermitted,
}

// ApplyDefaultComplianceRules fills channels still at status "none" from the
// static rule tables. Rules run in a fixed order (EU-B2G, EU-B2B, VAT-B2B,
// VAT-B2C, explicit B2B table) and the first rule to claim a channel wins;
// channels with any non-default status are never overwritten, so applying
// the function twice is a no-op. When anything changed, LastUpdated is set
// from now.
func ApplyDefaultComplianceRules(rec country.ComplianceRecord, now time.Time) (country.ComplianceRecord, bool) {
	code := rec.ISOCode3
	changed := false

	apply := func(ch *country.Channel, def country.Channel) {
		if ch.Status != country.StatusNone && ch.Status != "" {
			return
		}
		*ch = cloneChannel(def)
		changed = true
	}

	if euMemberStates[code] {
		apply(&rec.B2G, euB2GDefault)
		apply(&rec.B2B, euB2BDefault)
	}
	if vatCountries[code] {
		apply(&rec.B2B, vatPermittedDefault)
		apply(&rec.B2C, vatPermittedDefault)
	}
	if def, ok := b2bMandates[code]; ok {
		apply(&rec.B2B, def)
	}

	if changed {
		rec.LastUpdated = now.UTC().Format(time.RFC3339)
	}
	return rec, changed
}

// cloneChannel copies the default so callers can't mutate the shared tables
// through a returned record.
func cloneChannel(ch country.Channel) country.Channel {
	out := ch
	if ch.Formats != nil {
		out.Formats = append([]country.Format(nil), ch.Formats...)
	} else {
		out.Formats = []country.Format{}
	}
	return out
}

// IsEUMember reports EU membership for an ISO3 code. Exposed for the
// refresh summary and for tests.
func IsEUMember(iso3 string) bool { return euMemberStates[iso3] }
