package country

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DropReason explains why an identity record was excluded from the merge.
type DropReason string

const (
	DropMissingName DropReason = "missing or empty name"
)

// MergeOutcome is the per-record result of a merge: either a merged Country
// or a drop with its reason. Callers that only want the aggregate use
// MergeCountries, which discards drops.
type MergeOutcome struct {
	Country *Country
	Dropped bool
	Reason  DropReason
	// Identity is the input record, kept so drops stay inspectable.
	Identity CountryIdentity
}

// MergeCountries combines identity and compliance records into the unified
// country view, keyed by ISO 3166-1 alpha-3 code. Malformed identity records
// are silently dropped and missing compliance data is defaulted; the merge
// never fails on bad individual records. Output is sorted ascending by name
// using locale-aware comparison, which is the ordering clients rely on.
func MergeCountries(identities []CountryIdentity, compliance []ComplianceRecord, now time.Time) []Country {
	outcomes := MergeDetailed(identities, compliance, now)
	countries := make([]Country, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Dropped {
			countries = append(countries, *o.Country)
		}
	}
	return countries
}

// MergeDetailed performs the same merge as MergeCountries but reports one
// outcome per input record, so callers can surface drop reasons. Merged
// entries appear in final sort order, followed by drops in input order.
func MergeDetailed(identities []CountryIdentity, compliance []ComplianceRecord, now time.Time) []MergeOutcome {
	byCode := make(map[string]*ComplianceRecord, len(compliance))
	byName := make(map[string]*ComplianceRecord)
	for i := range compliance {
		rec := &compliance[i]
		if code := strings.ToUpper(strings.TrimSpace(rec.ISOCode3)); code != "" {
			byCode[code] = rec
		} else if name := strings.TrimSpace(rec.Name); name != "" {
			// Legacy records without ISO codes are matched by name.
			byName[strings.ToLower(name)] = rec
		}
	}

	var merged []MergeOutcome
	var dropped []MergeOutcome
	for _, identity := range identities {
		name := strings.TrimSpace(identity.Name)
		if name == "" {
			dropped = append(dropped, MergeOutcome{Dropped: true, Reason: DropMissingName, Identity: identity})
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(identity.ISOCode3))
		rec := byCode[code]
		if rec == nil {
			rec = byName[strings.ToLower(name)]
		}
		if rec == nil {
			rec = &ComplianceRecord{
				ISOCode3:    code,
				LastUpdated: now.UTC().Format(time.RFC3339),
			}
		}

		merged = append(merged, MergeOutcome{
			Identity: identity,
			Country: &Country{
				ID:        code,
				Name:      name,
				ISOCode2:  strings.ToUpper(strings.TrimSpace(identity.ISOCode2)),
				ISOCode3:  code,
				Continent: identity.Continent,
				Region:    identity.Region,
				EInvoicing: EInvoicing{
					B2G:         normalizeChannel(rec.B2G),
					B2B:         normalizeChannel(rec.B2B),
					B2C:         normalizeChannel(rec.B2C),
					LastUpdated: rec.LastUpdated,
				},
			},
		})
	}

	coll := collate.New(language.English)
	sort.SliceStable(merged, func(i, j int) bool {
		return coll.CompareString(merged[i].Country.Name, merged[j].Country.Name) < 0
	})

	return append(merged, dropped...)
}

// normalizeChannel guarantees the no-undefined-fields invariant: status
// defaults to none, formats to an empty list, legislation to {name: ""}.
func normalizeChannel(ch Channel) Channel {
	if ch.Status == "" {
		ch.Status = StatusNone
	}
	if ch.Formats == nil {
		ch.Formats = []Format{}
	}
	return ch
}
