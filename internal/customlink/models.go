// Package customlink manages user-supplied URL overrides for official
// compliance links. Overrides are keyed by (countryCode, linkType,
// originalUrl) and are served in place of the original URL when the full
// key matches.
package customlink

import (
	"strings"
	"time"

	"mandatemap/pkg/apierrors"
)

// LinkType labels which slot on a country record an override replaces.
type LinkType string

const (
	LinkTypeLegislation   LinkType = "legislation"
	LinkTypeSpecification LinkType = "specification"
	LinkTypeNews          LinkType = "news"
	LinkTypeStandard      LinkType = "standard"
)

// ParseLinkType validates a wire value into a LinkType.
func ParseLinkType(s string) (LinkType, error) {
	switch LinkType(s) {
	case LinkTypeLegislation, LinkTypeSpecification, LinkTypeNews, LinkTypeStandard:
		return LinkType(s), nil
	}
	return "", apierrors.New(apierrors.CodeValidation, "invalid linkType: "+s).
		WithDetails(map[string]string{"linkType": "must be one of legislation, specification, news, standard"})
}

// CustomLink is a stored override. ID addresses the record for CRUD; the
// resolution key is what decides whether it is served.
type CustomLink struct {
	ID          string    `json:"id"`
	CountryCode string    `json:"countryCode"`
	LinkType    LinkType  `json:"linkType"`
	OriginalURL string    `json:"originalUrl"`
	CustomURL   string    `json:"customUrl"`
	Title       string    `json:"title"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateRequest is the payload for creating (or upserting) an override.
type CreateRequest struct {
	CountryCode string `json:"countryCode"`
	LinkType    string `json:"linkType"`
	OriginalURL string `json:"originalUrl"`
	CustomURL   string `json:"customUrl"`
	Title       string `json:"title"`
	Notes       string `json:"notes,omitempty"`
}

// Resolution is the outcome of looking up an override for a link slot.
// CustomURL is null on the wire when no override matches.
type Resolution struct {
	HasCustomLink   bool    `json:"hasCustomLink"`
	CustomURL       *string `json:"customUrl"`
	ShouldUseCustom bool    `json:"shouldUseCustom"`
}

// KeyMode selects how overrides are keyed. Exact mode matches the original
// URL byte-for-byte, so an upstream URL change orphans the override; that is
// the historical behavior and the default. Slot mode keys on
// (countryCode, linkType) only.
type KeyMode string

const (
	KeyModeExact KeyMode = "exact"
	KeyModeSlot  KeyMode = "slot"
)

// ResolutionKey derives the store key for an override under the given mode.
// Country codes compare case-insensitively; original URLs do not.
func ResolutionKey(mode KeyMode, countryCode string, lt LinkType, originalURL string) string {
	cc := strings.ToUpper(strings.TrimSpace(countryCode))
	if mode == KeyModeSlot {
		return cc + "|" + string(lt)
	}
	return cc + "|" + string(lt) + "|" + originalURL
}
