package engine

import (
	"strings"

	"shipquote-backend/internal/domain"
)

// ResolveZones maps a destination to the full set of matching zone
// codes, preserving configuration order. Overlapping zone configuration
// is allowed; every match is returned and rate lookup later keeps the
// cheapest result per service. An empty result is not an error: it only
// excludes zone-scoped services from the quote.
func ResolveZones(postcode, country string, zones []domain.Zone) []string {
	var codes []string
	seen := make(map[string]struct{})
	for _, z := range zones {
		if !z.Active {
			continue
		}
		if z.Country != "" && !strings.EqualFold(z.Country, country) {
			continue
		}
		if _, dup := seen[z.Code]; dup {
			continue
		}
		for _, m := range z.Matchers {
			if m.Matches(postcode) {
				codes = append(codes, z.Code)
				seen[z.Code] = struct{}{}
				break
			}
		}
	}
	return codes
}
