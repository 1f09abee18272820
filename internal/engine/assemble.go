package engine

import (
	"sort"

	"shipquote-backend/internal/domain"
)

// Assemble orders the surviving options for display: sort order
// ascending, then price ascending. Always returns a non-nil slice so
// an empty quote serializes as [] rather than null.
func Assemble(opts []AggregatedOption) []domain.QuotedOption {
	sorted := make([]AggregatedOption, len(opts))
	copy(sorted, opts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Option.SortOrder != sorted[j].Option.SortOrder {
			return sorted[i].Option.SortOrder < sorted[j].Option.SortOrder
		}
		return sorted[i].Price.LessThan(sorted[j].Price)
	})

	quotes := make([]domain.QuotedOption, 0, len(sorted))
	for _, o := range sorted {
		quotes = append(quotes, domain.QuotedOption{
			OptionID:     o.Option.ID,
			Name:         o.Option.Name,
			Price:        o.Price,
			DeliveryDays: o.DeliveryDays,
			FreeShipping: o.FreeShipping,
			ServiceID:    o.Priced.ServiceID,
			ZoneCode:     o.Priced.ZoneCode,
			RateBand:     o.Priced.RateBand(),
		})
	}
	return quotes
}
