package engine

import (
	"github.com/shopspring/decimal"

	"shipquote-backend/internal/domain"
)

// AggregatedOption is a customer-facing option resolved to its cheapest
// available linked service.
type AggregatedOption struct {
	Option       domain.ShippingOption
	Price        decimal.Decimal
	DeliveryDays int
	Priced       PricedService
	FreeShipping bool
}

// AggregateOptions maps each active option to the minimum price among
// its linked services, carrying the delivery estimate of whichever
// service won. Options with no available linked service are dropped.
func AggregateOptions(options []domain.ShippingOption, priced map[string]PricedService) []AggregatedOption {
	var out []AggregatedOption
	for _, opt := range options {
		if !opt.Active || len(opt.ServiceIDs) == 0 {
			continue
		}
		var best PricedService
		found := false
		for _, svcID := range opt.ServiceIDs {
			ps, ok := priced[svcID]
			if !ok {
				continue
			}
			if !found || ps.Price.LessThan(best.Price) {
				best = ps
				found = true
			}
		}
		if !found {
			continue
		}
		out = append(out, AggregatedOption{
			Option:       opt,
			Price:        best.Price,
			DeliveryDays: best.DeliveryDays,
			Priced:       best,
		})
	}
	return out
}

// ApplyFreeShipping zeroes the price of any option whose subtotal
// threshold is met, or whose free-zone list contains one of the
// destination's zones. The delivery estimate is preserved and the
// option is never removed.
func ApplyFreeShipping(opts []AggregatedOption, zoneCodes []string, subtotal decimal.Decimal) []AggregatedOption {
	zones := make(map[string]struct{}, len(zoneCodes))
	for _, z := range zoneCodes {
		zones[z] = struct{}{}
	}
	out := make([]AggregatedOption, len(opts))
	copy(out, opts)
	for i := range out {
		opt := out[i].Option
		free := opt.FreeShippingThreshold != nil && subtotal.GreaterThanOrEqual(*opt.FreeShippingThreshold)
		if !free {
			for _, z := range opt.FreeShippingZones {
				if _, ok := zones[z]; ok {
					free = true
					break
				}
			}
		}
		if free {
			out[i].Price = decimal.Zero
			out[i].FreeShipping = true
		}
	}
	return out
}

// CollapseRoutingGroups keeps only the cheapest option within each
// non-empty routing group (ties broken by lower sort order, then
// earlier configuration position). Ungrouped options always pass
// through. Input order is preserved for the survivors.
func CollapseRoutingGroups(opts []AggregatedOption) []AggregatedOption {
	winners := make(map[string]int)
	for i, o := range opts {
		group := o.Option.RoutingGroup
		if group == "" {
			continue
		}
		w, seen := winners[group]
		if !seen || beats(o, opts[w]) {
			winners[group] = i
		}
	}
	var out []AggregatedOption
	for i, o := range opts {
		if group := o.Option.RoutingGroup; group != "" && winners[group] != i {
			continue
		}
		out = append(out, o)
	}
	return out
}

func beats(a, b AggregatedOption) bool {
	if !a.Price.Equal(b.Price) {
		return a.Price.LessThan(b.Price)
	}
	return a.Option.SortOrder < b.Option.SortOrder
}
