// Package engine computes shipping quotes: it resolves the destination
// to zones, derives chargeable weight per service, looks up banded
// rates, prices each service, and aggregates services into customer
// facing options. It is a pure function over an immutable configuration
// snapshot and a per-request order context: no I/O, no shared state,
// safe to run concurrently across checkout requests.
package engine

import "shipquote-backend/internal/domain"

// Quote runs the full pipeline. It returns domain.ErrInvalidCartData
// for unusable cart input and an empty (never nil-meaning-error) slice
// when no option can be priced; the caller renders that as a "no
// shipping available" state.
func Quote(snap *domain.ShippingSnapshot, order *domain.OrderShippingContext) ([]domain.QuotedOption, error) {
	if err := ValidateCart(order); err != nil {
		return nil, err
	}

	zoneCodes := ResolveZones(order.Postcode, order.Country, snap.Zones)
	items := PackItems(order.Items, snap)
	defaultCategory := snap.DefaultCategoryID()

	priced := make(map[string]PricedService, len(snap.Services))
	for i := range snap.Services {
		svc := &snap.Services[i]
		if !svc.Active || svc.Scheme == nil {
			continue
		}
		if !CategoryEligible(svc, items, defaultCategory) {
			continue
		}
		weight := ChargeableWeight(items, svc.Scheme)
		if ps, ok := PriceService(svc, zoneCodes, weight, order.Subtotal); ok {
			priced[svc.ID] = ps
		}
	}

	aggregated := AggregateOptions(snap.Options, priced)
	aggregated = ApplyFreeShipping(aggregated, zoneCodes, order.Subtotal)
	aggregated = CollapseRoutingGroups(aggregated)

	return Assemble(aggregated), nil
}
