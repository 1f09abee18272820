package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shipquote-backend/internal/domain"
)

// PricedService is one service's final price for the destination,
// together with the zone and rate row that produced it so admin
// tooling can inspect how overlapping configuration was resolved.
type PricedService struct {
	ServiceID    string
	Price        decimal.Decimal
	DeliveryDays int
	ZoneCode     string
	Rate         *domain.Rate
}

// RateBand renders the winning weight band, e.g. "0-5kg".
func (p PricedService) RateBand() string {
	if p.Rate == nil {
		return ""
	}
	return fmt.Sprintf("%g-%gkg", p.Rate.MinWeight, p.Rate.MaxWeight)
}

// CategoryEligible reports whether the service may ship this cart. A
// service with no category restriction ships anything; a restricted
// one requires every item's category (falling back to the merchant
// default for uncategorised items) to be listed.
func CategoryEligible(svc *domain.ShippingService, items []domain.CartItem, defaultCategoryID string) bool {
	if len(svc.CategoryIDs) == 0 {
		return true
	}
	allowed := make(map[string]struct{}, len(svc.CategoryIDs))
	for _, id := range svc.CategoryIDs {
		allowed[id] = struct{}{}
	}
	for _, item := range items {
		cat := item.CategoryID
		if cat == "" {
			cat = defaultCategoryID
		}
		if _, ok := allowed[cat]; !ok {
			return false
		}
	}
	return true
}

// PriceService prices one service against every candidate zone and
// keeps the cheapest result. The second return is false when the
// service cannot serve this request at all: inactive, no matching rate
// row for any zone, or a cart_total service with no applicable tier.
// Unavailability is a per-service signal, never a quote-level error.
func PriceService(svc *domain.ShippingService, zoneCodes []string, weight float64, subtotal decimal.Decimal) (PricedService, bool) {
	if !svc.Active {
		return PricedService{}, false
	}
	switch scheme := svc.Scheme.(type) {
	case domain.WeightCharge, domain.CubicCharge:
		return priceZoneScoped(svc, zoneCodes, weight, true)
	case domain.FixedCharge:
		return priceZoneScoped(svc, zoneCodes, weight, false)
	case domain.FlatCharge:
		return priceFlat(svc, zoneCodes, weight)
	case domain.CartTotalCharge:
		return priceCartTotal(svc, scheme, subtotal)
	default:
		return PricedService{}, false
	}
}

func priceZoneScoped(svc *domain.ShippingService, zoneCodes []string, weight float64, perKg bool) (PricedService, bool) {
	var best PricedService
	found := false
	for _, zone := range zoneCodes {
		rate, ok := FindRate(svc, zone, weight)
		if !ok {
			continue
		}
		raw := rate.BaseRate
		if perKg {
			raw = raw.Add(rate.PerKgRate.Mul(decimal.NewFromFloat(weight)))
		}
		candidate := PricedService{
			ServiceID:    svc.ID,
			Price:        finishPrice(svc, raw),
			DeliveryDays: rate.DeliveryDays,
			ZoneCode:     zone,
			Rate:         rate,
		}
		if !found || candidate.Price.LessThan(best.Price) {
			best = candidate
			found = true
		}
	}
	return best, found
}

// priceFlat charges one amount independent of weight: the zone rate
// row's base rate when one matches, otherwise the service's min charge.
func priceFlat(svc *domain.ShippingService, zoneCodes []string, weight float64) (PricedService, bool) {
	if priced, ok := priceZoneScoped(svc, zoneCodes, weight, false); ok {
		return priced, true
	}
	return PricedService{
		ServiceID:    svc.ID,
		Price:        finishPrice(svc, svc.MinCharge),
		DeliveryDays: svc.DefaultDeliveryDays,
	}, true
}

func priceCartTotal(svc *domain.ShippingService, scheme domain.CartTotalCharge, subtotal decimal.Decimal) (PricedService, bool) {
	var tier *domain.CartTotalTier
	for i := range scheme.Tiers {
		t := &scheme.Tiers[i]
		if subtotal.LessThan(t.MinSubtotal) {
			continue
		}
		if t.MaxSubtotal != nil && subtotal.GreaterThan(*t.MaxSubtotal) {
			continue
		}
		if tier == nil || tighterTier(t, tier) {
			tier = t
		}
	}
	if tier == nil {
		return PricedService{}, false
	}
	days := tier.DeliveryDays
	if days == 0 {
		days = svc.DefaultDeliveryDays
	}
	return PricedService{
		ServiceID:    svc.ID,
		Price:        finishPrice(svc, tier.Amount),
		DeliveryDays: days,
	}, true
}

// tighterTier mirrors the rate-band tie-break: bounded beats unbounded,
// smaller upper bound beats larger, then smaller lower bound.
func tighterTier(a, b *domain.CartTotalTier) bool {
	switch {
	case a.MaxSubtotal == nil && b.MaxSubtotal == nil:
		return a.MinSubtotal.LessThan(b.MinSubtotal)
	case a.MaxSubtotal == nil:
		return false
	case b.MaxSubtotal == nil:
		return true
	case a.MaxSubtotal.Equal(*b.MaxSubtotal):
		return a.MinSubtotal.LessThan(b.MinSubtotal)
	default:
		return a.MaxSubtotal.LessThan(*b.MaxSubtotal)
	}
}

// finishPrice applies the charge-type-independent tail: fuel levy on
// the raw amount, handling fee on top, then min/max clamping.
func finishPrice(svc *domain.ShippingService, raw decimal.Decimal) decimal.Decimal {
	total := raw
	if svc.FuelLevyPercent.Sign() != 0 {
		levy := svc.FuelLevyPercent.Div(decimal.NewFromInt(100))
		total = total.Mul(decimal.NewFromInt(1).Add(levy))
	}
	total = total.Add(svc.HandlingFee)
	if total.LessThan(svc.MinCharge) {
		total = svc.MinCharge
	}
	if svc.MaxCharge != nil && total.GreaterThan(*svc.MaxCharge) {
		total = *svc.MaxCharge
	}
	return total
}
