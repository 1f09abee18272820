package engine

import "shipquote-backend/internal/domain"

// FindRate selects the active rate row for the given zone whose weight
// band contains the chargeable weight. Overlapping bands are a
// configuration anomaly, resolved deterministically: the tightest band
// wins (smallest max weight, then smallest min weight). A miss means
// the service is unavailable for this zone and weight, nothing more.
func FindRate(svc *domain.ShippingService, zoneCode string, weight float64) (*domain.Rate, bool) {
	var best *domain.Rate
	for i := range svc.Rates {
		r := &svc.Rates[i]
		if !r.Active || r.ZoneCode != zoneCode {
			continue
		}
		if weight < r.MinWeight || weight > r.MaxWeight {
			continue
		}
		if best == nil || r.MaxWeight < best.MaxWeight ||
			(r.MaxWeight == best.MaxWeight && r.MinWeight < best.MinWeight) {
			best = r
		}
	}
	return best, best != nil
}
