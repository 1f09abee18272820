package engine

import (
	"fmt"

	"shipquote-backend/internal/domain"
)

// ValidateCart rejects order contexts that cannot be priced safely.
// A shippable item must have positive weight; dimensions are optional
// but must not be negative. Runs once, before any pricing attempt.
func ValidateCart(order *domain.OrderShippingContext) error {
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: cart has no items", domain.ErrInvalidCartData)
	}
	for i, item := range order.Items {
		if item.WeightKg <= 0 {
			return fmt.Errorf("%w: item %d has non-positive weight %v", domain.ErrInvalidCartData, i, item.WeightKg)
		}
		if item.LengthCm < 0 || item.WidthCm < 0 || item.HeightCm < 0 {
			return fmt.Errorf("%w: item %d has negative dimensions", domain.ErrInvalidCartData, i)
		}
	}
	return nil
}

// PackItems applies predefined-package pre-binning: an item that names
// a package code takes on the package's dimensions and gains its tare
// weight. Items without a package code, or naming an unknown code, pass
// through unchanged.
func PackItems(items []domain.CartItem, snap *domain.ShippingSnapshot) []domain.CartItem {
	packed := make([]domain.CartItem, len(items))
	copy(packed, items)
	for i, item := range packed {
		if item.PackageCode == "" {
			continue
		}
		pkg, ok := snap.PackageByCode(item.PackageCode)
		if !ok {
			continue
		}
		packed[i].LengthCm = pkg.LengthCm
		packed[i].WidthCm = pkg.WidthCm
		packed[i].HeightCm = pkg.HeightCm
		packed[i].WeightKg = item.WeightKg + pkg.TareWeightKg
	}
	return packed
}

// ChargeableWeight derives the weight to bill against for one service.
// Cubic pricing bills the greater of actual and volumetric weight;
// every other charge model bills actual weight.
func ChargeableWeight(items []domain.CartItem, scheme domain.ChargeScheme) float64 {
	var actual float64
	for _, item := range items {
		actual += item.WeightKg
	}
	cubic, ok := scheme.(domain.CubicCharge)
	if !ok || cubic.Divisor <= 0 {
		return actual
	}
	var volumetric float64
	for _, item := range items {
		volumetric += item.LengthCm * item.WidthCm * item.HeightCm / cubic.Divisor
	}
	if volumetric > actual {
		return volumetric
	}
	return actual
}
