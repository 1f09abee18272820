package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PostcodeMatcher is a parsed zone membership rule: either a single
// postcode or an inclusive numeric range. Matchers are parsed and
// validated when the configuration snapshot is loaded, never per request.
type PostcodeMatcher struct {
	Raw  string `json:"raw"`
	Low  int    `json:"low"`
	High int    `json:"high"`
}

// ParsePostcodeMatcher parses "2000" or "2000-2050" style matchers.
// A range with low > high, or anything non-numeric, is malformed.
func ParsePostcodeMatcher(raw string) (PostcodeMatcher, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return PostcodeMatcher{}, fmt.Errorf("empty postcode matcher")
	}
	if low, high, ok := strings.Cut(s, "-"); ok {
		lo, err := strconv.Atoi(strings.TrimSpace(low))
		if err != nil {
			return PostcodeMatcher{}, fmt.Errorf("postcode matcher %q: invalid range start", raw)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(high))
		if err != nil {
			return PostcodeMatcher{}, fmt.Errorf("postcode matcher %q: invalid range end", raw)
		}
		if lo > hi {
			return PostcodeMatcher{}, fmt.Errorf("postcode matcher %q: range start exceeds end", raw)
		}
		return PostcodeMatcher{Raw: s, Low: lo, High: hi}, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return PostcodeMatcher{}, fmt.Errorf("postcode matcher %q: not a postcode or range", raw)
	}
	return PostcodeMatcher{Raw: s, Low: v, High: v}, nil
}

// Matches reports whether the destination postcode falls inside the matcher.
func (m PostcodeMatcher) Matches(postcode string) bool {
	p, err := strconv.Atoi(strings.TrimSpace(postcode))
	if err != nil {
		return false
	}
	return p >= m.Low && p <= m.High
}

// Zone is a named geographic grouping of postcodes used to scope rates.
type Zone struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Country  string            `json:"country"` // empty = no country restriction
	Matchers []PostcodeMatcher `json:"matchers"`
	Active   bool              `json:"isActive"`
}

// ShippingCategory scopes which services apply to which products.
// At most one category per merchant is marked default.
type ShippingCategory struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"isDefault"`
}

// Charge type labels as stored in merchant configuration.
const (
	ChargeTypeWeight    = "weight"
	ChargeTypeCubic     = "cubic"
	ChargeTypeFixed     = "fixed"
	ChargeTypeFlat      = "flat"
	ChargeTypeCartTotal = "cart_total"
)

// ChargeScheme is the tagged variant behind a service's charge_type.
// Each variant carries only the configuration it actually uses.
type ChargeScheme interface {
	ChargeType() string
}

// WeightCharge bills base rate plus per-kg rate against actual weight.
type WeightCharge struct{}

func (WeightCharge) ChargeType() string { return ChargeTypeWeight }

// CubicCharge bills against max(actual weight, volumetric weight),
// where volumetric weight is l*w*h/Divisor summed per item.
type CubicCharge struct {
	Divisor float64 `json:"divisor"`
}

func (CubicCharge) ChargeType() string { return ChargeTypeCubic }

// FixedCharge bills the zone rate row's base rate, ignoring weight.
type FixedCharge struct{}

func (FixedCharge) ChargeType() string { return ChargeTypeFixed }

// FlatCharge bills one amount regardless of zone rate rows: the zone
// row's base rate when one exists, else the service's min charge.
type FlatCharge struct{}

func (FlatCharge) ChargeType() string { return ChargeTypeFlat }

// CartTotalTier prices a subtotal band. A nil MaxSubtotal means no
// upper bound.
type CartTotalTier struct {
	MinSubtotal  decimal.Decimal  `json:"minSubtotal"`
	MaxSubtotal  *decimal.Decimal `json:"maxSubtotal"`
	Amount       decimal.Decimal  `json:"amount"`
	DeliveryDays int              `json:"deliveryDays"`
}

// CartTotalCharge bills from an explicit subtotal tier table. A service
// configured with this charge type but no tiers can never price.
type CartTotalCharge struct {
	Tiers []CartTotalTier `json:"tiers"`
}

func (CartTotalCharge) ChargeType() string { return ChargeTypeCartTotal }

// Rate is a weight-banded price row belonging to one service and one zone.
type Rate struct {
	ID           string          `json:"id"`
	ZoneCode     string          `json:"zoneCode"`
	ZoneName     string          `json:"zoneName"`
	MinWeight    float64         `json:"minWeight"`
	MaxWeight    float64         `json:"maxWeight"`
	BaseRate     decimal.Decimal `json:"baseRate"`
	PerKgRate    decimal.Decimal `json:"perKgRate"`
	DeliveryDays int             `json:"deliveryDays"`
	Active       bool            `json:"isActive"`
}

// ShippingService is a named shipping method with a charge model and a
// per-zone rate table.
type ShippingService struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Carrier             string           `json:"carrier"`
	Scheme              ChargeScheme     `json:"-"`
	MinCharge           decimal.Decimal  `json:"minCharge"`
	MaxCharge           *decimal.Decimal `json:"maxCharge"`
	HandlingFee         decimal.Decimal  `json:"handlingFee"`
	FuelLevyPercent     decimal.Decimal  `json:"fuelLevyPercent"`
	CategoryIDs         []string         `json:"categoryIds"` // empty = applies to all
	DefaultDeliveryDays int              `json:"defaultDeliveryDays"`
	Active              bool             `json:"isActive"`
	Rates               []Rate           `json:"rates"`
}

// ShippingOption is a customer-facing choice backed by one or more
// services, subject to free-shipping and routing-group rules.
type ShippingOption struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	RoutingGroup          string           `json:"routingGroup"`
	ServiceIDs            []string         `json:"serviceIds"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold"`
	FreeShippingZones     []string         `json:"freeShippingZones"`
	SortOrder             int              `json:"sortOrder"`
	Active                bool             `json:"isActive"`
}

// PredefinedPackage is an optional packing aid; when a cart item names
// one, the package dimensions and tare replace the item's own.
type PredefinedPackage struct {
	Code         string  `json:"code"`
	LengthCm     float64 `json:"lengthCm"`
	WidthCm      float64 `json:"widthCm"`
	HeightCm     float64 `json:"heightCm"`
	MaxWeightKg  float64 `json:"maxWeightKg"`
	TareWeightKg float64 `json:"tareWeightKg"`
}

// ShippingSnapshot is the immutable configuration bundle one quote
// computation runs against. The engine never mutates or refreshes it.
type ShippingSnapshot struct {
	Zones      []Zone              `json:"zones"`
	Categories []ShippingCategory  `json:"categories"`
	Services   []ShippingService   `json:"services"`
	Options    []ShippingOption    `json:"options"`
	Packages   []PredefinedPackage `json:"packages"`
}

// DefaultCategoryID returns the merchant's default shipping category,
// or "" when none is marked default.
func (s *ShippingSnapshot) DefaultCategoryID() string {
	for _, c := range s.Categories {
		if c.Default {
			return c.ID
		}
	}
	return ""
}

// PackageByCode looks up a predefined package.
func (s *ShippingSnapshot) PackageByCode(code string) (PredefinedPackage, bool) {
	for _, p := range s.Packages {
		if p.Code == code {
			return p, true
		}
	}
	return PredefinedPackage{}, false
}

// SnapshotRepository loads the merchant's shipping configuration.
// The store is owned by the external configuration system; this side
// only ever reads.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context) (*ShippingSnapshot, error)
}
