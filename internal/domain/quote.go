package domain

import "github.com/shopspring/decimal"

// CartItem is one line of the order being quoted. Dimensions are
// optional; an item with no dimensions simply contributes no
// volumetric weight. PackageCode optionally pre-bins the item into a
// predefined package before weighing.
type CartItem struct {
	WeightKg    float64 `json:"weight"`
	LengthCm    float64 `json:"length"`
	WidthCm     float64 `json:"width"`
	HeightCm    float64 `json:"height"`
	CategoryID  string  `json:"categoryId"`
	PackageCode string  `json:"packageCode,omitempty"`
}

// OrderShippingContext is the per-request input. It is built fresh by
// the caller for every quote and never persisted here.
type OrderShippingContext struct {
	Postcode string          `json:"postcode"`
	Country  string          `json:"country"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Items    []CartItem      `json:"items"`
}

// QuotedOption is one priced shipping choice in the final quote list.
// ServiceID, ZoneCode and RateBand expose which service/zone/rate tier
// won, so admin preview tooling can see how overlaps were resolved.
type QuotedOption struct {
	OptionID     string          `json:"optionId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"estimatedDeliveryDays"`
	FreeShipping bool            `json:"freeShipping"`
	ServiceID    string          `json:"serviceId"`
	ZoneCode     string          `json:"zoneCode,omitempty"`
	RateBand     string          `json:"rateBand,omitempty"`
}
