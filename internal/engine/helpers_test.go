package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shipquote-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustMatcher(t *testing.T, raw string) domain.PostcodeMatcher {
	t.Helper()
	m, err := domain.ParsePostcodeMatcher(raw)
	require.NoError(t, err)
	return m
}

func sydMetroZone(t *testing.T) domain.Zone {
	t.Helper()
	return domain.Zone{
		Code:    "SYD_METRO",
		Name:    "Sydney Metro",
		Country: "AU",
		Matchers: []domain.PostcodeMatcher{
			mustMatcher(t, "2000-2050"),
			mustMatcher(t, "2010"),
		},
		Active: true,
	}
}

// standardService mirrors the worked example used throughout the
// pricing tests: base 5.00 + 2.00/kg, 10% fuel levy, $1 handling,
// $3 minimum, one 0-5kg band for SYD_METRO.
func standardService() domain.ShippingService {
	return domain.ShippingService{
		ID:              "standard",
		Name:            "Standard",
		Carrier:         "AusPost",
		Scheme:          domain.WeightCharge{},
		MinCharge:       dec("3.00"),
		HandlingFee:     dec("1.00"),
		FuelLevyPercent: dec("10"),
		Active:          true,
		Rates: []domain.Rate{
			{
				ID:           "r1",
				ZoneCode:     "SYD_METRO",
				MinWeight:    0,
				MaxWeight:    5,
				BaseRate:     dec("5.00"),
				PerKgRate:    dec("2.00"),
				DeliveryDays: 2,
				Active:       true,
			},
		},
	}
}
