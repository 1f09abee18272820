package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipquote-backend/internal/domain"
)

func TestPriceServiceWeightCharge(t *testing.T) {
	svc := standardService()
	zones := []string{"SYD_METRO"}

	// raw = 5.00 + 2.00*2 = 9.00; levy 10% -> 9.90; +1.00 handling -> 10.90
	priced, ok := PriceService(&svc, zones, 2, dec("50"))
	require.True(t, ok)
	assert.Equal(t, "10.9", priced.Price.String())
	assert.Equal(t, 2, priced.DeliveryDays)
	assert.Equal(t, "SYD_METRO", priced.ZoneCode)
	assert.Equal(t, "0-5kg", priced.RateBand())
}

func TestPriceServiceMonotonicInWeight(t *testing.T) {
	svc := standardService()
	zones := []string{"SYD_METRO"}
	prev := decimal.Zero
	for _, w := range []float64{0.5, 1, 2, 3.5, 5} {
		priced, ok := PriceService(&svc, zones, w, dec("50"))
		require.True(t, ok)
		assert.True(t, priced.Price.GreaterThanOrEqual(prev), "price must not decrease at weight %v", w)
		prev = priced.Price
	}
}

func TestPriceServiceClamping(t *testing.T) {
	t.Run("min charge floor", func(t *testing.T) {
		svc := standardService()
		svc.MinCharge = dec("15.00")
		priced, ok := PriceService(&svc, []string{"SYD_METRO"}, 2, dec("50"))
		require.True(t, ok)
		assert.Equal(t, "15", priced.Price.String())
	})

	t.Run("max charge ceiling", func(t *testing.T) {
		svc := standardService()
		svc.MaxCharge = decp("8.00")
		priced, ok := PriceService(&svc, []string{"SYD_METRO"}, 2, dec("50"))
		require.True(t, ok)
		assert.Equal(t, "8", priced.Price.String())
	})
}

func TestPriceServiceFixedCharge(t *testing.T) {
	svc := standardService()
	svc.Scheme = domain.FixedCharge{}

	// per-kg component ignored: raw = 5.00; levy -> 5.50; +1.00 -> 6.50
	priced, ok := PriceService(&svc, []string{"SYD_METRO"}, 4, dec("50"))
	require.True(t, ok)
	assert.Equal(t, "6.5", priced.Price.String())
}

func TestPriceServiceFlatCharge(t *testing.T) {
	t.Run("uses zone row base when one matches", func(t *testing.T) {
		svc := standardService()
		svc.Scheme = domain.FlatCharge{}
		priced, ok := PriceService(&svc, []string{"SYD_METRO"}, 2, dec("50"))
		require.True(t, ok)
		assert.Equal(t, "6.5", priced.Price.String())
		assert.Equal(t, 2, priced.DeliveryDays)
	})

	t.Run("falls back to min charge without any zone", func(t *testing.T) {
		svc := standardService()
		svc.Scheme = domain.FlatCharge{}
		svc.MinCharge = dec("7.00")
		svc.DefaultDeliveryDays = 5
		priced, ok := PriceService(&svc, nil, 2, dec("50"))
		require.True(t, ok)
		// raw 7.00; levy -> 7.70; +1.00 -> 8.70
		assert.Equal(t, "8.7", priced.Price.String())
		assert.Equal(t, 5, priced.DeliveryDays)
		assert.Empty(t, priced.ZoneCode)
		assert.Empty(t, priced.RateBand())
	})
}

func TestPriceServiceCartTotal(t *testing.T) {
	tiers := []domain.CartTotalTier{
		{MinSubtotal: dec("0"), MaxSubtotal: decp("49.99"), Amount: dec("12.00"), DeliveryDays: 4},
		{MinSubtotal: dec("50"), MaxSubtotal: nil, Amount: dec("6.00"), DeliveryDays: 4},
	}
	svc := domain.ShippingService{
		ID:     "tiered",
		Scheme: domain.CartTotalCharge{Tiers: tiers},
		Active: true,
	}

	t.Run("subtotal selects tier", func(t *testing.T) {
		priced, ok := PriceService(&svc, nil, 2, dec("30"))
		require.True(t, ok)
		assert.Equal(t, "12", priced.Price.String())

		priced, ok = PriceService(&svc, nil, 2, dec("80"))
		require.True(t, ok)
		assert.Equal(t, "6", priced.Price.String())
		assert.Equal(t, 4, priced.DeliveryDays)
	})

	t.Run("overlapping tiers resolve to the tightest", func(t *testing.T) {
		overlapping := svc
		overlapping.Scheme = domain.CartTotalCharge{Tiers: []domain.CartTotalTier{
			{MinSubtotal: dec("0"), MaxSubtotal: nil, Amount: dec("20.00")},
			{MinSubtotal: dec("0"), MaxSubtotal: decp("100"), Amount: dec("10.00")},
		}}
		priced, ok := PriceService(&overlapping, nil, 2, dec("50"))
		require.True(t, ok)
		assert.Equal(t, "10", priced.Price.String())
	})

	t.Run("no tier table means unavailable", func(t *testing.T) {
		empty := svc
		empty.Scheme = domain.CartTotalCharge{}
		_, ok := PriceService(&empty, nil, 2, dec("30"))
		assert.False(t, ok)
	})
}

func TestPriceServiceAvailability(t *testing.T) {
	t.Run("inactive service", func(t *testing.T) {
		svc := standardService()
		svc.Active = false
		_, ok := PriceService(&svc, []string{"SYD_METRO"}, 2, dec("50"))
		assert.False(t, ok)
	})

	t.Run("no rate row for any candidate zone", func(t *testing.T) {
		svc := standardService()
		_, ok := PriceService(&svc, []string{"VIC_METRO"}, 2, dec("50"))
		assert.False(t, ok)
	})

	t.Run("zone-scoped service with no resolved zones", func(t *testing.T) {
		svc := standardService()
		_, ok := PriceService(&svc, nil, 2, dec("50"))
		assert.False(t, ok)
	})
}

func TestPriceServicePicksCheapestZone(t *testing.T) {
	svc := standardService()
	svc.Rates = append(svc.Rates, domain.Rate{
		ID:           "cheap",
		ZoneCode:     "NSW_REGIONAL",
		MinWeight:    0,
		MaxWeight:    5,
		BaseRate:     dec("1.00"),
		PerKgRate:    dec("0.50"),
		DeliveryDays: 6,
		Active:       true,
	})

	priced, ok := PriceService(&svc, []string{"SYD_METRO", "NSW_REGIONAL"}, 2, dec("50"))
	require.True(t, ok)
	// regional: raw 1.00+0.50*2 = 2.00; levy -> 2.20; +1.00 -> 3.20
	assert.Equal(t, "3.2", priced.Price.String())
	assert.Equal(t, "NSW_REGIONAL", priced.ZoneCode)
	assert.Equal(t, 6, priced.DeliveryDays)
}

func TestCategoryEligible(t *testing.T) {
	restricted := standardService()
	restricted.CategoryIDs = []string{"bulky", "standard"}

	t.Run("unrestricted service ships anything", func(t *testing.T) {
		svc := standardService()
		ok := CategoryEligible(&svc, []domain.CartItem{{CategoryID: "whatever"}}, "")
		assert.True(t, ok)
	})

	t.Run("all items must be covered", func(t *testing.T) {
		items := []domain.CartItem{{CategoryID: "bulky"}, {CategoryID: "standard"}}
		assert.True(t, CategoryEligible(&restricted, items, ""))

		items = append(items, domain.CartItem{CategoryID: "fragile"})
		assert.False(t, CategoryEligible(&restricted, items, ""))
	})

	t.Run("uncategorised items use the merchant default", func(t *testing.T) {
		items := []domain.CartItem{{CategoryID: ""}}
		assert.True(t, CategoryEligible(&restricted, items, "standard"))
		assert.False(t, CategoryEligible(&restricted, items, "fragile"))
		assert.False(t, CategoryEligible(&restricted, items, ""))
	})
}
