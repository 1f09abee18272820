package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipquote-backend/internal/domain"
	memcache "shipquote-backend/internal/infrastructure/cache"
	"shipquote-backend/internal/usecase"
)

func adminHandlerUnderTest() *AdminShippingHandler {
	uc := usecase.NewQuoteUsecase(&stubSnapshotRepo{}, memcache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	return NewAdminShippingHandler(uc)
}

const previewBody = `{
	"snapshot": {
		"zones": [{
			"code": "SYD_METRO",
			"country": "AU",
			"matchers": ["2000-2050"],
			"isActive": true
		}],
		"services": [{
			"id": "standard",
			"chargeType": "weight",
			"minCharge": 3,
			"handlingFee": 1,
			"fuelLevyPercent": 10,
			"isActive": true,
			"rates": [{
				"zoneCode": "SYD_METRO",
				"minWeight": 0,
				"maxWeight": 5,
				"baseRate": 5,
				"perKgRate": 2,
				"deliveryDays": 2,
				"isActive": true
			}]
		}],
		"options": [{
			"id": "opt_standard",
			"name": "Standard Delivery",
			"serviceIds": ["standard"],
			"sortOrder": 1,
			"isActive": true
		}]
	},
	"order": {
		"postcode": "2010",
		"country": "AU",
		"subtotal": 50,
		"items": [{"weight": 2}]
	}
}`

func TestPreviewQuotes(t *testing.T) {
	h := adminHandlerUnderTest()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/shipping/preview", strings.NewReader(previewBody))
	rec := httptest.NewRecorder()
	h.PreviewQuotes(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var quotes []domain.QuotedOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotes))
	require.Len(t, quotes, 1)
	assert.Equal(t, "10.9", quotes[0].Price.String())
	assert.Equal(t, "SYD_METRO", quotes[0].ZoneCode)
	assert.Equal(t, "0-5kg", quotes[0].RateBand)
}

func TestPreviewQuotesRejectsMalformedMatcher(t *testing.T) {
	h := adminHandlerUnderTest()
	body := strings.Replace(previewBody, `"2000-2050"`, `"2050-2000"`, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/shipping/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.PreviewQuotes(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "range start exceeds end")
}

func TestPreviewQuotesRejectsUnknownChargeType(t *testing.T) {
	h := adminHandlerUnderTest()
	body := strings.Replace(previewBody, `"chargeType": "weight"`, `"chargeType": "teleport"`, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/shipping/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.PreviewQuotes(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown charge type")
}

func TestInvalidateSnapshot(t *testing.T) {
	h := adminHandlerUnderTest()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/shipping/cache/invalidate", nil)
	rec := httptest.NewRecorder()
	h.InvalidateSnapshot(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
