package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"shipquote-backend/internal/domain"
	"shipquote-backend/internal/usecase"
	"shipquote-backend/pkg/logger"
	"shipquote-backend/pkg/utils"
)

type QuoteHandler struct {
	quoteUC       *usecase.QuoteUsecase
	maxQuoteItems int
}

func NewQuoteHandler(uc *usecase.QuoteUsecase, maxQuoteItems int) *QuoteHandler {
	return &QuoteHandler{
		quoteUC:       uc,
		maxQuoteItems: maxQuoteItems,
	}
}

type quoteItemReq struct {
	Weight      float64 `json:"weight"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	CategoryID  string  `json:"categoryId"`
	PackageCode string  `json:"packageCode"`
}

type quoteReq struct {
	Postcode string          `json:"postcode"`
	Country  string          `json:"country"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Items    []quoteItemReq  `json:"items"`
}

func (q quoteReq) toOrder() *domain.OrderShippingContext {
	order := &domain.OrderShippingContext{
		Postcode: q.Postcode,
		Country:  q.Country,
		Subtotal: q.Subtotal,
		Items:    make([]domain.CartItem, 0, len(q.Items)),
	}
	for _, item := range q.Items {
		order.Items = append(order.Items, domain.CartItem{
			WeightKg:    item.Weight,
			LengthCm:    item.Length,
			WidthCm:     item.Width,
			HeightCm:    item.Height,
			CategoryID:  item.CategoryID,
			PackageCode: item.PackageCode,
		})
	}
	return order
}

// GetQuotes handles POST /api/v1/shipping/quote for the storefront
// checkout. An empty list is a valid answer ("no shipping available"),
// not an error.
func (h *QuoteHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	var req quoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Postcode == "" {
		utils.WriteError(w, http.StatusBadRequest, "Destination postcode is required")
		return
	}
	if len(req.Items) > h.maxQuoteItems {
		utils.WriteError(w, http.StatusBadRequest, "Too many items in quote request")
		return
	}

	quotes, err := h.quoteUC.GetQuotes(r.Context(), req.toOrder())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCartData):
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrSnapshotUnavailable):
			logger.WithContext(r.Context()).Error().Err(err).Msg("Quote failed: configuration unavailable")
			utils.WriteError(w, http.StatusServiceUnavailable, "Shipping configuration unavailable")
		default:
			logger.WithContext(r.Context()).Error().Err(err).Msg("Quote failed")
			utils.WriteError(w, http.StatusInternalServerError, "Failed to compute shipping quotes")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, quotes)
}
