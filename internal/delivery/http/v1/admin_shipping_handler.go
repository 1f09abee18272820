package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"shipquote-backend/internal/domain"
	"shipquote-backend/internal/usecase"
	"shipquote-backend/pkg/utils"
)

// AdminShippingHandler serves the merchant-facing tooling around the
// quote engine: previewing unsaved configuration and invalidating the
// cached snapshot after the external CRUD system writes an edit.
type AdminShippingHandler struct {
	quoteUC *usecase.QuoteUsecase
}

func NewAdminShippingHandler(uc *usecase.QuoteUsecase) *AdminShippingHandler {
	return &AdminShippingHandler{quoteUC: uc}
}

// The preview body carries configuration in its loosely-typed wire
// form (charge type as a string plus optional fields); it is converted
// to the tagged charge-scheme variants before the engine sees it.

type previewZoneReq struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Country  string   `json:"country"`
	Matchers []string `json:"matchers"`
	Active   bool     `json:"isActive"`
}

type previewRateReq struct {
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

type previewTierReq struct {
	MinSubtotal  decimal.Decimal  `json:"minSubtotal"`
	MaxSubtotal  *decimal.Decimal `json:"maxSubtotal"`
	Amount       decimal.Decimal  `json:"amount"`
	DeliveryDays int              `json:"deliveryDays"`
}

type previewServiceReq struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Carrier             string           `json:"carrier"`
	ChargeType          string           `json:"chargeType"`
	CubicDivisor        float64          `json:"cubicDivisor"`
	CartTotalTiers      []previewTierReq `json:"cartTotalTiers"`
	MinCharge           decimal.Decimal  `json:"minCharge"`
	MaxCharge           *decimal.Decimal `json:"maxCharge"`
	HandlingFee         decimal.Decimal  `json:"handlingFee"`
	FuelLevyPercent     decimal.Decimal  `json:"fuelLevyPercent"`
	CategoryIDs         []string         `json:"categoryIds"`
	DefaultDeliveryDays int              `json:"defaultDeliveryDays"`
	Active              bool             `json:"isActive"`
	Rates               []previewRateReq `json:"rates"`
}

type previewSnapshotReq struct {
	Zones      []previewZoneReq           `json:"zones"`
	Categories []domain.ShippingCategory  `json:"categories"`
	Services   []previewServiceReq        `json:"services"`
	Options    []domain.ShippingOption    `json:"options"`
	Packages   []domain.PredefinedPackage `json:"packages"`
}

type previewReq struct {
	Snapshot previewSnapshotReq `json:"snapshot"`
	Order    quoteReq           `json:"order"`
}

func (p previewSnapshotReq) toSnapshot() (*domain.ShippingSnapshot, error) {
	snap := &domain.ShippingSnapshot{
		Categories: p.Categories,
		Options:    p.Options,
		Packages:   p.Packages,
	}

	for _, z := range p.Zones {
		zone := domain.Zone{
			Code:    z.Code,
			Name:    z.Name,
			Country: z.Country,
			Active:  z.Active,
		}
		for _, raw := range z.Matchers {
			m, err := domain.ParsePostcodeMatcher(raw)
			if err != nil {
				return nil, fmt.Errorf("zone %s: %w", z.Code, err)
			}
			zone.Matchers = append(zone.Matchers, m)
		}
		snap.Zones = append(snap.Zones, zone)
	}

	for _, s := range p.Services {
		scheme, err := s.scheme()
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", s.ID, err)
		}
		svc := domain.ShippingService{
			ID:                  s.ID,
			Name:                s.Name,
			Carrier:             s.Carrier,
			Scheme:              scheme,
			MinCharge:           s.MinCharge,
			MaxCharge:           s.MaxCharge,
			HandlingFee:         s.HandlingFee,
			FuelLevyPercent:     s.FuelLevyPercent,
			CategoryIDs:         s.CategoryIDs,
			DefaultDeliveryDays: s.DefaultDeliveryDays,
			Active:              s.Active,
		}
		for _, r := range s.Rates {
			svc.Rates = append(svc.Rates, domain.Rate{
				ID:           r.ID,
				ZoneCode:     r.ZoneCode,
				ZoneName:     r.ZoneName,
				MinWeight:    r.MinWeight,
				MaxWeight:    r.MaxWeight,
				BaseRate:     r.BaseRate,
				PerKgRate:    r.PerKgRate,
				DeliveryDays: r.DeliveryDays,
				Active:       r.Active,
			})
		}
		snap.Services = append(snap.Services, svc)
	}

	return snap, nil
}

func (s previewServiceReq) scheme() (domain.ChargeScheme, error) {
	switch s.ChargeType {
	case domain.ChargeTypeWeight:
		return domain.WeightCharge{}, nil
	case domain.ChargeTypeCubic:
		return domain.CubicCharge{Divisor: s.CubicDivisor}, nil
	case domain.ChargeTypeFixed:
		return domain.FixedCharge{}, nil
	case domain.ChargeTypeFlat:
		return domain.FlatCharge{}, nil
	case domain.ChargeTypeCartTotal:
		tiers := make([]domain.CartTotalTier, 0, len(s.CartTotalTiers))
		for _, t := range s.CartTotalTiers {
			tiers = append(tiers, domain.CartTotalTier{
				MinSubtotal:  t.MinSubtotal,
				MaxSubtotal:  t.MaxSubtotal,
				Amount:       t.Amount,
				DeliveryDays: t.DeliveryDays,
			})
		}
		return domain.CartTotalCharge{Tiers: tiers}, nil
	default:
		return nil, fmt.Errorf("unknown charge type %q", s.ChargeType)
	}
}

// PreviewQuotes handles POST /api/v1/admin/shipping/preview: it runs
// the engine against an inline configuration so merchants can test
// edits before saving. Responses include the winning zone and rate
// band per option.
func (h *AdminShippingHandler) PreviewQuotes(w http.ResponseWriter, r *http.Request) {
	var req previewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := req.Snapshot.toSnapshot()
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	quotes, err := h.quoteUC.PreviewQuotes(snap, req.Order.toOrder())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCartData) {
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Preview failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, quotes)
}

// InvalidateSnapshot handles POST /api/v1/admin/shipping/cache/invalidate.
// The merchant configuration system calls it after every shipping edit.
func (h *AdminShippingHandler) InvalidateSnapshot(w http.ResponseWriter, r *http.Request) {
	h.quoteUC.InvalidateSnapshot()
	w.WriteHeader(http.StatusNoContent)
}
