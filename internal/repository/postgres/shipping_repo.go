package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"shipquote-backend/internal/domain"
)

// shippingRepository reads the merchant's shipping configuration into
// an immutable snapshot. The configuration tables are owned by the
// external merchant CRUD system; this side never writes them.
type shippingRepository struct {
	db                  *pgxpool.Pool
	defaultCubicDivisor float64
}

func NewShippingRepository(db *pgxpool.Pool, defaultCubicDivisor float64) domain.SnapshotRepository {
	return &shippingRepository{
		db:                  db,
		defaultCubicDivisor: defaultCubicDivisor,
	}
}

func (r *shippingRepository) LoadSnapshot(ctx context.Context) (*domain.ShippingSnapshot, error) {
	snap := &domain.ShippingSnapshot{}

	zones, err := r.loadZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	snap.Zones = zones

	categories, err := r.loadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	snap.Categories = categories

	services, err := r.loadServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	snap.Services = services

	options, err := r.loadOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	snap.Options = options

	packages, err := r.loadPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	snap.Packages = packages

	return snap, nil
}

func (r *shippingRepository) loadZones(ctx context.Context) ([]domain.Zone, error) {
	rows, err := r.db.Query(ctx, `
		SELECT code, name, COALESCE(country, ''), matchers, is_active
		FROM shipping_zones
		ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		var z domain.Zone
		var raw []string
		if err := rows.Scan(&z.Code, &z.Name, &z.Country, &raw, &z.Active); err != nil {
			return nil, err
		}
		// Matchers are validated here, at configuration load, so the
		// per-request path never parses range strings.
		z.Matchers = make([]domain.PostcodeMatcher, 0, len(raw))
		for _, s := range raw {
			m, err := domain.ParsePostcodeMatcher(s)
			if err != nil {
				return nil, fmt.Errorf("zone %s: %w", z.Code, err)
			}
			z.Matchers = append(z.Matchers, m)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (r *shippingRepository) loadCategories(ctx context.Context) ([]domain.ShippingCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, is_default
		FROM shipping_categories
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.ShippingCategory
	for rows.Next() {
		var c domain.ShippingCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Default); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *shippingRepository) loadServices(ctx context.Context) ([]domain.ShippingService, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE(carrier, ''), charge_type,
		       min_charge, max_charge, handling_fee, fuel_levy_percent,
		       COALESCE(cubic_divisor, 0), COALESCE(category_ids, '{}'),
		       COALESCE(default_delivery_days, 0), is_active
		FROM shipping_services
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.ShippingService
	chargeTypes := make(map[string]string)
	divisors := make(map[string]float64)
	for rows.Next() {
		var (
			svc        domain.ShippingService
			chargeType string
			minCharge  pgtype.Numeric
			maxCharge  pgtype.Numeric
			handling   pgtype.Numeric
			fuelLevy   pgtype.Numeric
			divisor    float64
		)
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Carrier, &chargeType,
			&minCharge, &maxCharge, &handling, &fuelLevy,
			&divisor, &svc.CategoryIDs, &svc.DefaultDeliveryDays, &svc.Active); err != nil {
			return nil, err
		}
		svc.MinCharge = numericToDecimal(minCharge)
		svc.MaxCharge = numericToDecimalPtr(maxCharge)
		svc.HandlingFee = numericToDecimal(handling)
		svc.FuelLevyPercent = numericToDecimal(fuelLevy)
		chargeTypes[svc.ID] = chargeType
		divisors[svc.ID] = divisor
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachRates(ctx, services); err != nil {
		return nil, err
	}
	tiers, err := r.loadCartTotalTiers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range services {
		svc := &services[i]
		svc.Scheme, err = r.buildScheme(chargeTypes[svc.ID], divisors[svc.ID], tiers[svc.ID])
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.ID, err)
		}
	}
	return services, nil
}

func (r *shippingRepository) buildScheme(chargeType string, divisor float64, tiers []domain.CartTotalTier) (domain.ChargeScheme, error) {
	switch chargeType {
	case domain.ChargeTypeWeight:
		return domain.WeightCharge{}, nil
	case domain.ChargeTypeCubic:
		if divisor <= 0 {
			divisor = r.defaultCubicDivisor
		}
		return domain.CubicCharge{Divisor: divisor}, nil
	case domain.ChargeTypeFixed:
		return domain.FixedCharge{}, nil
	case domain.ChargeTypeFlat:
		return domain.FlatCharge{}, nil
	case domain.ChargeTypeCartTotal:
		return domain.CartTotalCharge{Tiers: tiers}, nil
	default:
		return nil, fmt.Errorf("unknown charge type %q", chargeType)
	}
}

func (r *shippingRepository) attachRates(ctx context.Context, services []domain.ShippingService) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, service_id, zone_code, COALESCE(zone_name, ''),
		       min_weight, max_weight, base_rate, per_kg_rate,
		       COALESCE(delivery_days, 0), is_active
		FROM shipping_rates
		ORDER BY service_id, zone_code, min_weight`)
	if err != nil {
		return err
	}
	defer rows.Close()

	byService := make(map[string][]domain.Rate)
	for rows.Next() {
		var (
			rate      domain.Rate
			serviceID string
			baseRate  pgtype.Numeric
			perKgRate pgtype.Numeric
		)
		if err := rows.Scan(&rate.ID, &serviceID, &rate.ZoneCode, &rate.ZoneName,
			&rate.MinWeight, &rate.MaxWeight, &baseRate, &perKgRate,
			&rate.DeliveryDays, &rate.Active); err != nil {
			return err
		}
		rate.BaseRate = numericToDecimal(baseRate)
		rate.PerKgRate = numericToDecimal(perKgRate)
		byService[serviceID] = append(byService[serviceID], rate)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range services {
		services[i].Rates = byService[services[i].ID]
	}
	return nil
}

func (r *shippingRepository) loadCartTotalTiers(ctx context.Context) (map[string][]domain.CartTotalTier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT service_id, min_subtotal, max_subtotal, amount, COALESCE(delivery_days, 0)
		FROM shipping_cart_total_tiers
		ORDER BY service_id, min_subtotal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := make(map[string][]domain.CartTotalTier)
	for rows.Next() {
		var (
			serviceID   string
			tier        domain.CartTotalTier
			minSubtotal pgtype.Numeric
			maxSubtotal pgtype.Numeric
			amount      pgtype.Numeric
		)
		if err := rows.Scan(&serviceID, &minSubtotal, &maxSubtotal, &amount, &tier.DeliveryDays); err != nil {
			return nil, err
		}
		tier.MinSubtotal = numericToDecimal(minSubtotal)
		tier.MaxSubtotal = numericToDecimalPtr(maxSubtotal)
		tier.Amount = numericToDecimal(amount)
		tiers[serviceID] = append(tiers[serviceID], tier)
	}
	return tiers, rows.Err()
}

func (r *shippingRepository) loadOptions(ctx context.Context) ([]domain.ShippingOption, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(routing_group, ''),
		       COALESCE(service_ids, '{}'), free_shipping_threshold,
		       COALESCE(free_shipping_zones, '{}'), sort_order, is_active
		FROM shipping_options
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []domain.ShippingOption
	for rows.Next() {
		var (
			opt       domain.ShippingOption
			threshold pgtype.Numeric
		)
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.Description, &opt.RoutingGroup,
			&opt.ServiceIDs, &threshold, &opt.FreeShippingZones,
			&opt.SortOrder, &opt.Active); err != nil {
			return nil, err
		}
		opt.FreeShippingThreshold = numericToDecimalPtr(threshold)
		options = append(options, opt)
	}
	return options, rows.Err()
}

func (r *shippingRepository) loadPackages(ctx context.Context) ([]domain.PredefinedPackage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT code, length_cm, width_cm, height_cm, max_weight_kg, tare_weight_kg
		FROM shipping_packages
		ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []domain.PredefinedPackage
	for rows.Next() {
		var p domain.PredefinedPackage
		if err := rows.Scan(&p.Code, &p.LengthCm, &p.WidthCm, &p.HeightCm, &p.MaxWeightKg, &p.TareWeightKg); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}
