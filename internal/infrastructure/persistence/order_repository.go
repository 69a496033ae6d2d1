package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// GormOrderRepository implements vendor.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.VendorOrder, error) {
	var order vendor.VendorOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Addresses").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForVendor finds an order by ID within one vendor's ledger
func (r *GormOrderRepository) FindByIDForVendor(ctx context.Context, vendorID, id uuid.UUID) (*vendor.VendorOrder, error) {
	var order vendor.VendorOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Addresses").
		Where("vendor_id = ? AND id = ?", vendorID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its globally unique order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*vendor.VendorOrder, error) {
	var order vendor.VendorOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Addresses").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForVendor finds all orders for a vendor with filtering
func (r *GormOrderRepository) FindAllForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]vendor.VendorOrder, error) {
	var orders []vendor.VendorOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&vendor.VendorOrder{}).Where("vendor_id = ?", vendorID),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountForVendor counts orders for a vendor with optional filters
func (r *GormOrderRepository) CountForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&vendor.VendorOrder{}).Where("vendor_id = ?", vendorID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order with its items and addresses
func (r *GormOrderRepository) Save(ctx context.Context, order *vendor.VendorOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		for i := range order.Addresses {
			order.Addresses[i].OrderID = order.ID
			if err := tx.Save(&order.Addresses[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check).
// Line items and addresses are immutable after creation, so only the order
// row itself is written.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *vendor.VendorOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		result := tx.Model(&vendor.VendorOrder{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != order.Version {
			return shared.ErrConcurrencyConflict
		}

		order.Version++
		order.UpdatedAt = time.Now()

		update := tx.Model(&vendor.VendorOrder{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":                  order.Status,
				"payment_status":          order.PaymentStatus,
				"payment_method":          order.PaymentMethod,
				"payment_reference":       order.PaymentReference,
				"refunded_amount":         order.RefundedAmount,
				"notes":                   order.Notes,
				"tracking_number":         order.TrackingNumber,
				"shipping_carrier":        order.ShippingCarrier,
				"estimated_delivery_date": order.EstimatedDeliveryDate,
				"actual_delivery_date":    order.ActualDeliveryDate,
				"cancel_reason":           order.CancelReason,
				"refund_reason":           order.RefundReason,
				"return_reason":           order.ReturnReason,
				"return_notes":            order.ReturnNotes,
				"version":                 order.Version,
				"updated_at":              order.UpdatedAt,
			})

		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return nil
	})
}

// orderStatsRow is the scan target for the stats aggregate query
type orderStatsRow struct {
	TotalOrders      int64
	PendingOrders    int64
	ProcessingOrders int64
	ShippedOrders    int64
	DeliveredOrders  int64
	CancelledOrders  int64
	TotalRevenue     decimal.Decimal
}

// statsSelect aggregates order counts per status and revenue over orders that
// still count toward revenue (everything except cancelled and returned).
// CASE WHEN rather than FILTER keeps it portable between postgres and sqlite.
const statsSelect = `
COUNT(*) AS total_orders,
COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_orders,
COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) AS processing_orders,
COALESCE(SUM(CASE WHEN status = 'shipped' THEN 1 ELSE 0 END), 0) AS shipped_orders,
COALESCE(SUM(CASE WHEN status = 'delivered' THEN 1 ELSE 0 END), 0) AS delivered_orders,
COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_orders,
COALESCE(SUM(CASE WHEN status NOT IN ('cancelled', 'returned') THEN total_amount ELSE 0 END), 0) AS total_revenue`

// GetStats computes order statistics for a vendor. The period bounds the
// headline numbers; the this-month figures always cover the current calendar
// month.
func (r *GormOrderRepository) GetStats(ctx context.Context, vendorID uuid.UUID, period vendor.StatsPeriod, now time.Time) (*vendor.OrderStats, error) {
	query := r.db.WithContext(ctx).Model(&vendor.VendorOrder{}).Where("vendor_id = ?", vendorID)
	if start := period.Start(now); !start.IsZero() {
		query = query.Where("created_at >= ?", start)
	}

	var row orderStatsRow
	if err := query.Select(statsSelect).Scan(&row).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthRow struct {
		RevenueOrders int64
		TotalRevenue  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&vendor.VendorOrder{}).
		Where("vendor_id = ? AND created_at >= ?", vendorID, monthStart).
		Select(`COALESCE(SUM(CASE WHEN status NOT IN ('cancelled', 'returned') THEN 1 ELSE 0 END), 0) AS revenue_orders,
COALESCE(SUM(CASE WHEN status NOT IN ('cancelled', 'returned') THEN total_amount ELSE 0 END), 0) AS total_revenue`).
		Scan(&monthRow).Error; err != nil {
		return nil, err
	}

	stats := &vendor.OrderStats{
		TotalOrders:      row.TotalOrders,
		PendingOrders:    row.PendingOrders,
		ProcessingOrders: row.ProcessingOrders,
		ShippedOrders:    row.ShippedOrders,
		DeliveredOrders:  row.DeliveredOrders,
		CancelledOrders:  row.CancelledOrders,
		TotalRevenue:     row.TotalRevenue,
		OrdersThisMonth:  monthRow.RevenueOrders,
		RevenueThisMonth: monthRow.TotalRevenue,
	}
	// The average spreads revenue over every order in the window, cancelled
	// and returned ones included.
	if row.TotalOrders > 0 {
		stats.AverageOrderValue = row.TotalRevenue.
			Div(decimal.NewFromInt(row.TotalOrders)).
			Round(2)
	}

	return stats, nil
}

// HasItemsForProduct reports whether any order line item references the product
func (r *GormOrderRepository) HasItemsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&vendor.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"order_number LIKE ? OR LOWER(customer_name) LIKE LOWER(?) OR LOWER(customer_email) LIKE LOWER(?)",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case vendor.OrderFilterStatus:
			query = query.Where("status = ?", value)
		case vendor.OrderFilterPaymentStatus:
			query = query.Where("payment_status = ?", value)
		}
	}

	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ vendor.OrderRepository = (*GormOrderRepository)(nil)
