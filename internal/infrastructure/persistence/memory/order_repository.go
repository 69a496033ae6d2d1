// Package memory provides in-process repository implementations backed by
// mutex-guarded maps. They honor the same optimistic-locking contract as the
// GORM repositories and back the memory database driver and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantmarket/backend/internal/domain/shared"
	"github.com/verdantmarket/backend/internal/domain/vendor"
)

// OrderRepository is an in-memory vendor.OrderRepository
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*vendor.VendorOrder
}

// NewOrderRepository creates an empty in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uuid.UUID]*vendor.VendorOrder)}
}

func cloneOrder(o *vendor.VendorOrder) *vendor.VendorOrder {
	c := *o
	c.Items = append([]vendor.OrderItem(nil), o.Items...)
	c.Addresses = append([]vendor.OrderAddress(nil), o.Addresses...)
	return &c
}

// FindByID finds an order by its ID
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.VendorOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(order), nil
}

// FindByIDForVendor finds an order by ID within one vendor's ledger
func (r *OrderRepository) FindByIDForVendor(ctx context.Context, vendorID, id uuid.UUID) (*vendor.VendorOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.VendorID != vendorID {
		return nil, shared.ErrNotFound
	}
	return cloneOrder(order), nil
}

// FindByOrderNumber finds an order by its globally unique order number
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*vendor.VendorOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return cloneOrder(order), nil
		}
	}
	return nil, shared.ErrNotFound
}

func matchesOrderFilter(order *vendor.VendorOrder, filter shared.Filter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(order.OrderNumber), needle) &&
			!strings.Contains(strings.ToLower(order.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(order.CustomerEmail), needle) {
			return false
		}
	}
	for key, value := range filter.Filters {
		switch key {
		case vendor.OrderFilterStatus:
			if s, ok := value.(string); ok && order.Status.String() != s {
				return false
			}
		case vendor.OrderFilterPaymentStatus:
			if s, ok := value.(string); ok && order.PaymentStatus.String() != s {
				return false
			}
		}
	}
	if filter.DateFrom != nil && order.CreatedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && order.CreatedAt.After(*filter.DateTo) {
		return false
	}
	return true
}

func (r *OrderRepository) collect(vendorID uuid.UUID, filter shared.Filter) []vendor.VendorOrder {
	var matched []vendor.VendorOrder
	for _, order := range r.orders {
		if order.VendorID == vendorID && matchesOrderFilter(order, filter) {
			matched = append(matched, *cloneOrder(order))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if strings.EqualFold(filter.OrderDir, "asc") {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

// FindAllForVendor finds all orders for a vendor with filtering
func (r *OrderRepository) FindAllForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]vendor.VendorOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(vendorID, filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		start := filter.Offset()
		if start >= len(matched) {
			return []vendor.VendorOrder{}, nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, nil
}

// CountForVendor counts orders for a vendor with optional filters
func (r *OrderRepository) CountForVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, order := range r.orders {
		if order.VendorID == vendorID && matchesOrderFilter(order, filter) {
			count++
		}
	}
	return count, nil
}

// Save creates or updates an order unconditionally
func (r *OrderRepository) Save(ctx context.Context, order *vendor.VendorOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// SaveWithLock saves only when the caller's version still matches the stored
// one; the stored version is incremented on success.
func (r *OrderRepository) SaveWithLock(ctx context.Context, order *vendor.VendorOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != order.Version {
		return shared.ErrConcurrencyConflict
	}

	order.Version++
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// GetStats computes order statistics for a vendor
func (r *OrderRepository) GetStats(ctx context.Context, vendorID uuid.UUID, period vendor.StatsPeriod, now time.Time) (*vendor.OrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := period.Start(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &vendor.OrderStats{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		RevenueThisMonth:  decimal.Zero,
	}
	for _, order := range r.orders {
		if order.VendorID != vendorID {
			continue
		}

		if order.CountsTowardRevenue() && !order.CreatedAt.Before(monthStart) {
			stats.OrdersThisMonth++
			stats.RevenueThisMonth = stats.RevenueThisMonth.Add(order.TotalAmount)
		}

		if !start.IsZero() && order.CreatedAt.Before(start) {
			continue
		}

		stats.TotalOrders++
		switch order.Status {
		case vendor.OrderStatusPending:
			stats.PendingOrders++
		case vendor.OrderStatusProcessing:
			stats.ProcessingOrders++
		case vendor.OrderStatusShipped:
			stats.ShippedOrders++
		case vendor.OrderStatusDelivered:
			stats.DeliveredOrders++
		case vendor.OrderStatusCancelled:
			stats.CancelledOrders++
		}
		if order.CountsTowardRevenue() {
			stats.TotalRevenue = stats.TotalRevenue.Add(order.TotalAmount)
		}
	}

	// The average spreads revenue over every order in the window, cancelled
	// and returned ones included.
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			Div(decimal.NewFromInt(stats.TotalOrders)).
			Round(2)
	}

	return stats, nil
}

// HasItemsForProduct reports whether any order line item references the product
func (r *OrderRepository) HasItemsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Ensure OrderRepository implements vendor.OrderRepository
var _ vendor.OrderRepository = (*OrderRepository)(nil)
