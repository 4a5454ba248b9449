// Package store is the CRUD persistence contract for canonical orders,
// keyed by order id. The sync engine consumes only the OrderStore
// interface; the gorm implementation below is what production runs.
package store

import (
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"

	"doucetentation/internal/models"
)

// ErrNotFound is returned when no order exists under the requested id.
var ErrNotFound = errors.New("order not found")

// OrderStore is the persistence contract for canonical orders.
type OrderStore interface {
	GetAll() ([]models.Order, error)
	Get(id string) (*models.Order, error)
	// Create persists a new order. It acts as an idempotent upsert by id:
	// creating an id that already exists replaces that record.
	Create(order models.Order) (*models.Order, error)
	Update(id string, order models.Order) (*models.Order, error)
	Delete(id string) (bool, error)
}

// GormStore is the database-backed OrderStore.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetAll returns every order with its items, sorted by calendar date.
func (s *GormStore) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Order("date, time").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}
	return orders, nil
}

// Get returns one order by id.
func (s *GormStore) Get(id string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("id = ?", id).First(&order).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading order %s: %w", id, err)
	}
	return &order, nil
}

// Create persists an order, replacing any existing record with the same id.
func (s *GormStore) Create(order models.Order) (*models.Order, error) {
	var existing models.Order
	err := s.db.Where("id = ?", order.ID).First(&existing).Error
	switch {
	case gorm.IsRecordNotFoundError(err):
		if err := s.db.Create(&order).Error; err != nil {
			return nil, fmt.Errorf("creating order %s: %w", order.ID, err)
		}
		return &order, nil
	case err != nil:
		return nil, fmt.Errorf("checking order %s: %w", order.ID, err)
	default:
		return s.replace(&existing, order)
	}
}

// Update applies new field values to an existing order. Returns ErrNotFound
// when no order exists under the id.
func (s *GormStore) Update(id string, order models.Order) (*models.Order, error) {
	var existing models.Order
	err := s.db.Where("id = ?", id).First(&existing).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading order %s: %w", id, err)
	}
	return s.replace(&existing, order)
}

// replace overwrites an existing record's fields and items.
func (s *GormStore) replace(existing *models.Order, order models.Order) (*models.Order, error) {
	order.ID = existing.ID
	order.CreatedAt = existing.CreatedAt

	if err := s.db.Where("order_id = ?", existing.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return nil, fmt.Errorf("clearing items of order %s: %w", existing.ID, err)
	}
	for i := range order.Items {
		order.Items[i].ID = 0
		order.Items[i].OrderID = existing.ID
	}
	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("saving order %s: %w", existing.ID, err)
	}
	return &order, nil
}

// Delete removes an order and its items. The bool reports whether an order
// existed under the id.
func (s *GormStore) Delete(id string) (bool, error) {
	var order models.Order
	err := s.db.Where("id = ?", id).First(&order).Error
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading order %s: %w", id, err)
	}
	if err := s.db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return false, fmt.Errorf("deleting items of order %s: %w", id, err)
	}
	if err := s.db.Delete(&order).Error; err != nil {
		return false, fmt.Errorf("deleting order %s: %w", id, err)
	}
	return true, nil
}
