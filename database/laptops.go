package database

import (
	"fmt"
	"strings"

	"laptoppos/auth"
)

// LaptopUpdate carries a partial update; nil fields are left untouched.
type LaptopUpdate struct {
	Brand             *string  `json:"brand"`
	Model             *string  `json:"model"`
	Processor         *string  `json:"processor"`
	RAM               *string  `json:"ram"`
	Storage           *string  `json:"storage"`
	GraphicsCard      *string  `json:"graphics_card"`
	ScreenSize        *string  `json:"screen_size"`
	Price             *float64 `json:"price"`
	Cost              *float64 `json:"cost"`
	Quantity          *int     `json:"quantity"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	Category          *string  `json:"category"`
	Supplier          *string  `json:"supplier"`
	WarrantyMonths    *int     `json:"warranty_months"`
	SerialNumber      *string  `json:"serial_number"`
}

func validateLaptop(l *Laptop) error {
	if strings.TrimSpace(l.Brand) == "" || strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("%w: brand and model are required", ErrValidation)
	}
	if l.Price < 0 || l.Cost < 0 {
		return fmt.Errorf("%w: price and cost must not be negative", ErrValidation)
	}
	if l.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if l.WarrantyMonths < 0 {
		return fmt.Errorf("%w: warranty months must not be negative", ErrValidation)
	}
	return nil
}

// AddLaptop validates and appends a new inventory record, assigning the
// next id and creation timestamp.
func (s *Store) AddLaptop(actor Actor, laptop Laptop) (*Laptop, error) {
	if err := requirePermission(actor, auth.PermManageInventory); err != nil {
		return nil, err
	}
	if err := validateLaptop(&laptop); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	laptop.ID = nextID(s.laptops)
	laptop.CreatedAt = s.now()
	s.laptops[laptop.ID] = &laptop
	if err := s.commit(func() { delete(s.laptops, laptop.ID) }); err != nil {
		return nil, err
	}
	created := laptop
	return &created, nil
}

// UpdateLaptop merges the non-nil fields of the update into the record.
func (s *Store) UpdateLaptop(actor Actor, id uint, update LaptopUpdate) (*Laptop, error) {
	if err := requirePermission(actor, auth.PermManageInventory); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	laptop, ok := s.laptops[id]
	if !ok {
		return nil, fmt.Errorf("%w: laptop %d", ErrNotFound, id)
	}
	previous := *laptop

	if update.Brand != nil {
		laptop.Brand = *update.Brand
	}
	if update.Model != nil {
		laptop.Model = *update.Model
	}
	if update.Processor != nil {
		laptop.Processor = *update.Processor
	}
	if update.RAM != nil {
		laptop.RAM = *update.RAM
	}
	if update.Storage != nil {
		laptop.Storage = *update.Storage
	}
	if update.GraphicsCard != nil {
		laptop.GraphicsCard = *update.GraphicsCard
	}
	if update.ScreenSize != nil {
		laptop.ScreenSize = *update.ScreenSize
	}
	if update.Price != nil {
		laptop.Price = *update.Price
	}
	if update.Cost != nil {
		laptop.Cost = *update.Cost
	}
	if update.Quantity != nil {
		laptop.Quantity = *update.Quantity
	}
	if update.LowStockThreshold != nil {
		laptop.LowStockThreshold = *update.LowStockThreshold
	}
	if update.Category != nil {
		laptop.Category = *update.Category
	}
	if update.Supplier != nil {
		laptop.Supplier = *update.Supplier
	}
	if update.WarrantyMonths != nil {
		laptop.WarrantyMonths = *update.WarrantyMonths
	}
	if update.SerialNumber != nil {
		laptop.SerialNumber = *update.SerialNumber
	}

	if err := validateLaptop(laptop); err != nil {
		*laptop = previous
		return nil, err
	}
	if err := s.commit(func() { *laptop = previous }); err != nil {
		return nil, err
	}
	updated := *laptop
	return &updated, nil
}

// DeleteLaptop removes an inventory record. Deletion is rejected while any
// sale still references the laptop.
func (s *Store) DeleteLaptop(actor Actor, id uint) error {
	if err := requirePermission(actor, auth.PermManageInventory); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	laptop, ok := s.laptops[id]
	if !ok {
		return fmt.Errorf("%w: laptop %d", ErrNotFound, id)
	}
	for _, sale := range s.sales {
		if sale.LaptopID == id {
			return fmt.Errorf("%w: laptop %d is referenced by sale %d", ErrReferenced, id, sale.ID)
		}
	}

	delete(s.laptops, id)
	entry := s.appendAuditLocked(actor, "delete_laptop",
		fmt.Sprintf("deleted laptop %d (%s %s)", id, laptop.Brand, laptop.Model))
	return s.commit(func() {
		s.laptops[id] = laptop
		delete(s.auditLogs, entry.ID)
	})
}

// GetLaptops returns the full inventory in insertion order.
func (s *Store) GetLaptops() []Laptop {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Laptop, 0, len(s.laptops))
	for _, id := range sortedIDs(s.laptops) {
		out = append(out, *s.laptops[id])
	}
	return out
}

// GetLaptop returns one inventory record by id.
func (s *Store) GetLaptop(id uint) (*Laptop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	laptop, ok := s.laptops[id]
	if !ok {
		return nil, fmt.Errorf("%w: laptop %d", ErrNotFound, id)
	}
	copy := *laptop
	return &copy, nil
}
