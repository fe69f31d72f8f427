package database

import (
	"fmt"
	"strings"

	"laptoppos/auth"
)

// CustomerUpdate carries a partial update; nil fields are left untouched.
type CustomerUpdate struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	PreferredBrands *string `json:"preferred_brands"`
	Notes           *string `json:"notes"`
}

func validateCustomer(c *Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if strings.TrimSpace(c.Email) == "" || !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	return nil
}

// emailTakenLocked reports whether another customer already uses the email,
// compared case-insensitively. Caller must hold s.mu.
func (s *Store) emailTakenLocked(email string, exclude uint) bool {
	for _, c := range s.customers {
		if c.ID != exclude && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

// AddCustomer validates and appends a new customer. Email uniqueness is
// enforced here at the store boundary, not left to the caller.
func (s *Store) AddCustomer(actor Actor, customer Customer) (*Customer, error) {
	if err := requirePermission(actor, auth.PermManageCustomers); err != nil {
		return nil, err
	}
	if err := validateCustomer(&customer); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(customer.Email, 0) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, customer.Email)
	}
	customer.ID = nextID(s.customers)
	customer.CreatedAt = s.now()
	s.customers[customer.ID] = &customer
	if err := s.commit(func() { delete(s.customers, customer.ID) }); err != nil {
		return nil, err
	}
	created := customer
	return &created, nil
}

// UpdateCustomer merges the non-nil fields of the update into the record.
func (s *Store) UpdateCustomer(actor Actor, id uint, update CustomerUpdate) (*Customer, error) {
	if err := requirePermission(actor, auth.PermManageCustomers); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
	}
	previous := *customer

	if update.Name != nil {
		customer.Name = *update.Name
	}
	if update.Email != nil {
		customer.Email = *update.Email
	}
	if update.Phone != nil {
		customer.Phone = *update.Phone
	}
	if update.Address != nil {
		customer.Address = *update.Address
	}
	if update.PreferredBrands != nil {
		customer.PreferredBrands = *update.PreferredBrands
	}
	if update.Notes != nil {
		customer.Notes = *update.Notes
	}

	if err := validateCustomer(customer); err != nil {
		*customer = previous
		return nil, err
	}
	if s.emailTakenLocked(customer.Email, id) {
		email := customer.Email
		*customer = previous
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}
	if err := s.commit(func() { *customer = previous }); err != nil {
		return nil, err
	}
	updated := *customer
	return &updated, nil
}

// DeleteCustomer removes a customer unless sales or installments still
// reference them.
func (s *Store) DeleteCustomer(actor Actor, id uint) error {
	if err := requirePermission(actor, auth.PermManageCustomers); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.customers[id]
	if !ok {
		return fmt.Errorf("%w: customer %d", ErrNotFound, id)
	}
	for _, sale := range s.sales {
		if sale.CustomerID == id {
			return fmt.Errorf("%w: customer %d is referenced by sale %d", ErrReferenced, id, sale.ID)
		}
	}
	for _, inst := range s.installments {
		if inst.CustomerID == id {
			return fmt.Errorf("%w: customer %d is referenced by installment %d", ErrReferenced, id, inst.ID)
		}
	}

	delete(s.customers, id)
	entry := s.appendAuditLocked(actor, "delete_customer",
		fmt.Sprintf("deleted customer %d (%s)", id, customer.Name))
	return s.commit(func() {
		s.customers[id] = customer
		delete(s.auditLogs, entry.ID)
	})
}

// GetCustomers returns all customers in insertion order.
func (s *Store) GetCustomers() []Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Customer, 0, len(s.customers))
	for _, id := range sortedIDs(s.customers) {
		out = append(out, *s.customers[id])
	}
	return out
}

// GetCustomer returns one customer by id.
func (s *Store) GetCustomer(id uint) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
	}
	copy := *customer
	return &copy, nil
}
