package database

import (
	"fmt"
	"math"
	"time"

	"laptoppos/auth"
)

// SaleInput is the request to record a sale. UnitPrice of zero means "use
// the laptop's list price". Months is only read for installment sales.
type SaleInput struct {
	LaptopID      uint    `json:"laptop_id"`
	CustomerID    uint    `json:"customer_id"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	PaymentMethod string  `json:"payment_method"`
	Months        int     `json:"months"`
}

// SaleResult reports what a committed sale produced.
type SaleResult struct {
	Sale        Sale         `json:"sale"`
	Installment *Installment `json:"installment,omitempty"`
}

func validPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentInstallment, PaymentBankTransfer:
		return true
	}
	return false
}

// effect is one step of a composite mutation. Revert must exactly undo
// apply so a failed commit leaves no trace.
type effect struct {
	apply  func()
	revert func()
}

// txn collects effects and applies them with a single commit point. If the
// write-through fails, applied effects are reverted in reverse order.
type txn struct {
	store   *Store
	effects []effect
}

func (t *txn) add(apply, revert func()) {
	t.effects = append(t.effects, effect{apply: apply, revert: revert})
}

// commit applies every staged effect and persists. Caller must hold the
// store's mutex.
func (t *txn) commit() error {
	for _, e := range t.effects {
		e.apply()
	}
	return t.store.commit(func() {
		for i := len(t.effects) - 1; i >= 0; i-- {
			t.effects[i].revert()
		}
	})
}

// roundCents rounds a currency amount to two decimals.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateSale records a sale, decrements inventory, and for installment
// sales creates the payment plan, all as one unit. No other mutation can
// observe an intermediate state, and nothing is persisted if any step
// fails.
func (s *Store) CreateSale(actor Actor, input SaleInput) (*SaleResult, error) {
	if err := requirePermission(actor, auth.PermCreateSale); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !validPaymentMethod(input.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, input.PaymentMethod)
	}
	if input.PaymentMethod == PaymentInstallment && input.Months <= 0 {
		return nil, fmt.Errorf("%w: installment sales need a positive month count", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	laptop, ok := s.laptops[input.LaptopID]
	if !ok {
		return nil, fmt.Errorf("%w: laptop %d", ErrNotFound, input.LaptopID)
	}
	if _, ok := s.customers[input.CustomerID]; !ok {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, input.CustomerID)
	}
	if laptop.Quantity < input.Quantity {
		return nil, fmt.Errorf("%w: requested %d of laptop %d, %d available",
			ErrInsufficientStock, input.Quantity, laptop.ID, laptop.Quantity)
	}

	unitPrice := input.UnitPrice
	if unitPrice == 0 {
		unitPrice = laptop.Price
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}

	now := s.now()
	sale := &Sale{
		ID:             nextID(s.sales),
		LaptopID:       laptop.ID,
		CustomerID:     input.CustomerID,
		UserID:         actor.UserID,
		Quantity:       input.Quantity,
		UnitPrice:      unitPrice,
		TotalAmount:    roundCents(unitPrice * float64(input.Quantity)),
		PaymentMethod:  input.PaymentMethod,
		Status:         SaleStatusCompleted,
		SaleDate:       now,
		WarrantyExpiry: now.AddDate(0, laptop.WarrantyMonths, 0),
		CreatedAt:      now,
	}

	tx := &txn{store: s}
	tx.add(
		func() { s.sales[sale.ID] = sale },
		func() { delete(s.sales, sale.ID) },
	)
	qty := input.Quantity
	tx.add(
		func() { laptop.Quantity -= qty },
		func() { laptop.Quantity += qty },
	)

	var installment *Installment
	if input.PaymentMethod == PaymentInstallment {
		installment = &Installment{
			ID:            nextID(s.installments),
			SaleID:        sale.ID,
			CustomerID:    input.CustomerID,
			TotalAmount:   sale.TotalAmount,
			MonthlyAmount: roundCents(sale.TotalAmount / float64(input.Months)),
			Months:        input.Months,
			NextDueDate:   now.AddDate(0, 1, 0),
			Status:        InstallmentActive,
			CreatedAt:     now,
		}
		tx.add(
			func() { s.installments[installment.ID] = installment },
			func() { delete(s.installments, installment.ID) },
		)
	}

	if err := tx.commit(); err != nil {
		return nil, err
	}

	result := &SaleResult{Sale: *sale}
	if installment != nil {
		inst := *installment
		result.Installment = &inst
	}
	return result, nil
}

// CancelSale flips a completed sale to cancelled and puts its quantity
// back in stock. Already-cancelled sales cannot be cancelled again.
func (s *Store) CancelSale(actor Actor, id uint) (*Sale, error) {
	if err := requirePermission(actor, auth.PermCancelSale); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[id]
	if !ok {
		return nil, fmt.Errorf("%w: sale %d", ErrNotFound, id)
	}
	if sale.Status == SaleStatusCancelled {
		return nil, fmt.Errorf("%w: sale %d is already cancelled", ErrValidation, id)
	}

	tx := &txn{store: s}
	previousStatus := sale.Status
	tx.add(
		func() { sale.Status = SaleStatusCancelled },
		func() { sale.Status = previousStatus },
	)
	if laptop, ok := s.laptops[sale.LaptopID]; ok {
		qty := sale.Quantity
		tx.add(
			func() { laptop.Quantity += qty },
			func() { laptop.Quantity -= qty },
		)
	}
	entry := s.appendAuditLocked(actor, "cancel_sale",
		fmt.Sprintf("cancelled sale %d", id))
	tx.add(func() {}, func() { delete(s.auditLogs, entry.ID) })

	if err := tx.commit(); err != nil {
		return nil, err
	}
	cancelled := *sale
	return &cancelled, nil
}

// GetSales returns all sales in insertion order.
func (s *Store) GetSales() []Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sale, 0, len(s.sales))
	for _, id := range sortedIDs(s.sales) {
		out = append(out, *s.sales[id])
	}
	return out
}

// GetSale returns one sale by id.
func (s *Store) GetSale(id uint) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, fmt.Errorf("%w: sale %d", ErrNotFound, id)
	}
	copy := *sale
	return &copy, nil
}

// GetInstallments returns all installment plans in insertion order.
func (s *Store) GetInstallments() []Installment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Installment, 0, len(s.installments))
	for _, id := range sortedIDs(s.installments) {
		out = append(out, *s.installments[id])
	}
	return out
}

// GetInstallment returns one plan by id.
func (s *Store) GetInstallment(id uint) (*Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.installments[id]
	if !ok {
		return nil, fmt.Errorf("%w: installment %d", ErrNotFound, id)
	}
	copy := *inst
	return &copy, nil
}

// DueInstallments returns active plans whose next due date is at or before
// the given time.
func (s *Store) DueInstallments(asOf time.Time) []Installment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Installment{}
	for _, id := range sortedIDs(s.installments) {
		inst := s.installments[id]
		if inst.Status == InstallmentActive && !inst.NextDueDate.After(asOf) {
			out = append(out, *inst)
		}
	}
	return out
}

// RecordInstallmentPayment marks one monthly payment received, advancing
// the due date a month, and completes the plan after the final month.
func (s *Store) RecordInstallmentPayment(actor Actor, id uint) (*Installment, error) {
	if err := requirePermission(actor, auth.PermCreateSale); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.installments[id]
	if !ok {
		return nil, fmt.Errorf("%w: installment %d", ErrNotFound, id)
	}
	if inst.Status != InstallmentActive {
		return nil, fmt.Errorf("%w: installment %d is not active", ErrValidation, id)
	}
	previous := *inst

	inst.PaidMonths++
	inst.NextDueDate = inst.NextDueDate.AddDate(0, 1, 0)
	if inst.PaidMonths >= inst.Months {
		inst.Status = InstallmentCompleted
	}
	if err := s.commit(func() { *inst = previous }); err != nil {
		return nil, err
	}
	updated := *inst
	return &updated, nil
}
