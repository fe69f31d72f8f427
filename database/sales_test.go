package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleFixtures(t *testing.T) (*Store, *memPersister, *Laptop, *Customer) {
	t.Helper()
	store, persister := newTestStore(t)
	laptop, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	customer, err := store.AddCustomer(testWorker, testCustomer())
	require.NoError(t, err)
	return store, persister, laptop, customer
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	store, _, laptop, customer := saleFixtures(t)

	result, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      3,
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, SaleStatusCompleted, result.Sale.Status)
	assert.Equal(t, 3600.0, result.Sale.TotalAmount)
	assert.Equal(t, 1200.0, result.Sale.UnitPrice)
	assert.Nil(t, result.Installment)

	got, err := store.GetLaptop(laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	store, persister, laptop, customer := saleFixtures(t)

	// Five in stock; selling three leaves two, and a second sale of three
	// must fail without touching anything.
	_, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      3,
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)
	savesBefore := persister.saves

	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      3,
		PaymentMethod: PaymentCash,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	got, err := store.GetLaptop(laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Len(t, store.GetSales(), 1)
	assert.Equal(t, savesBefore, persister.saves)
}

func TestCreateSaleValidation(t *testing.T) {
	store, _, laptop, customer := saleFixtures(t)

	_, err := store.CreateSale(testWorker, SaleInput{
		LaptopID: laptop.ID, CustomerID: customer.ID,
		Quantity: 0, PaymentMethod: PaymentCash,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID: laptop.ID, CustomerID: customer.ID,
		Quantity: 1, PaymentMethod: "barter",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID: 99, CustomerID: customer.ID,
		Quantity: 1, PaymentMethod: PaymentCash,
	})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID: laptop.ID, CustomerID: 99,
		Quantity: 1, PaymentMethod: PaymentCash,
	})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID: laptop.ID, CustomerID: customer.ID,
		Quantity: 1, PaymentMethod: PaymentInstallment, Months: 0,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateSaleWarrantyFixedAtSaleTime(t *testing.T) {
	store, _, laptop, customer := saleFixtures(t)
	saleTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      1,
		PaymentMethod: PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, saleTime, result.Sale.SaleDate)
	assert.Equal(t, saleTime.AddDate(0, 12, 0), result.Sale.WarrantyExpiry)
}

func TestCreateInstallmentSale(t *testing.T) {
	store, _, laptop, customer := saleFixtures(t)

	result, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      1,
		PaymentMethod: PaymentInstallment,
		Months:        6,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Installment)

	inst := result.Installment
	assert.Equal(t, result.Sale.ID, inst.SaleID)
	assert.Equal(t, 1200.0, inst.TotalAmount)
	assert.Equal(t, 200.0, inst.MonthlyAmount)
	assert.Equal(t, 6, inst.Months)
	assert.Equal(t, InstallmentActive, inst.Status)
	assert.Equal(t, result.Sale.SaleDate.AddDate(0, 1, 0), inst.NextDueDate)
}

func TestCreateSalePersistFailureRevertsEverything(t *testing.T) {
	store, persister, laptop, customer := saleFixtures(t)

	persister.fail = true
	_, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      2,
		PaymentMethod: PaymentInstallment,
		Months:        4,
	})
	require.ErrorIs(t, err, ErrPersistence)

	got, gerr := store.GetLaptop(laptop.ID)
	require.NoError(t, gerr)
	assert.Equal(t, 5, got.Quantity)
	assert.Empty(t, store.GetSales())
	assert.Empty(t, store.GetInstallments())
}

func TestCancelSaleRestocks(t *testing.T) {
	store, _, laptop, customer := saleFixtures(t)

	result, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      3,
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	_, err = store.CancelSale(testWorker, result.Sale.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	cancelled, err := store.CancelSale(testManager, result.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCancelled, cancelled.Status)

	got, err := store.GetLaptop(laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	_, err = store.CancelSale(testManager, result.Sale.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestInstallmentPaymentLifecycle(t *testing.T) {
	store, _, laptop, customer := saleFixtures(t)

	result, err := store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      1,
		PaymentMethod: PaymentInstallment,
		Months:        2,
	})
	require.NoError(t, err)
	inst := result.Installment

	firstDue := inst.NextDueDate
	due := store.DueInstallments(firstDue)
	require.Len(t, due, 1)
	assert.Empty(t, store.DueInstallments(firstDue.Add(-time.Hour)))

	updated, err := store.RecordInstallmentPayment(testWorker, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PaidMonths)
	assert.Equal(t, firstDue.AddDate(0, 1, 0), updated.NextDueDate)
	assert.Equal(t, InstallmentActive, updated.Status)

	updated, err = store.RecordInstallmentPayment(testWorker, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.PaidMonths)
	assert.Equal(t, InstallmentCompleted, updated.Status)

	_, err = store.RecordInstallmentPayment(testWorker, inst.ID)
	require.ErrorIs(t, err, ErrValidation)
}
