package database

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptoppos/auth"
)

// memPersister keeps the last saved snapshot in memory and can be flipped
// into a failing mode to exercise revert paths.
type memPersister struct {
	saves int
	fail  bool
	last  *Snapshot
}

func (m *memPersister) Load() (*Snapshot, error) { return &Snapshot{}, nil }

func (m *memPersister) Save(snap *Snapshot) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.saves++
	m.last = snap
	return nil
}

var (
	testAdmin   = Actor{UserID: 1, Username: "root", Role: auth.RoleAdmin}
	testManager = Actor{UserID: 2, Username: "mona", Role: auth.RoleManager}
	testWorker  = Actor{UserID: 3, Username: "finn", Role: auth.RoleWorker}
)

func newTestStore(t *testing.T) (*Store, *memPersister) {
	t.Helper()
	persister := &memPersister{}
	store := NewStore(persister, nil)
	store.SetClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	return store, persister
}

func testLaptop() Laptop {
	return Laptop{
		Brand:             "Lenovo",
		Model:             "ThinkPad T14",
		Price:             1200,
		Cost:              900,
		Quantity:          5,
		LowStockThreshold: 2,
		WarrantyMonths:    12,
	}
}

func testCustomer() Customer {
	return Customer{Name: "Ada Byron", Email: "ada@example.com"}
}

func TestIDsAreMonotonicAndOrdered(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	second, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)

	// A deleted id is never handed out again.
	require.NoError(t, store.DeleteLaptop(testManager, second.ID))
	third, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	assert.Equal(t, uint(3), third.ID)

	laptops := store.GetLaptops()
	require.Len(t, laptops, 2)
	assert.Equal(t, uint(1), laptops[0].ID)
	assert.Equal(t, uint(3), laptops[1].ID)
}

func TestMutationsWriteThrough(t *testing.T) {
	store, persister := newTestStore(t)

	_, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	assert.Equal(t, 1, persister.saves)
	require.NotNil(t, persister.last)
	assert.Len(t, persister.last.Laptops, 1)

	_, err = store.AddCustomer(testWorker, testCustomer())
	require.NoError(t, err)
	assert.Equal(t, 2, persister.saves)
	assert.Len(t, persister.last.Customers, 1)
}

func TestPersistFailureRevertsMutation(t *testing.T) {
	store, persister := newTestStore(t)

	persister.fail = true
	_, err := store.AddLaptop(testManager, testLaptop())
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, store.GetLaptops())

	persister.fail = false
	created, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)

	persister.fail = true
	newPrice := 999.0
	_, err = store.UpdateLaptop(testManager, created.ID, LaptopUpdate{Price: &newPrice})
	require.ErrorIs(t, err, ErrPersistence)
	got, err := store.GetLaptop(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got.Price)
}

func TestMutationsRequirePermission(t *testing.T) {
	store, persister := newTestStore(t)

	_, err := store.AddLaptop(testWorker, testLaptop())
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = store.CreateUser(testManager, User{Username: "x", Email: "x@example.com", Role: auth.RoleWorker})
	require.ErrorIs(t, err, ErrPermissionDenied)

	err = store.Restore(testManager, &Snapshot{})
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Denied calls never reach the persister.
	assert.Equal(t, 0, persister.saves)
}

func TestValidationAtStoreBoundary(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddLaptop(testManager, Laptop{Model: "no brand"})
	require.ErrorIs(t, err, ErrValidation)

	bad := testLaptop()
	bad.Price = -1
	_, err = store.AddLaptop(testManager, bad)
	require.ErrorIs(t, err, ErrValidation)

	_, err = store.AddCustomer(testWorker, Customer{Name: "no email"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDuplicateCustomerEmailRejected(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddCustomer(testWorker, testCustomer())
	require.NoError(t, err)

	dup := testCustomer()
	dup.Email = "ADA@Example.com"
	_, err = store.AddCustomer(testWorker, dup)
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestDeleteRejectedWhileReferenced(t *testing.T) {
	store, _ := newTestStore(t)

	laptop, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	customer, err := store.AddCustomer(testWorker, testCustomer())
	require.NoError(t, err)
	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      1,
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	err = store.DeleteLaptop(testManager, laptop.ID)
	require.ErrorIs(t, err, ErrReferenced)
	err = store.DeleteCustomer(testWorker, customer.ID)
	require.ErrorIs(t, err, ErrReferenced)

	_, err = store.GetLaptop(laptop.ID)
	assert.NoError(t, err)
	_, err = store.GetCustomer(customer.ID)
	assert.NoError(t, err)
}

func TestAuditTrailRecordsPrivilegedActions(t *testing.T) {
	store, _ := newTestStore(t)

	laptop, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	require.NoError(t, store.DeleteLaptop(testManager, laptop.ID))

	logs := store.GetAuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "delete_laptop", logs[0].Action)
	assert.Equal(t, testManager.Username, logs[0].Username)
}

func TestAuditEntryRevertedWithFailedCommit(t *testing.T) {
	store, persister := newTestStore(t)

	laptop, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)

	persister.fail = true
	err = store.DeleteLaptop(testManager, laptop.ID)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, store.GetAuditLogs())
}
