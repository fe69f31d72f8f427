package database

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotTopLevelKeys(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)

	data, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{
		"laptops", "customers", "users", "registrationRequests",
		"sales", "installments", "repairs", "auditLogs",
	} {
		assert.Contains(t, doc, key)
	}
	assert.Len(t, doc, 8)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "snapshot.json")
	persister := &FilePersister{Path: path}

	store := NewStore(persister, nil)
	laptop, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)
	customer, err := store.AddCustomer(testWorker, testCustomer())
	require.NoError(t, err)
	_, err = store.CreateSale(testWorker, SaleInput{
		LaptopID:      laptop.ID,
		CustomerID:    customer.ID,
		Quantity:      2,
		PaymentMethod: PaymentCard,
	})
	require.NoError(t, err)
	user, err := store.CreateUser(testAdmin, User{
		Username: "finn", Email: "finn@example.com",
		PasswordHash: "$2a$10$hash", Role: "worker", IsActive: true,
	})
	require.NoError(t, err)

	reloaded := NewStore(&memPersister{}, nil)
	snap, err := persister.Load()
	require.NoError(t, err)
	reloaded.Load(snap)

	got, err := reloaded.GetLaptop(laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Len(t, reloaded.GetCustomers(), 1)
	require.Len(t, reloaded.GetSales(), 1)
	assert.Equal(t, 2400.0, reloaded.GetSales()[0].TotalAmount)

	// Credential hashes survive the round trip so logins work after reload.
	reloadedUser, err := reloaded.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", reloadedUser.PasswordHash)
}

func TestFilePersisterMissingFile(t *testing.T) {
	persister := &FilePersister{Path: filepath.Join(t.TempDir(), "absent.json")}
	snap, err := persister.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Laptops)
	assert.Empty(t, snap.Users)
}

func TestFilePersisterCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	persister := &FilePersister{Path: path}
	_, err := persister.Load()
	require.Error(t, err)
}

func TestRestoreReplacesWholeStore(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)

	other, _ := newTestStore(t)
	_, err = other.AddCustomer(testWorker, testCustomer())
	require.NoError(t, err)

	require.NoError(t, store.Restore(testAdmin, other.Snapshot()))
	assert.Empty(t, store.GetLaptops())
	assert.Len(t, store.GetCustomers(), 1)
}

func TestRestorePersistFailureKeepsPrevious(t *testing.T) {
	store, persister := newTestStore(t)
	laptop, err := store.AddLaptop(testManager, testLaptop())
	require.NoError(t, err)

	persister.fail = true
	err = store.Restore(testAdmin, &Snapshot{})
	require.ErrorIs(t, err, ErrPersistence)

	_, err = store.GetLaptop(laptop.ID)
	assert.NoError(t, err)
	assert.Empty(t, store.GetAuditLogs())
}
