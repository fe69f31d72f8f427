package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRepairDefaultsToReceived(t *testing.T) {
	store, _ := newTestStore(t)

	repair, err := store.AddRepair(testWorker, Repair{
		LaptopBrand: "Dell",
		LaptopModel: "XPS 13",
		Issue:       "does not power on",
	})
	require.NoError(t, err)
	assert.Equal(t, RepairStatusReceived, repair.Status)
	assert.Equal(t, uint(1), repair.ID)
}

func TestAddRepairValidation(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddRepair(testWorker, Repair{Issue: "no brand"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = store.AddRepair(testWorker, Repair{LaptopBrand: "Dell", Issue: ""})
	require.ErrorIs(t, err, ErrValidation)

	_, err = store.AddRepair(testWorker, Repair{
		LaptopBrand: "Dell", Issue: "cracked screen", CustomerID: 42,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRepairStatusFlow(t *testing.T) {
	store, _ := newTestStore(t)
	repair, err := store.AddRepair(testWorker, Repair{
		LaptopBrand: "Dell", LaptopModel: "XPS 13", Issue: "cracked screen",
	})
	require.NoError(t, err)

	status := RepairStatusInProgress
	cost := 180.0
	updated, err := store.UpdateRepair(testWorker, repair.ID, RepairUpdate{Status: &status, Cost: &cost})
	require.NoError(t, err)
	assert.Equal(t, RepairStatusInProgress, updated.Status)
	assert.Equal(t, 180.0, updated.Cost)

	bogus := "lost"
	_, err = store.UpdateRepair(testWorker, repair.ID, RepairUpdate{Status: &bogus})
	require.ErrorIs(t, err, ErrValidation)
	got, err := store.GetRepair(repair.ID)
	require.NoError(t, err)
	assert.Equal(t, RepairStatusInProgress, got.Status)
}
