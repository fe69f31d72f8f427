package database

import (
	"fmt"

	"laptoppos/auth"
)

// Snapshot is the full serialization of the entity store: one JSON document
// with an ordered sequence per collection. It is read and written wholesale
// by the persistence adapters.
type Snapshot struct {
	Laptops              []Laptop              `json:"laptops"`
	Customers            []Customer            `json:"customers"`
	Users                []User                `json:"users"`
	RegistrationRequests []RegistrationRequest `json:"registrationRequests"`
	Sales                []Sale                `json:"sales"`
	Installments         []Installment         `json:"installments"`
	Repairs              []Repair              `json:"repairs"`
	AuditLogs            []AuditLog            `json:"auditLogs"`
}

// Snapshot returns a copy of the current store contents.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Laptops:              make([]Laptop, 0, len(s.laptops)),
		Customers:            make([]Customer, 0, len(s.customers)),
		Users:                make([]User, 0, len(s.users)),
		RegistrationRequests: make([]RegistrationRequest, 0, len(s.registrations)),
		Sales:                make([]Sale, 0, len(s.sales)),
		Installments:         make([]Installment, 0, len(s.installments)),
		Repairs:              make([]Repair, 0, len(s.repairs)),
		AuditLogs:            make([]AuditLog, 0, len(s.auditLogs)),
	}
	for _, id := range sortedIDs(s.laptops) {
		snap.Laptops = append(snap.Laptops, *s.laptops[id])
	}
	for _, id := range sortedIDs(s.customers) {
		snap.Customers = append(snap.Customers, *s.customers[id])
	}
	for _, id := range sortedIDs(s.users) {
		snap.Users = append(snap.Users, *s.users[id])
	}
	for _, id := range sortedIDs(s.registrations) {
		snap.RegistrationRequests = append(snap.RegistrationRequests, *s.registrations[id])
	}
	for _, id := range sortedIDs(s.sales) {
		snap.Sales = append(snap.Sales, *s.sales[id])
	}
	for _, id := range sortedIDs(s.installments) {
		snap.Installments = append(snap.Installments, *s.installments[id])
	}
	for _, id := range sortedIDs(s.repairs) {
		snap.Repairs = append(snap.Repairs, *s.repairs[id])
	}
	for _, id := range sortedIDs(s.auditLogs) {
		snap.AuditLogs = append(snap.AuditLogs, *s.auditLogs[id])
	}
	return snap
}

// Restore replaces every collection from an uploaded snapshot as one
// operation. On write-through failure the previous contents are restored
// and the error reported; nothing is partially applied.
func (s *Store) Restore(actor Actor, snap *Snapshot) error {
	if err := requirePermission(actor, auth.PermBackupRestore); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.snapshotLocked()
	s.loadLocked(snap)
	s.appendAuditLocked(actor, "backup_restore",
		"restored snapshot with "+countSummary(snap))
	// Revert reloads the prior snapshot wholesale, audit entry included.
	return s.commit(func() { s.loadLocked(previous) })
}

func countSummary(snap *Snapshot) string {
	return fmt.Sprintf("%d laptops, %d customers, %d sales",
		len(snap.Laptops), len(snap.Customers), len(snap.Sales))
}
