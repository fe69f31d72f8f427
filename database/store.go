package database

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"laptoppos/auth"
)

// Store is the single source of truth for all business entities during a
// session. It is explicitly constructed and passed to its consumers; there
// is no package-level instance. Collections live in maps keyed by id, ids
// are assigned monotonically and never reused, and every mutation is
// written through to the persister before it is considered committed.
type Store struct {
	mu sync.Mutex

	laptops       map[uint]*Laptop
	customers     map[uint]*Customer
	users         map[uint]*User
	registrations map[uint]*RegistrationRequest
	sales         map[uint]*Sale
	installments  map[uint]*Installment
	repairs       map[uint]*Repair
	auditLogs     map[uint]*AuditLog

	persister Persister
	syncer    Syncer
	now       func() time.Time
}

// NewStore builds an empty store writing through to the given persister.
// The syncer is optional; when present every committed snapshot is pushed
// to it asynchronously (failures are logged, never rolled back).
func NewStore(persister Persister, syncer Syncer) *Store {
	return &Store{
		laptops:       map[uint]*Laptop{},
		customers:     map[uint]*Customer{},
		users:         map[uint]*User{},
		registrations: map[uint]*RegistrationRequest{},
		sales:         map[uint]*Sale{},
		installments:  map[uint]*Installment{},
		repairs:       map[uint]*Repair{},
		auditLogs:     map[uint]*AuditLog{},
		persister:     persister,
		syncer:        syncer,
		now:           time.Now,
	}
}

// SetClock overrides the store's time source (used by tests).
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = clock
}

// Load replaces the store's collections from a previously saved snapshot.
func (s *Store) Load(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(snap)
}

func (s *Store) loadLocked(snap *Snapshot) {
	s.laptops = map[uint]*Laptop{}
	s.customers = map[uint]*Customer{}
	s.users = map[uint]*User{}
	s.registrations = map[uint]*RegistrationRequest{}
	s.sales = map[uint]*Sale{}
	s.installments = map[uint]*Installment{}
	s.repairs = map[uint]*Repair{}
	s.auditLogs = map[uint]*AuditLog{}
	for i := range snap.Laptops {
		l := snap.Laptops[i]
		s.laptops[l.ID] = &l
	}
	for i := range snap.Customers {
		c := snap.Customers[i]
		s.customers[c.ID] = &c
	}
	for i := range snap.Users {
		u := snap.Users[i]
		s.users[u.ID] = &u
	}
	for i := range snap.RegistrationRequests {
		r := snap.RegistrationRequests[i]
		s.registrations[r.ID] = &r
	}
	for i := range snap.Sales {
		sl := snap.Sales[i]
		s.sales[sl.ID] = &sl
	}
	for i := range snap.Installments {
		in := snap.Installments[i]
		s.installments[in.ID] = &in
	}
	for i := range snap.Repairs {
		r := snap.Repairs[i]
		s.repairs[r.ID] = &r
	}
	for i := range snap.AuditLogs {
		a := snap.AuditLogs[i]
		s.auditLogs[a.ID] = &a
	}
}

// nextID assigns max(existing ids)+1, or 1 for an empty collection.
func nextID[T any](m map[uint]*T) uint {
	var max uint
	for id := range m {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// sortedIDs returns collection keys in ascending order. Ids are monotonic
// and never reused, so id order is insertion order.
func sortedIDs[T any](m map[uint]*T) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// requirePermission is the capability check guarding every mutating entry
// point. Enforcement lives here, not only at the HTTP boundary, so no
// caller path can mutate the store unauthorized.
func requirePermission(actor Actor, perm auth.Permission) error {
	if !auth.CanAccess(actor.Role, perm) {
		return fmt.Errorf("%w: %s requires %s", ErrPermissionDenied, actor.Username, perm)
	}
	return nil
}

// commit writes the full store through to the persister. On failure the
// supplied revert is run and the mutation is reported as never applied.
// Caller must hold s.mu.
func (s *Store) commit(revert func()) error {
	snap := s.snapshotLocked()
	if s.persister != nil {
		if err := s.persister.Save(snap); err != nil {
			if revert != nil {
				revert()
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	s.syncAsync(snap)
	return nil
}

// syncAsync pushes the snapshot to the relational syncer without blocking
// the mutation. A sync failure is reported in the log only; the local
// mutation stays applied.
func (s *Store) syncAsync(snap *Snapshot) {
	if s.syncer == nil {
		return
	}
	go func() {
		if err := s.syncer.Sync(snap); err != nil {
			log.Printf("relational sync failed: %v", err)
		}
	}()
}

// appendAuditLocked records a privileged action. Caller must hold s.mu.
func (s *Store) appendAuditLocked(actor Actor, action, details string) *AuditLog {
	entry := &AuditLog{
		ID:        nextID(s.auditLogs),
		UserID:    actor.UserID,
		Username:  actor.Username,
		Action:    action,
		Details:   details,
		CreatedAt: s.now(),
	}
	s.auditLogs[entry.ID] = entry
	return entry
}

// GetAuditLogs returns the append-only audit trail, oldest first.
func (s *Store) GetAuditLogs() []AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditLog, 0, len(s.auditLogs))
	for _, id := range sortedIDs(s.auditLogs) {
		out = append(out, *s.auditLogs[id])
	}
	return out
}
