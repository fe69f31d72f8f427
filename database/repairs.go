package database

import (
	"fmt"
	"strings"

	"laptoppos/auth"
)

// RepairUpdate carries a partial update; nil fields are left untouched.
type RepairUpdate struct {
	Status *string  `json:"status"`
	Issue  *string  `json:"issue"`
	Cost   *float64 `json:"cost"`
}

func validRepairStatus(status string) bool {
	switch status {
	case RepairStatusReceived, RepairStatusInProgress, RepairStatusCompleted, RepairStatusDelivered:
		return true
	}
	return false
}

func validateRepair(r *Repair) error {
	if strings.TrimSpace(r.LaptopBrand) == "" {
		return fmt.Errorf("%w: laptop brand is required", ErrValidation)
	}
	if strings.TrimSpace(r.Issue) == "" {
		return fmt.Errorf("%w: issue description is required", ErrValidation)
	}
	if !validRepairStatus(r.Status) {
		return fmt.Errorf("%w: unknown repair status %q", ErrValidation, r.Status)
	}
	if r.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	return nil
}

// AddRepair opens a new repair job. The referenced customer must exist.
func (s *Store) AddRepair(actor Actor, repair Repair) (*Repair, error) {
	if err := requirePermission(actor, auth.PermManageRepairs); err != nil {
		return nil, err
	}
	if repair.Status == "" {
		repair.Status = RepairStatusReceived
	}
	if err := validateRepair(&repair); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if repair.CustomerID != 0 {
		if _, ok := s.customers[repair.CustomerID]; !ok {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, repair.CustomerID)
		}
	}
	repair.ID = nextID(s.repairs)
	repair.CreatedAt = s.now()
	s.repairs[repair.ID] = &repair
	if err := s.commit(func() { delete(s.repairs, repair.ID) }); err != nil {
		return nil, err
	}
	created := repair
	return &created, nil
}

// UpdateRepair merges the non-nil fields of the update into the job.
func (s *Store) UpdateRepair(actor Actor, id uint, update RepairUpdate) (*Repair, error) {
	if err := requirePermission(actor, auth.PermManageRepairs); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	repair, ok := s.repairs[id]
	if !ok {
		return nil, fmt.Errorf("%w: repair %d", ErrNotFound, id)
	}
	previous := *repair

	if update.Status != nil {
		repair.Status = *update.Status
	}
	if update.Issue != nil {
		repair.Issue = *update.Issue
	}
	if update.Cost != nil {
		repair.Cost = *update.Cost
	}

	if err := validateRepair(repair); err != nil {
		*repair = previous
		return nil, err
	}
	if err := s.commit(func() { *repair = previous }); err != nil {
		return nil, err
	}
	updated := *repair
	return &updated, nil
}

// GetRepairs returns all repair jobs in insertion order.
func (s *Store) GetRepairs() []Repair {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Repair, 0, len(s.repairs))
	for _, id := range sortedIDs(s.repairs) {
		out = append(out, *s.repairs[id])
	}
	return out
}

// GetRepair returns one repair job by id.
func (s *Store) GetRepair(id uint) (*Repair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repair, ok := s.repairs[id]
	if !ok {
		return nil, fmt.Errorf("%w: repair %d", ErrNotFound, id)
	}
	copy := *repair
	return &copy, nil
}
