package generator

import (
	"fmt"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// arena holds one generation batch. Manager links are expressed as indexes
// into the batch and must always point backwards.
type arena struct {
	records []domain.Employee
}

func newArena(capacity int) *arena {
	return &arena{records: make([]domain.Employee, 0, capacity)}
}

func (a *arena) add(e domain.Employee) int {
	a.records = append(a.records, e)
	return len(a.records) - 1
}

// linkManager makes the record at managerIndex the manager of the record at index.
func (a *arena) linkManager(index, managerIndex int) error {
	if index < 0 || index >= len(a.records) {
		return &domain.GenerationError{Index: index, Reason: "record not in batch"}
	}
	if managerIndex < 0 || managerIndex >= index {
		return &domain.GenerationError{
			Index:  index,
			Reason: fmt.Sprintf("manager index %d must precede record index %d", managerIndex, index),
		}
	}
	id := a.records[managerIndex].ID
	a.records[index].Manager = &id
	return nil
}

// ValidateHierarchy checks that every manager reference names an existing
// record with a strictly smaller id, which rules out cycles.
func ValidateHierarchy(records []domain.Employee) error {
	ids := make(map[int]bool, len(records))
	for _, r := range records {
		ids[r.ID] = true
	}
	for i, r := range records {
		if r.Manager == nil {
			continue
		}
		m := *r.Manager
		if m >= r.ID {
			return &domain.GenerationError{Index: i, Reason: fmt.Sprintf("employee %d references manager %d that does not precede it", r.ID, m)}
		}
		if !ids[m] {
			return &domain.GenerationError{Index: i, Reason: fmt.Sprintf("employee %d references unknown manager %d", r.ID, m)}
		}
	}
	return nil
}
