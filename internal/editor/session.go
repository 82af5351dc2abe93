// Package editor owns the working set of line items for the budget
// currently being composed. All operations are synchronous and local; the
// record store is only involved once the lifecycle submits the session.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/validation"
)

// ErrIndexOutOfRange reports an item index outside the working set.
var ErrIndexOutOfRange = errors.New("item index out of range")

// Session is the transient working state for composing or editing one
// budget. Exactly one session backs the active composition flow; Reset is
// the lifecycle boundary. Pass it by reference, never copy it.
type Session struct {
	items   []models.BudgetItem
	editing int  // index of the slot being edited, -1 when adding
	boundID uint // persisted budget being edited, 0 when composing new
	total   float64
}

func NewSession() *Session { return &Session{editing: -1} }

// Reset returns the session to an empty, unbound, adding state.
func (s *Session) Reset() {
	s.items = nil
	s.editing = -1
	s.boundID = 0
	s.total = 0
}

// Bind ties the session to an already persisted budget without loading it.
func (s *Session) Bind(id uint) { s.boundID = id }

// BoundID returns the persisted budget id this session edits, 0 for a new one.
func (s *Session) BoundID() uint { return s.boundID }

// Editing reports whether an existing slot is being updated rather than a
// new one appended.
func (s *Session) Editing() bool { return s.editing >= 0 }

// EditingIndex returns the slot under edit, -1 in adding mode.
func (s *Session) EditingIndex() int { return s.editing }

func (s *Session) Len() int { return len(s.items) }

// Items returns a copy of the working set in display order.
func (s *Session) Items() []models.BudgetItem {
	out := make([]models.BudgetItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total returns the grand total of the working set.
func (s *Session) Total() float64 { return s.total }

// Load replaces the working set with a persisted budget's items and binds
// the session to it (edit flow). The session enters adding mode.
func (s *Session) Load(b *models.Budget) {
	s.items = make([]models.BudgetItem, len(b.Items))
	copy(s.items, b.Items)
	s.editing = -1
	s.boundID = b.ID
	s.recompute()
}

// AddOrUpdate validates one line entry and either appends it or, when an
// edit is in progress, replaces the edited slot and returns to adding mode.
// On validation failure the working set and edit state are left untouched.
func (s *Session) AddOrUpdate(description, note string, quantity, unitPrice float64) error {
	v := validation.Violations{}
	validation.Required("description", description, v)
	validation.PositiveFloat("quantity", quantity, v)
	validation.PositiveFloat("unit_price", unitPrice, v)
	if !v.Empty() {
		return validation.NewError(v)
	}
	item := models.BudgetItem{
		Description: strings.TrimSpace(description),
		Note:        strings.TrimSpace(note),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   lineTotal(quantity, unitPrice),
	}
	if s.editing >= 0 {
		item.ID = s.items[s.editing].ID
		s.items[s.editing] = item
		s.editing = -1
	} else {
		s.items = append(s.items, item)
	}
	s.recompute()
	return nil
}

// BeginEdit exposes the item at index for re-entry and marks it as the
// edited slot. The item stays in place until AddOrUpdate confirms, so
// abandoning the edit leaves it unchanged.
func (s *Session) BeginEdit(index int) (models.BudgetItem, error) {
	if index < 0 || index >= len(s.items) {
		return models.BudgetItem{}, fmt.Errorf("begin edit %d: %w", index, ErrIndexOutOfRange)
	}
	s.editing = index
	return s.items[index], nil
}

// Remove deletes the item at index. Removing the edited slot returns to
// adding mode; removing an earlier slot shifts the edited index down one so
// it keeps tracking the same item.
func (s *Session) Remove(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("remove %d: %w", index, ErrIndexOutOfRange)
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	switch {
	case s.editing == index:
		s.editing = -1
	case s.editing > index:
		s.editing--
	}
	s.recompute()
	return nil
}

// recompute derives the grand total from scratch after every mutation.
// A full decimal re-scan at this item count is cheap and cannot drift the
// way incrementally maintained float sums do.
func (s *Session) recompute() {
	sum := decimal.Zero
	for i := range s.items {
		sum = sum.Add(decimal.NewFromFloat(s.items[i].LineTotal))
	}
	s.total = sum.InexactFloat64()
}

func lineTotal(qty, price float64) float64 {
	return decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).InexactFloat64()
}
