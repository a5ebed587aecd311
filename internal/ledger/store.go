// Package ledger implements the per-profile transaction store, the budget
// map, and the registry of user profiles.
package ledger

import (
	"fintrack/internal/core"
)

// Store is one profile's ordered collection of transactions. IDs are
// assigned sequentially and never reused, even after deletes, so nextID is
// always greater than any ID ever handed out. Display order is insertion
// order; the store never sorts.
type Store struct {
	transactions []core.Transaction
	nextID       int64
}

// NewStore returns an empty store whose first assigned ID is 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// RestoreStore rebuilds a store from persisted state. nextID is bumped to
// stay ahead of every restored ID in case the persisted counter lagged.
func RestoreStore(transactions []core.Transaction, nextID int64) *Store {
	if nextID < 1 {
		nextID = 1
	}
	for _, t := range transactions {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}
	return &Store{
		transactions: append([]core.Transaction(nil), transactions...),
		nextID:       nextID,
	}
}

// Add appends a transaction and returns its assigned ID. Validation of the
// amount and kind happens at the boundary before this call.
func (s *Store) Add(date, category, description string, amount core.Money, kind core.Kind) int64 {
	id := s.nextID
	s.nextID++
	s.transactions = append(s.transactions, core.Transaction{
		ID:          id,
		Date:        date,
		Category:    category,
		Description: description,
		Amount:      amount,
		Kind:        kind,
	})
	return id
}

// FindByID returns a copy of the matching transaction. The store never
// exposes references into its own slice.
func (s *Store) FindByID(id int64) (core.Transaction, error) {
	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

// Update holds the optional replacement fields for a transaction edit.
// Nil fields are left unchanged; the ID itself is immutable.
type Update struct {
	Date        *string
	Category    *string
	Description *string
	Amount      *core.Money
	Kind        *core.Kind
}

// UpdateByID rewrites the supplied fields of the transaction in place.
func (s *Store) UpdateByID(id int64, upd Update) error {
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		t := &s.transactions[i]
		if upd.Date != nil {
			t.Date = *upd.Date
		}
		if upd.Category != nil {
			t.Category = *upd.Category
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Amount != nil {
			t.Amount = *upd.Amount
		}
		if upd.Kind != nil {
			t.Kind = *upd.Kind
		}
		return nil
	}
	return core.ErrNotFound
}

// Delete removes the transaction with the given ID. nextID is not
// decremented, so the deleted ID is gone for good.
func (s *Store) Delete(id int64) error {
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// List returns the transactions in storage order, restricted to one
// category when the filter is non-empty.
func (s *Store) List(category string) []core.Transaction {
	if category == "" {
		return append([]core.Transaction(nil), s.transactions...)
	}
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// All returns every transaction in storage order.
func (s *Store) All() []core.Transaction {
	return s.List("")
}

// NextID exposes the counter for persistence.
func (s *Store) NextID() int64 {
	return s.nextID
}

// Len reports the number of stored transactions.
func (s *Store) Len() int {
	return len(s.transactions)
}
