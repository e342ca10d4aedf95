// package treasury is the in-process category ledger gating payouts. It is
// a demo ledger, not the source of truth for token movement: balances live
// only for the process lifetime and are never reconciled with the chain.
package treasury

import (
	"errors"

	"github.com/sasha-s/go-deadlock"
)

var ErrInvalidCategory = errors.New("unrecognized category")
var ErrInvalidAmount = errors.New("amount must be positive")

type Store struct {
	mut      deadlock.RWMutex
	balances map[string]int64
}

// NewStore creates a ledger with the given categories, each opening at
// opening QU. Construct once at process start and inject into handlers.
func NewStore(categories []string, opening int64) *Store {
	s := &Store{
		balances: make(map[string]int64, len(categories)),
	}
	for _, c := range categories {
		s.balances[c] = opening
	}
	return s
}

func (s *Store) AddFunds(category string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	bal, ok := s.balances[category]
	if !ok {
		return 0, ErrInvalidCategory
	}

	bal += amount
	s.balances[category] = bal
	return bal, nil
}

// DeductFunds decrements the category balance only if it covers amount.
// Check and decrement happen under one lock, so concurrent payouts against
// a thin balance cannot both succeed. Insufficiency is a result, not an
// error: the HTTP layer maps false to 402.
func (s *Store) DeductFunds(category string, amount int64) bool {
	if amount <= 0 {
		return false
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	bal, ok := s.balances[category]
	if !ok || bal < amount {
		return false
	}

	s.balances[category] = bal - amount
	return true
}

func (s *Store) Balance(category string) (int64, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	bal, ok := s.balances[category]
	if !ok {
		return 0, ErrInvalidCategory
	}
	return bal, nil
}

// Balances returns a snapshot of all category balances.
func (s *Store) Balances() map[string]int64 {
	s.mut.RLock()
	defer s.mut.RUnlock()

	out := make(map[string]int64, len(s.balances))
	for c, b := range s.balances {
		out[c] = b
	}
	return out
}
