// Package utxo implements txbuilder.Source: the lookup of a spender's
// unspent outputs the transaction builder needs to assemble a transaction.
// Store is a plain in-memory reference implementation; BoltStore in
// bolt.go persists the same data to disk.
package utxo

import (
	"context"
	"sync"

	"github.com/lover33/elixir-omg/tx"
	"github.com/lover33/elixir-omg/txbuilder"
)

// Key identifies a single output: the same triple tx.InputRef spends.
type Key struct {
	Blknum  uint64
	Txindex uint64
	Oindex  uint8
}

// Entry is an unspent output together with the owner that controls it.
// txbuilder.UTXO itself carries no owner — a builder caller already knows
// which address it is spending from — so the store tracks it separately.
type Entry struct {
	Owner tx.Owner
	UTXO  txbuilder.UTXO
}

func keyOf(e Entry) Key {
	return Key{Blknum: e.UTXO.Blknum, Txindex: e.UTXO.Txindex, Oindex: e.UTXO.Oindex}
}

// EntryStore is the write side both Store and BoltStore implement, letting
// LoadFixture (and any other loader) target either without caring which.
type EntryStore interface {
	Put(Entry) error
}

// Store is an in-memory set of unspent outputs, keyed by output coordinate;
// lookup by owner scans every entry. It satisfies txbuilder.Source and is
// safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]Entry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]Entry)}
}

// Put inserts or overwrites e. It never fails; the error return exists so
// Store and BoltStore satisfy the same EntryStore interface.
func (s *Store) Put(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[keyOf(e)] = e
	return nil
}

// Spend removes the output a transaction consumed. Double-spend detection
// is a property of the operator's full state, not of this reference
// store; Spend simply reports whether the key was present.
func (s *Store) Spend(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[k]; !ok {
		return false
	}
	delete(s.entries, k)
	return true
}

// UTXOsByOwner implements txbuilder.Source.
func (s *Store) UTXOsByOwner(_ context.Context, owner tx.Owner) ([]txbuilder.UTXO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []txbuilder.UTXO
	for _, e := range s.entries {
		if e.Owner == owner {
			out = append(out, e.UTXO)
		}
	}
	return out, nil
}
