package utxo

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"
	"github.com/holiman/uint256"

	"github.com/lover33/elixir-omg/tx"
	"github.com/lover33/elixir-omg/txbuilder"
)

var utxoBucket = []byte("utxo")

// BoltStore persists the same Entry set as Store, backed by a bbolt file.
// It scans the whole bucket on lookup rather than maintaining a secondary
// owner index — adequate for a single wallet's worth of UTXOs, not for an
// operator tracking every output on the chain.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if necessary) a BoltStore at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening utxo db %s: %w", path, err)
	}
	s := &BoltStore{db: db}
	if err := s.db.Update(func(btx *bolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(utxoBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating utxo bucket: %w", err)
	}
	return s, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// record is the CBOR-encoded value stored for each key. Amount is carried
// as a fixed 32-byte big-endian word — *uint256.Int has no exported
// fields for cbor to walk.
type record struct {
	Owner    [20]byte
	Currency [20]byte
	Amount   [32]byte
}

func encodeKey(k Key) []byte {
	buf := make([]byte, 17)
	binary.BigEndian.PutUint64(buf[0:8], k.Blknum)
	binary.BigEndian.PutUint64(buf[8:16], k.Txindex)
	buf[16] = k.Oindex
	return buf
}

// Put inserts or overwrites e.
func (s *BoltStore) Put(e Entry) error {
	rec := record{
		Owner:    [20]byte(e.Owner),
		Currency: [20]byte(e.UTXO.Currency),
		Amount:   amountOf(e.UTXO.Amount).Bytes32(),
	}
	data, err := cbor.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling utxo record: %w", err)
	}
	key := encodeKey(keyOf(e))
	return s.db.Update(func(btx *bolt.Tx) error {
		return btx.Bucket(utxoBucket).Put(key, data)
	})
}

// Spend removes the output at k. Reports whether it was present.
func (s *BoltStore) Spend(k Key) (bool, error) {
	key := encodeKey(k)
	found := false
	err := s.db.Update(func(btx *bolt.Tx) error {
		b := btx.Bucket(utxoBucket)
		if b.Get(key) != nil {
			found = true
		}
		return b.Delete(key)
	})
	return found, err
}

// UTXOsByOwner implements txbuilder.Source.
func (s *BoltStore) UTXOsByOwner(_ context.Context, owner tx.Owner) ([]txbuilder.UTXO, error) {
	var out []txbuilder.UTXO
	err := s.db.View(func(btx *bolt.Tx) error {
		return btx.Bucket(utxoBucket).ForEach(func(k, v []byte) error {
			if len(k) != 17 {
				return fmt.Errorf("corrupt utxo key of length %d", len(k))
			}
			var rec record
			if err := cbor.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshalling utxo record: %w", err)
			}
			if tx.Owner(rec.Owner) != owner {
				return nil
			}
			out = append(out, txbuilder.UTXO{
				Blknum:   binary.BigEndian.Uint64(k[0:8]),
				Txindex:  binary.BigEndian.Uint64(k[8:16]),
				Oindex:   k[16],
				Amount:   new(uint256.Int).SetBytes32(rec.Amount[:]),
				Currency: tx.Currency(rec.Currency),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scanning utxo db: %w", err)
	}
	return out, nil
}

func amountOf(a *uint256.Int) *uint256.Int {
	if a == nil {
		return uint256.NewInt(0)
	}
	return a
}
