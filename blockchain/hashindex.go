// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"encoding/binary"
	"fmt"

	"github.com/scryptspv/headerchain/chaincfg/chainhash"
	"github.com/syndtr/goleveldb/leveldb"
)

// HashIndex accelerates Registry.CheckHeader/CanConnect by mapping a block
// hash directly to the (chain id, height) pair that last wrote it, instead
// of the source's plain linear scan over every registered chain. It is a
// pure cache: a swap changes which chain id a height belongs to without
// updating this index, so every lookup is verified against the live chain
// before being trusted, and a miss (or a stale hit) always falls back to
// the authoritative scan. Losing this index entirely — deleting its
// directory — costs only a restart's worth of rebuilt entries, never
// correctness.
type HashIndex struct {
	db *leveldb.DB
}

// OpenHashIndex opens (or creates) the on-disk index at path.
func OpenHashIndex(path string) (*HashIndex, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("blockchain: opening hash index at %s: %w", path, err)
	}
	return &HashIndex{db: db}, nil
}

// Put records that hash was last seen belonging to chainID at height.
func (idx *HashIndex) Put(hash, chainID chainhash.Hash, height int32) error {
	var val [36]byte
	copy(val[:32], chainID[:])
	binary.LittleEndian.PutUint32(val[32:], uint32(height))
	return idx.db.Put(hash[:], val[:], nil)
}

// Lookup returns the chain id and height last recorded for hash.
func (idx *HashIndex) Lookup(hash chainhash.Hash) (chainhash.Hash, int32, bool) {
	val, err := idx.db.Get(hash[:], nil)
	if err != nil || len(val) != 36 {
		return chainhash.Hash{}, 0, false
	}
	var chainID chainhash.Hash
	copy(chainID[:], val[:32])
	height := int32(binary.LittleEndian.Uint32(val[32:]))
	return chainID, height, true
}

// Close releases the underlying database handle.
func (idx *HashIndex) Close() error {
	return idx.db.Close()
}
