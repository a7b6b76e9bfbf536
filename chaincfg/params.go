// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters a header store and chain
// registry need to make sense of a stream of block headers: the genesis
// hash, the compiled-in checkpoint table, and the predicate that decides
// whether a given header is eligible to carry a merge-mining (AuxPoW)
// trailer. It deliberately carries none of the genesis-block-construction
// machinery a full node needs (coinbase script, reward outputs, merkle
// root derivation) since this module never builds blocks, only verifies
// and stores their headers.
package chaincfg

import (
	"math/big"

	"github.com/scryptspv/headerchain/chaincfg/chainhash"
	"github.com/scryptspv/headerchain/wire"
)

// Checkpoint identifies a block by chunk index (height/2016) and carries
// the precomputed difficulty for that chunk's boundary, so the retarget
// engine can skip straight to a known-good (bits, target) pair instead of
// walking the chain behind it.
type Checkpoint struct {
	Hash      chainhash.Hash
	Target    *big.Int
	Bits      uint32
	Timestamp int64
}

// Params defines a header-store-relevant network by its genesis hash,
// checkpoint table, and merge-mining predicate.
type Params struct {
	// Name is a human-readable network identifier. Nothing in this module
	// reads it; the headers directory layout does not depend on it.
	Name string

	// GenesisHash is the hash of the network's first block. It is the
	// ChainRegistry key for the root chain.
	GenesisHash chainhash.Hash

	// TestNet, when true, disables difficulty verification entirely:
	// RetargetEngine returns the sentinel (0, 0) and verify_header
	// short-circuits its target check. This mirrors the source client's
	// treatment of testnet difficulty as explicitly out of scope.
	TestNet bool

	// Checkpoints is the compiled-in checkpoint table, indexed by chunk
	// number (chunk = height/2016). Entry i covers chunk i, i.e. the
	// block at height (i+1)*2016-1.
	Checkpoints []Checkpoint

	// AuxPowChainID is this network's merge-mining chain identifier, as
	// carried in bits 16..21 of a merge-mined header's version field. A
	// header's AuxPoW version bit alone is not sufficient to decide
	// whether to expect a trailer: the chain ID must also match, since a
	// version bit collision with an unrelated merge-mined chain is
	// possible in principle. Zero disables the chain-ID check (useful
	// for test networks that don't merge-mine).
	AuxPowChainID int32
}

// MaxCheckpoint returns the height of the highest checkpointed block, i.e.
// the upper edge of the region where consensus is trusted outright and
// AuxPoW verification is skipped. Returns -1 if there are no checkpoints.
func (p *Params) MaxCheckpoint() int32 {
	if len(p.Checkpoints) == 0 {
		return -1
	}
	return int32(len(p.Checkpoints))*2016 - 1
}

// AuxPowActive reports whether h, at the given height, is eligible to
// carry an AuxPoW trailer: its version field must set the merge-mining
// marker bit, its chain ID must match the network (when AuxPowChainID is
// set), and the height must lie above the checkpoint horizon. Below the
// horizon, headers are checkpoint-trusted and any trailer present in a
// network-fed chunk is stripped without inspection.
func (p *Params) AuxPowActive(h *wire.BlockHeader, height int32) bool {
	if !h.AuxPow() {
		return false
	}
	if p.AuxPowChainID != 0 && h.GetChainID() != p.AuxPowChainID {
		return false
	}
	return height > p.MaxCheckpoint()
}

// CheckpointForChunk returns the checkpoint for the given chunk index and
// true, or the zero value and false if the chunk isn't checkpointed.
func (p *Params) CheckpointForChunk(chunk int32) (Checkpoint, bool) {
	if chunk < 0 || int(chunk) >= len(p.Checkpoints) {
		return Checkpoint{}, false
	}
	return p.Checkpoints[chunk], true
}

// mustCheckpointHash and mustCheckpointTarget decode the literals emitted by
// `headerctl checkpoints` back into a Checkpoint's Hash and Target fields.
// They panic on malformed input because their only caller is generated code
// derived from a chain this process already verified.
func mustCheckpointHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic("chaincfg: bad generated checkpoint hash " + s + ": " + err.Error())
	}
	return *h
}

func mustCheckpointTarget(hexDigits string) *big.Int {
	n, ok := new(big.Int).SetString(hexDigits, 16)
	if !ok {
		panic("chaincfg: bad generated checkpoint target " + hexDigits)
	}
	return n
}
