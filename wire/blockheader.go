// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"time"

	"github.com/scryptspv/headerchain/chaincfg/chainhash"
)

const (
	// VersionAuxPow is the version bit marking a header as merge-mined: an
	// AuxPowHeader trailer follows the 80-byte base fields on the wire.
	VersionAuxPow int32 = (1 << 8)

	// BlockHeaderLen is the fixed size, in bytes, of the base header fields
	// this chain's own headers and an AuxPoW trailer's parent header both
	// share: Version, PrevBlock, MerkleRoot, Timestamp, Bits, Nonce.
	BlockHeaderLen = 80

	// ChainIDMask covers bits [16..21] (6 bits) used to store the chain ID
	// a merge-mined header claims.
	ChainIDMask int32 = 0x003F0000
)

// BlockHeader is this chain's own header: the 80-byte base fields plus,
// when AuxPow() reports true, the AuxPowHeader trailer proving the claimed
// parent-chain block also committed to this one. BlockHash identifies the
// header (double SHA-256 of the base fields); BlockPoWHash is the value
// checked against the target for admissibility (Scrypt of the same base
// fields). The proof-of-work check always uses this header's own base
// fields; the AuxPoW trailer's parent header is not used for it.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.  This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32

	// AuxPowHeader carries the merge-mining proof when AuxPow() is true;
	// nil otherwise.
	AuxPowHeader *AuxPowHeader
}

// AuxPow reports whether this header claims a merge-mining trailer.
func (h *BlockHeader) AuxPow() bool {
	return (h.Version & VersionAuxPow) != 0
}

// GetChainID extracts the merge-mined chain ID this header claims, per
// ChainIDMask. Meaningless unless AuxPow() is true.
func (h *BlockHeader) GetChainID() int32 {
	return (h.Version & ChainIDMask) >> 16
}

// SetAuxPow sets or clears VersionAuxPow without disturbing the rest of
// Version's bits.
func (h *BlockHeader) SetAuxPow(auxpow bool) {
	if auxpow {
		h.Version |= VersionAuxPow
	} else {
		h.Version &= ^VersionAuxPow
	}
}

// SetChainID sets the chain-ID field within Version, preserving every
// other bit.
func (h *BlockHeader) SetChainID(chainID int32) {
	h.Version &= ^ChainIDMask
	h.Version |= (chainID << 16) & ChainIDMask
}

// BlockPoWHash is the Scrypt hash of the base header fields, checked
// against Bits to admit a non-merge-mined header.
func (h *BlockHeader) BlockPoWHash() chainhash.Hash {
	return chainhash.ScryptRaw(func(w io.Writer) error {
		return writeHeaderFields(w, h.Version, &h.PrevBlock, &h.MerkleRoot, h.Timestamp, h.Bits, h.Nonce)
	})
}

// BlockHash is the double-SHA256 identity hash of the base header fields,
// used for chain linkage and lookup regardless of AuxPow status.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		return writeHeaderFields(w, h.Version, &h.PrevBlock, &h.MerkleRoot, h.Timestamp, h.Bits, h.Nonce)
	})
}

// SerializeHeader encodes only the BlockHeaderLen-byte base fields to w
// (Version, PrevBlock, MerkleRoot, Timestamp, Bits, Nonce); callers decide
// separately whether an AuxPoW trailer follows.
func (h *BlockHeader) SerializeHeader(w io.Writer) error {
	return writeHeaderFields(w, h.Version, &h.PrevBlock, &h.MerkleRoot, h.Timestamp, h.Bits, h.Nonce)
}

// DeserializeHeader decodes only the BlockHeaderLen-byte base fields from r
// into the receiver; h.AuxPowHeader is left untouched.
func (h *BlockHeader) DeserializeHeader(r io.Reader) error {
	return readHeaderFields(r, &h.Version, &h.PrevBlock, &h.MerkleRoot, &h.Timestamp, &h.Bits, &h.Nonce)
}

// writeHeaderFields writes the shared 80-byte header layout to w. Both
// BlockHeader and ParentAuxPowHeader (the base header an AuxPoW trailer
// embeds for the merge-mining parent) use this: they're the same wire
// shape, just populated by different proof-of-work chains.
func writeHeaderFields(w io.Writer, version int32, prevBlock, merkleRoot *chainhash.Hash, timestamp time.Time, bits, nonce uint32) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	littleEndian.PutUint32(buf[:4], uint32(version))
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}
	if _, err := w.Write(prevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(merkleRoot[:]); err != nil {
		return err
	}

	littleEndian.PutUint32(buf[:4], uint32(timestamp.Unix()))
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}

	littleEndian.PutUint32(buf[:4], bits)
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}

	littleEndian.PutUint32(buf[:4], nonce)
	_, err := w.Write(buf[:4])
	return err
}

// readHeaderFields reads the shared 80-byte header layout from r. See
// writeHeaderFields.
func readHeaderFields(r io.Reader, version *int32, prevBlock, merkleRoot *chainhash.Hash, timestamp *time.Time, bits, nonce *uint32) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	*version = int32(littleEndian.Uint32(buf[:4]))

	if _, err := io.ReadFull(r, prevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, merkleRoot[:]); err != nil {
		return err
	}

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	*timestamp = time.Unix(int64(littleEndian.Uint32(buf[:4])), 0)

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	*bits = littleEndian.Uint32(buf[:4])

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	*nonce = littleEndian.Uint32(buf[:4])

	return nil
}
