// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the block identifier and proof-of-work hash
// functions shared by the wire and blockchain packages.
//
// Two distinct hash functions are used throughout this module. The block
// identifier (what header.BlockHash returns) is double SHA-256, used purely
// for identity and linking. The proof-of-work hash (what header.BlockPoWHash
// returns) is Scrypt, used only to judge whether a header meets its
// difficulty target. The two must never be confused: a header's identity
// does not change if the PoW parameters change, but its admissibility does.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// HashSize is the number of bytes in the array used to represent a hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is used in several of the messages and common structures. It
// typically represents the double sha256 of data.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash, matching the conventional display form used by block explorers and
// the wire protocol's human-readable identifiers.
func (hash Hash) String() string {
	var reversed Hash
	for i, b := range hash[:] {
		reversed[HashSize-1-i] = b
	}
	return hex.EncodeToString(reversed[:])
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", nhlen, HashSize)
	}
	copy(hash[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// NewHash returns a new Hash from a byte slice.  An error is returned if the
// number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	err := sh.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &sh, err
}

// NewHashFromStr creates a Hash from a hash string. The string should be the
// canonical hex-reversed notation.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hexadecimal string encoding of a Hash to
// a destination.
func Decode(dst *Hash, src string) error {
	// Return error if hash string is too long.
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	// Hex decoder expects the hash to be a multiple of two. When not, pad
	// with a leading zero.
	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	// Hex decode the source bytes to a temporary destination.
	var reversedHash Hash
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	// Reverse copy from the temporary hash to destination. Because the
	// temporary was zeroed, the written result will be correctly padded.
	for i, b := range reversedHash[:HashSize/2] {
		dst[i], dst[HashSize-1-i] = reversedHash[HashSize-1-i], b
	}

	return nil
}

// DoubleHashH calculates hash(hash(b)) and returns the resulting bytes as a
// Hash.
func DoubleHashH(b []byte) Hash {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return Hash(second)
}

// DoubleHashB calculates hash(hash(b)) and returns the resulting bytes.
func DoubleHashB(b []byte) []byte {
	hash := DoubleHashH(b)
	return hash[:]
}

// hashWriter accumulates everything written to it so a Serialize-style
// callback (which writes directly to an io.Writer) can be hashed without
// building an intermediate allocation strategy of its own.
type hashWriter struct {
	buf []byte
}

func (w *hashWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// DoubleHashRaw calculates the double sha256 hash of the serialized data
// written by f and returns the result as a Hash. Errors returned by f are
// silently treated as an empty write, matching the assumption throughout
// this module that header serialization to an in-memory buffer cannot
// itself fail.
func DoubleHashRaw(f func(w io.Writer) error) Hash {
	var w hashWriter
	_ = f(&w)
	return DoubleHashH(w.buf)
}

// ScryptRaw calculates the Scrypt(N=1024, r=1, p=1, dkLen=32) proof-of-work
// hash of the serialized data written by f, using the serialized bytes as
// both input and salt.
func ScryptRaw(f func(w io.Writer) error) Hash {
	var w hashWriter
	_ = f(&w)
	return ScryptHash(w.buf)
}

// ScryptHash computes the Scrypt(N=1024, r=1, p=1, dkLen=32) hash of b using
// b itself as the salt, as specified by the chain's proof-of-work function.
// If the underlying scrypt implementation rejects the parameters (it cannot,
// for these fixed, validated constants) an all-0xff hash is returned; callers
// comparing against a target will then correctly treat the header as failing
// proof-of-work rather than panicking mid-verification.
func ScryptHash(b []byte) Hash {
	digest, err := scrypt.Key(b, b, 1024, 1, 1, 32)
	if err != nil {
		var h Hash
		for i := range h {
			h[i] = 0xff
		}
		return h
	}
	var h Hash
	copy(h[:], digest)
	return h
}
