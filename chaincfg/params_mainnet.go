// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import "github.com/scryptspv/headerchain/chaincfg/chainhash"

// mainGenesisHash is the hash of the first block of the main network, kept
// as the literal genesis this module's teacher repo ships.
//
// c3474fa0b6c00824b01ce630d03f4ba49e11ced6373164b38ed2741dcd90ba84
var mainGenesisHash = chainhash.Hash([chainhash.HashSize]byte{
	0x84, 0xba, 0x90, 0xcd, 0x1d, 0x74, 0xd2, 0x8e,
	0xb3, 0x64, 0x31, 0x37, 0xd6, 0xce, 0x11, 0x9e,
	0xa4, 0x4b, 0x3f, 0xd0, 0x30, 0xe6, 0x1c, 0xb0,
	0x24, 0x08, 0xc0, 0xb6, 0xa0, 0x4f, 0x47, 0xc3,
})

// MainNetParams defines the parameters for the main network. The checkpoint
// table is empty: a real deployment compiles in one entry per
// historical retarget chunk, but only the mechanics (chunk indexing,
// MaxCheckpoint, AuxPoW gating above it) are this module's concern.
var MainNetParams = Params{
	Name:          "mainnet",
	GenesisHash:   mainGenesisHash,
	TestNet:       false,
	Checkpoints:   nil,
	AuxPowChainID: 0x21,
}

// TestNetParams defines the parameters for a test network. Difficulty
// verification is disabled outright per the source client's treatment of
// testnet retargeting as out of scope; only proof-of-work-free header
// linkage is checked.
var TestNetParams = Params{
	Name:        "testnet",
	GenesisHash: mainGenesisHash,
	TestNet:     true,
	Checkpoints: nil,
}
