// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scryptspv/headerchain/chaincfg"
	"github.com/scryptspv/headerchain/chaincfg/chainhash"
	"github.com/scryptspv/headerchain/headerstore"
	"github.com/scryptspv/headerchain/wire"
)

func genesisForTest() (*wire.BlockHeader, chainhash.Hash) {
	h := &wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(1_700_000_000, 0),
		Bits:      0x1e0ffff0,
	}
	return h, h.BlockHash()
}

// TestBootstrap_RemovesForkAtOrBelowCheckpointHorizon covers the bootstrap
// rule that a fork file claiming a forkpoint within the checkpoint-trusted
// region is deleted unread: consensus below that horizon is never disputed,
// so a fork there can only be stale leftover data.
func TestBootstrap_RemovesForkAtOrBelowCheckpointHorizon(t *testing.T) {
	dir := t.TempDir()
	params := &chaincfg.Params{
		Name:        "test",
		Checkpoints: []chaincfg.Checkpoint{{Bits: 0x1e0ffff0, Target: MaxTarget}},
	}
	require.Equal(t, int32(2015), params.MaxCheckpoint())

	forkpoint := int32(100)
	prevHash := chainhash.Hash{0x01}
	forkpointHash := chainhash.Hash{0x02}
	path := forkPath(dir, forkpoint, prevHash, forkpointHash)

	store, err := headerstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reg, err := Bootstrap(dir, params, VerifyOptions{})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "fork file at/below the checkpoint horizon must be deleted")

	for _, c := range reg.Chains() {
		require.NotEqual(t, forkpointHash, c.ForkpointHash())
	}
}

// TestBootstrap_RemovesForkWithNoMatchingParent covers a fork file whose
// claimed prevHash doesn't match any registered chain at forkpoint-1: it
// can never be extended or swapped in, so bootstrap discards it too.
func TestBootstrap_RemovesForkWithNoMatchingParent(t *testing.T) {
	dir := t.TempDir()
	genesis, genesisHash := genesisForTest()
	params := &chaincfg.Params{Name: "test", TestNet: true, GenesisHash: genesisHash}

	forkpoint := int32(5)
	prevHash := chainhash.Hash{0xaa} // matches nothing: root is empty
	forkpointHash := chainhash.Hash{0xbb}
	path := forkPath(dir, forkpoint, prevHash, forkpointHash)
	store, err := headerstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reg, err := Bootstrap(dir, params, VerifyOptions{})
	require.NoError(t, err)
	require.NoError(t, reg.Root().SaveHeader(genesis, 0))

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
	for _, c := range reg.Chains() {
		require.NotEqual(t, forkpointHash, c.ForkpointHash())
	}
}

// TestBootstrap_DiscardsForkFileContentMismatch covers a fork file whose
// actual first header hashes to something other than what its filename
// claims: the name is untrusted metadata, so bootstrap verifies it against
// the file's real content before registering the chain.
func TestBootstrap_DiscardsForkFileContentMismatch(t *testing.T) {
	dir := t.TempDir()
	genesis, genesisHash := genesisForTest()
	params := &chaincfg.Params{Name: "test", TestNet: true, GenesisHash: genesisHash}

	reg1, err := Bootstrap(dir, params, VerifyOptions{})
	require.NoError(t, err)
	root := reg1.Root()
	require.NoError(t, root.SaveHeader(genesis, 0))

	chain := buildHeaderChain(genesisHash, 1, 1, 1)
	require.NoError(t, root.SaveHeader(chain[0], 1))
	height1Hash := chain[0].BlockHash()

	altHeader2 := &wire.BlockHeader{
		Version:   1,
		PrevBlock: height1Hash,
		Timestamp: time.Unix(1_700_000_500, 0),
		Bits:      0x1e0ffff0,
		Nonce:     7,
	}
	claimedWrongHash := chainhash.Hash{0xcd}
	require.NotEqual(t, altHeader2.BlockHash(), claimedWrongHash)

	path := forkPath(dir, 2, height1Hash, claimedWrongHash)
	store, err := headerstore.Open(path)
	require.NoError(t, err)
	data, err := serializeHeader(altHeader2)
	require.NoError(t, err)
	require.NoError(t, store.Write(data, 0, true))
	require.NoError(t, store.Close())

	reg2, err := Bootstrap(dir, params, VerifyOptions{})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "a fork file whose content disagrees with its name must be discarded")
	for _, c := range reg2.Chains() {
		require.NotEqual(t, claimedWrongHash, c.ForkpointHash())
	}
}

// TestBootstrap_LoadsValidForkFile covers the happy path: a fork file whose
// name and content agree, and which connects to the loaded root, survives
// bootstrap and is registered under its forkpoint hash.
func TestBootstrap_LoadsValidForkFile(t *testing.T) {
	dir := t.TempDir()
	genesis, genesisHash := genesisForTest()
	params := &chaincfg.Params{Name: "test", TestNet: true, GenesisHash: genesisHash}

	reg1, err := Bootstrap(dir, params, VerifyOptions{})
	require.NoError(t, err)
	root := reg1.Root()
	require.NoError(t, root.SaveHeader(genesis, 0))
	chain := buildHeaderChain(genesisHash, 1, 1, 1)
	require.NoError(t, root.SaveHeader(chain[0], 1))
	height1Hash := chain[0].BlockHash()

	altHeader2 := &wire.BlockHeader{
		Version:   1,
		PrevBlock: height1Hash,
		Timestamp: time.Unix(1_700_000_500, 0),
		Bits:      0x1e0ffff0,
		Nonce:     7,
	}
	forkpointHash := altHeader2.BlockHash()

	path := forkPath(dir, 2, height1Hash, forkpointHash)
	store, err := headerstore.Open(path)
	require.NoError(t, err)
	data, err := serializeHeader(altHeader2)
	require.NoError(t, err)
	require.NoError(t, store.Write(data, 0, true))
	require.NoError(t, store.Close())

	reg2, err := Bootstrap(dir, params, VerifyOptions{})
	require.NoError(t, err)

	found := false
	for _, c := range reg2.Chains() {
		if c.ForkpointHash() == forkpointHash {
			found = true
			require.Equal(t, int32(2), c.Forkpoint())
			require.Equal(t, int32(2), c.Height())
		}
	}
	require.True(t, found, "a valid fork file must be registered on bootstrap")
}
