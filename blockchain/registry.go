// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/scryptspv/headerchain/chaincfg"
	"github.com/scryptspv/headerchain/chaincfg/chainhash"
	"github.com/scryptspv/headerchain/wire"
)

// Registry holds every chain a node has on disk, keyed by each chain's
// current ForkpointHash. Swaps rekey entries in place as chains' identities
// change; nothing else does.
type Registry struct {
	mu     sync.Mutex
	chains map[chainhash.Hash]*Chain

	params *chaincfg.Params
	opts   VerifyOptions
	dir    string

	chainwork *chainworkCache
	index     *HashIndex
}

// Bootstrap loads (or initializes) every chain under dir: the root chain
// at dir/blockchain_headers, then every fork under dir/forks, verifying
// each fork's recorded identity against its actual file contents and its
// claimed parent, and deleting anything that doesn't check out. It also
// opens (or creates) a hash index at dir/hashindex to accelerate future
// lookups; a failure to open the index is logged and otherwise ignored,
// since the index is a pure cache and the registry works without one.
func Bootstrap(dir string, params *chaincfg.Params, opts VerifyOptions) (*Registry, error) {
	reg := &Registry{
		chains:    make(map[chainhash.Hash]*Chain),
		params:    params,
		opts:      opts,
		dir:       dir,
		chainwork: newChainworkCache(),
	}

	root, err := newRootChain(params, reg, opts, dir)
	if err != nil {
		return nil, err
	}
	reg.chains[root.ForkpointHash()] = root

	if root.Height() > params.MaxCheckpoint() {
		probeHeight := params.MaxCheckpoint() + 1
		probe, err := root.ReadHeader(probeHeight)
		if err != nil {
			return nil, err
		}
		if probe == nil || !root.CanConnect(probe, probeHeight, false) {
			log.Warnf("root chain inconsistent past height %d, truncating", params.MaxCheckpoint())
			if err := root.storeRef().Remove(); err != nil {
				return nil, IoError("bootstrap truncate root", err)
			}
		}
	}

	if err := reg.loadForks(); err != nil {
		return nil, err
	}

	if idx, err := OpenHashIndex(filepath.Join(dir, "hashindex")); err != nil {
		log.Warnf("opening hash index: %v (continuing without it)", err)
	} else {
		reg.index = idx
		reg.populateIndex()
	}

	return reg, nil
}

type forkFileInfo struct {
	path          string
	forkpoint     int32
	prevHash      chainhash.Hash
	forkpointHash chainhash.Hash
}

func parseForkFilename(name string) (forkFileInfo, bool) {
	parts := strings.Split(name, "_")
	if len(parts) != 4 || parts[0] != "fork2" {
		return forkFileInfo{}, false
	}
	forkpoint, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return forkFileInfo{}, false
	}
	prevHash, err := padHash(parts[2])
	if err != nil {
		return forkFileInfo{}, false
	}
	forkpointHash, err := padHash(parts[3])
	if err != nil {
		return forkFileInfo{}, false
	}
	return forkFileInfo{
		forkpoint:     int32(forkpoint),
		prevHash:      prevHash,
		forkpointHash: forkpointHash,
	}, true
}

func (r *Registry) loadForks() error {
	forksDir := filepath.Join(r.dir, "forks")
	entries, err := os.ReadDir(forksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return IoError("reading forks directory", err)
	}

	var infos []forkFileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, ok := parseForkFilename(e.Name())
		if !ok {
			continue
		}
		info.path = filepath.Join(forksDir, e.Name())
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].forkpoint < infos[j].forkpoint })

	for _, info := range infos {
		if info.forkpoint <= r.params.MaxCheckpoint() {
			log.Warnf("removing fork file at or below checkpoint horizon: %s", info.path)
			os.Remove(info.path)
			continue
		}

		parent := r.findParentFor(info.forkpoint, info.prevHash)
		if parent == nil {
			log.Warnf("removing fork file with no matching parent: %s", info.path)
			os.Remove(info.path)
			continue
		}

		chain, err := newForkChain(r.params, r, r.opts, r.dir, parent, info.forkpoint, info.forkpointHash, info.prevHash)
		if err != nil {
			return err
		}

		first, err := chain.ReadHeader(info.forkpoint)
		if err != nil {
			return err
		}
		if first == nil || first.BlockHash() != info.forkpointHash {
			log.Warnf("fork file content doesn't match its name, discarding: %s", info.path)
			chain.storeRef().Close()
			os.Remove(info.path)
			continue
		}
		if !parent.CanConnect(first, info.forkpoint, false) {
			log.Warnf("fork file doesn't connect to its claimed parent, discarding: %s", info.path)
			chain.storeRef().Close()
			os.Remove(info.path)
			continue
		}

		r.chains[chain.ForkpointHash()] = chain
	}
	return nil
}

func (r *Registry) findParentFor(forkpoint int32, prevHash chainhash.Hash) *Chain {
	for _, c := range r.chains {
		if c.CheckHash(forkpoint-1, prevHash) {
			return c
		}
	}
	return nil
}

// populateIndex walks every currently-registered chain's full header range
// and records each header's hash in the index. Best-effort: a read failure
// partway through just stops that chain's population early, since the
// index is a pure cache and a partially-populated one is still useful.
func (r *Registry) populateIndex() {
	for _, c := range r.snapshotChains() {
		id := c.ID()
		for h := c.Forkpoint(); h <= c.Height(); h++ {
			header, err := c.ReadHeader(h)
			if err != nil || header == nil {
				break
			}
			if err := r.index.Put(header.BlockHash(), id, h); err != nil {
				break
			}
		}
	}
}

func (r *Registry) snapshotChains() []*Chain {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Chain, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, c)
	}
	return out
}

func (r *Registry) register(c *Chain) {
	r.mu.Lock()
	r.chains[c.ForkpointHash()] = c
	r.mu.Unlock()
	if r.index != nil {
		h, err := c.HeaderAtTip()
		if err == nil && h != nil {
			r.index.Put(h.BlockHash(), c.ID(), c.Height())
		}
	}
}

func (r *Registry) pathFor(parent *Chain, forkpoint int32, prevHash, forkpointHash chainhash.Hash) string {
	if parent == nil {
		return rootPath(r.dir)
	}
	return forkPath(r.dir, forkpoint, prevHash, forkpointHash)
}

// Root returns the registry's root chain.
func (r *Registry) Root() *Chain {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chains[r.params.GenesisHash]
}

// Count returns the number of chains currently registered.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chains)
}

// Chains returns every chain currently registered, in no particular order.
// Callers that need a stable view across a loop (e.g. a CLI walking the
// whole tree) should treat the slice as a point-in-time snapshot: a swap
// concurrent with the loop can rekey entries out from under it.
func (r *Registry) Chains() []*Chain {
	return r.snapshotChains()
}

// CheckHeader returns the chain that has h recorded at height, or nil if
// none does. The hash index is consulted first as a fast path; a miss or
// a stale hit (pointing at a chain id no longer registered, or disagreeing
// with that chain's current content) always falls through to a full scan.
func (r *Registry) CheckHeader(h *wire.BlockHeader, height int32) *Chain {
	hash := h.BlockHash()
	if r.index != nil {
		if id, idxHeight, ok := r.index.Lookup(hash); ok && idxHeight == height {
			r.mu.Lock()
			chain, exists := r.chains[id]
			r.mu.Unlock()
			if exists && chain.CheckHash(height, hash) {
				return chain
			}
		}
	}
	for _, c := range r.snapshotChains() {
		if c.CheckHash(height, hash) {
			return c
		}
	}
	return nil
}

// CanConnect returns the chain h can be appended to at height, or nil if
// none accepts it. The hash index is consulted first for the chain holding
// h's predecessor at height-1; a miss or a hit that doesn't accept h falls
// through to a full scan.
func (r *Registry) CanConnect(h *wire.BlockHeader, height int32) *Chain {
	if r.index != nil {
		if id, idxHeight, ok := r.index.Lookup(h.PrevBlock); ok && idxHeight == height-1 {
			r.mu.Lock()
			chain, exists := r.chains[id]
			r.mu.Unlock()
			if exists && chain.CanConnect(h, height, true) {
				return chain
			}
		}
	}
	for _, c := range r.snapshotChains() {
		if c.CanConnect(h, height, true) {
			return c
		}
	}
	return nil
}

// Close releases the registry's hash index, if one was opened.
func (r *Registry) Close() error {
	if r.index != nil {
		return r.index.Close()
	}
	return nil
}
