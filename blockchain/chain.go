// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"sync"

	"github.com/scryptspv/headerchain/chaincfg"
	"github.com/scryptspv/headerchain/chaincfg/chainhash"
	"github.com/scryptspv/headerchain/headerstore"
	"github.com/scryptspv/headerchain/wire"
)

const chunkSize = 2016

// recentCheckpointWindow is the number of blocks at the tip that Checkpoints
// holds back from, so a checkpoint is never emitted for a height still
// within reorg range.
const recentCheckpointWindow = 36000

// Chain is one branch of the header tree: a contiguous, gap-free run of
// headers starting at forkpoint and backed by its own flat file. A Chain
// with a nil parent is the root, covering heights [0, height]; any other
// Chain covers [forkpoint, height] and defers to its parent for anything
// below forkpoint.
//
// Two separate locks guard a Chain. mu is cheap and guards only the five
// fields a swap rewrites (forkpoint, parent, forkpointHash, prevHash, and
// the store pointer); it is held for single accessor calls only, never
// across a read or write of the backing file, so it can never deadlock
// against itself. opMu is coarser: SaveHeader, SaveChunk, and a swap
// attempt each hold it for their full duration, in the parent-then-self
// order the swap protocol requires. Reads (ReadHeader, GetHash, and
// everything built on them) take neither lock beyond the brief mu
// snapshot, relying on headerstore.Store's own internal locking for file
// safety; during a swap's critical section, these reads may transiently
// observe either the old or the new chain identity but never a torn file.
type Chain struct {
	params   *chaincfg.Params
	opts     VerifyOptions
	registry *Registry

	mu            sync.Mutex
	store         *headerstore.Store
	forkpoint     int32
	parent        *Chain
	forkpointHash chainhash.Hash
	prevHash      chainhash.Hash

	opMu sync.Mutex
}

// newRootChain opens (or creates) the root chain's flat file at
// dir/blockchain_headers.
func newRootChain(params *chaincfg.Params, registry *Registry, opts VerifyOptions, dir string) (*Chain, error) {
	store, err := headerstore.Open(rootPath(dir))
	if err != nil {
		return nil, IoError("open root chain", err)
	}
	return &Chain{
		params:        params,
		opts:          opts,
		registry:      registry,
		store:         store,
		forkpoint:     0,
		parent:        nil,
		forkpointHash: params.GenesisHash,
		prevHash:      chainhash.Hash{},
	}, nil
}

// newForkChain opens (or creates) a fork chain's flat file at the path its
// (forkpoint, prevHash, forkpointHash) identity implies.
func newForkChain(params *chaincfg.Params, registry *Registry, opts VerifyOptions, dir string, parent *Chain, forkpoint int32, forkpointHash, prevHash chainhash.Hash) (*Chain, error) {
	store, err := headerstore.Open(forkPath(dir, forkpoint, prevHash, forkpointHash))
	if err != nil {
		return nil, IoError("open fork chain", err)
	}
	return &Chain{
		params:        params,
		opts:          opts,
		registry:      registry,
		store:         store,
		forkpoint:     forkpoint,
		parent:        parent,
		forkpointHash: forkpointHash,
		prevHash:      prevHash,
	}, nil
}

func rootPath(dir string) string {
	return filepath.Join(dir, "blockchain_headers")
}

func forkPath(dir string, forkpoint int32, prevHash, forkpointHash chainhash.Hash) string {
	name := fmt.Sprintf("fork2_%d_%s_%s", forkpoint, stripLeadingZeros(prevHash.String()), stripLeadingZeros(forkpointHash.String()))
	return filepath.Join(dir, "forks", name)
}

// stripLeadingZeros removes leading '0' characters from a hex string,
// keeping at least one character, matching the source's use of a
// compressed hash in fork filenames.
func stripLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

// padHash restores a stripped hex hash to chainhash.MaxHashStringSize by
// left-padding with zeros, then parses it.
func padHash(s string) (chainhash.Hash, error) {
	for len(s) < chainhash.MaxHashStringSize {
		s = "0" + s
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return *h, nil
}

// Forkpoint returns the height of this chain's first header.
func (c *Chain) Forkpoint() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forkpoint
}

// Parent returns this chain's parent, or nil if it is the root.
func (c *Chain) Parent() *Chain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

// ForkpointHash returns the hash of this chain's first header. This also
// doubles as the chain's identity (ID) in the registry, since it changes
// whenever a swap gives the chain a new forkpoint.
func (c *Chain) ForkpointHash() chainhash.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forkpointHash
}

// ID returns the registry key identifying this chain.
func (c *Chain) ID() chainhash.Hash {
	return c.ForkpointHash()
}

// PrevHash returns the hash that must precede this chain's first header.
func (c *Chain) PrevHash() chainhash.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prevHash
}

func (c *Chain) storeRef() *headerstore.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store
}

// Path returns the backing file path for this chain's current identity.
func (c *Chain) Path() string {
	return c.storeRef().Path()
}

// Size returns the number of headers stored in this chain's own file
// (not counting anything behind its forkpoint).
func (c *Chain) Size() int32 {
	return c.storeRef().Size()
}

// Height returns the height of this chain's tip header, or forkpoint-1 if
// the chain is empty.
func (c *Chain) Height() int32 {
	return c.Forkpoint() + c.Size() - 1
}

// ReadHeader returns the header at height, or nil if there is none (height
// negative, or beyond the tip of the whole tree rooted here). It delegates
// to the parent chain when height lies below this chain's forkpoint.
func (c *Chain) ReadHeader(height int32) (*wire.BlockHeader, error) {
	if height < 0 {
		return nil, nil
	}
	forkpoint := c.Forkpoint()
	if height < forkpoint {
		parent := c.Parent()
		if parent == nil {
			return nil, nil
		}
		return parent.ReadHeader(height)
	}
	if height > c.Height() {
		return nil, nil
	}

	store := c.storeRef()
	raw, err := store.ReadAt(height - forkpoint)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, IoError("read_header", err)
	}
	if isAllZero(raw) {
		return nil, nil
	}
	h, _, err := DeserializeHeaderAt(c.params, raw, height, false)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// HeaderAt implements retarget.HeaderReader, turning a missing header into
// an explicit error instead of a nil return, since the retarget engine has
// no other way to signal "the chain behind me is incomplete."
func (c *Chain) HeaderAt(height int32) (*wire.BlockHeader, error) {
	h, err := c.ReadHeader(height)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, MissingHeaderError(height)
	}
	return h, nil
}

// HeaderAtTip returns the header at this chain's current height.
func (c *Chain) HeaderAtTip() (*wire.BlockHeader, error) {
	return c.ReadHeader(c.Height())
}

func (c *Chain) checkpointHashForHeight(height int32) (chainhash.Hash, bool) {
	if height > c.params.MaxCheckpoint() {
		return chainhash.Hash{}, false
	}
	if (height+1)%chunkSize != 0 {
		return chainhash.Hash{}, false
	}
	cp, ok := c.params.CheckpointForChunk(height / chunkSize)
	if !ok {
		return chainhash.Hash{}, false
	}
	return cp.Hash, true
}

// GetHash returns the hash of the header at height: the zero hash for -1,
// the genesis hash for 0, a table lookup at a checkpointed chunk boundary,
// and an on-disk read otherwise.
func (c *Chain) GetHash(height int32) (chainhash.Hash, error) {
	if height == -1 {
		return chainhash.Hash{}, nil
	}
	if height == 0 {
		return c.params.GenesisHash, nil
	}
	if hash, ok := c.checkpointHashForHeight(height); ok {
		return hash, nil
	}
	h, err := c.ReadHeader(height)
	if err != nil {
		return chainhash.Hash{}, err
	}
	if h == nil {
		return chainhash.Hash{}, MissingHeaderError(height)
	}
	return h.BlockHash(), nil
}

// GetTimestamp returns the timestamp of the header at height, preferring
// the checkpoint table at a chunk boundary still within it.
func (c *Chain) GetTimestamp(height int32) (int64, error) {
	maxCpHeight := int32(len(c.params.Checkpoints)) * chunkSize
	if height < maxCpHeight && (height+1)%chunkSize == 0 {
		if cp, ok := c.params.CheckpointForChunk(height / chunkSize); ok {
			return cp.Timestamp, nil
		}
	}
	h, err := c.ReadHeader(height)
	if err != nil {
		return 0, err
	}
	if h == nil {
		return 0, MissingHeaderError(height)
	}
	return h.Timestamp.Unix(), nil
}

// CheckHash reports whether the header at height hashes to hash.
func (c *Chain) CheckHash(height int32, hash chainhash.Hash) bool {
	got, err := c.GetHash(height)
	if err != nil {
		return false
	}
	return got == hash
}

// CheckHeader reports whether h is the header this chain has at height.
func (c *Chain) CheckHeader(h *wire.BlockHeader, height int32) bool {
	return c.CheckHash(height, h.BlockHash())
}

// GetTarget computes the (bits, target) pair a header at height must
// satisfy, threading overrides through to the retarget engine for
// candidate headers not yet on disk.
func (c *Chain) GetTarget(height int32, overrides map[int32]*wire.BlockHeader) (uint32, *big.Int, error) {
	return Retarget(c.params, height, c, overrides)
}

// chainworkOfChunk returns the per-block work for the chunk ending at
// height, computed from GetTarget(height/2016 - 1): the preceding chunk's
// INDEX is passed where GetTarget expects a height — a quirk carried over
// intact from the source's chainwork accounting, which reuses
// get_target(chunk_index) with a chunk index standing in for a height
// parameter rather than computing a fresh target for the chunk itself.
func (c *Chain) chainworkOfChunk(height int32) (*big.Int, error) {
	chunkIndex := height/chunkSize - 1
	_, target, err := c.GetTarget(chunkIndex, nil)
	if err != nil {
		return nil, err
	}
	return WorkOfTarget(target), nil
}

// GetChainwork returns the cumulative proof-of-work of the chain up to and
// including height. A negative height means "the current tip." Testnet
// chains report height itself as their chainwork, since testnet disables
// difficulty entirely and a count of blocks is the only meaningful measure
// left.
func (c *Chain) GetChainwork(height int32) (*big.Int, error) {
	if height < 0 {
		height = c.Height()
	}
	if height < 0 {
		height = 0
	}
	if c.params.TestNet {
		return big.NewInt(int64(height)), nil
	}

	cache := c.registry.chainwork
	lastRetarget := height/chunkSize*chunkSize - 1

	cachedHeight := lastRetarget
	var running *big.Int
	for {
		hash, err := c.GetHash(cachedHeight)
		if err == nil {
			if w, ok := cache.get(hash); ok {
				running = new(big.Int).Set(w)
				break
			}
		}
		if cachedHeight <= -1 {
			break
		}
		cachedHeight -= chunkSize
	}
	if running == nil {
		return nil, AssertError(fmt.Sprintf("chainwork cache seed missing below height %d", height))
	}

	for cachedHeight < lastRetarget {
		cachedHeight += chunkSize
		work, err := c.chainworkOfChunk(cachedHeight)
		if err != nil {
			return nil, err
		}
		running.Add(running, new(big.Int).Mul(big.NewInt(chunkSize), work))
		hash, err := c.GetHash(cachedHeight)
		if err != nil {
			return nil, err
		}
		cache.put(hash, new(big.Int).Set(running))
	}

	work, err := c.chainworkOfChunk(cachedHeight + chunkSize)
	if err != nil {
		return nil, err
	}
	partial := new(big.Int).Mul(big.NewInt(int64(height%chunkSize+1)), work)
	return new(big.Int).Add(running, partial), nil
}

// CanConnect reports whether h can be appended at height: when checkHeight
// is true, height must equal this chain's height+1; the genesis case is
// checked by hash alone, everything else by hash linkage and, when the
// chain's VerifyOptions enable them, bits and proof of work against the
// target computed for height.
func (c *Chain) CanConnect(h *wire.BlockHeader, height int32, checkHeight bool) bool {
	if h == nil {
		return false
	}
	if checkHeight && c.Height() != height-1 {
		return false
	}
	if height == 0 {
		return h.BlockHash() == c.params.GenesisHash
	}
	prevHash, err := c.GetHash(height - 1)
	if err != nil {
		return false
	}
	if h.PrevBlock != prevHash {
		return false
	}
	_, target, err := c.GetTarget(height, nil)
	if err != nil {
		return false
	}
	return VerifyHeader(c.params, c.opts, h, prevHash, target, nil) == nil
}

// Fork splits a new chain off of c at height, rooted at header h, and
// registers it. h must already connect to c at height.
func (c *Chain) Fork(header *wire.BlockHeader, height int32) (*Chain, error) {
	if !c.CanConnect(header, height, false) {
		return nil, fmt.Errorf("blockchain: forking header does not connect at height %d", height)
	}
	prevHash, err := c.GetHash(height - 1)
	if err != nil {
		return nil, err
	}
	child, err := newForkChain(c.params, c.registry, c.opts, c.registry.dir, c, height, header.BlockHash(), prevHash)
	if err != nil {
		return nil, err
	}
	if err := child.SaveHeader(header, height); err != nil {
		return nil, err
	}
	c.registry.register(child)
	return child, nil
}

// SaveHeader appends h at height, which must equal forkpoint+size (i.e.
// this chain's next free slot), then checks whether the append gave this
// chain more chainwork than its parent.
func (c *Chain) SaveHeader(h *wire.BlockHeader, height int32) error {
	c.opMu.Lock()
	err := c.saveHeaderLocked(h, height)
	c.opMu.Unlock()
	if err != nil {
		return err
	}
	return c.SwapWithParent()
}

func (c *Chain) saveHeaderLocked(h *wire.BlockHeader, height int32) error {
	forkpoint := c.Forkpoint()
	delta := height - forkpoint
	if delta != c.Size() {
		return fmt.Errorf("blockchain: non-append header write: delta %d != size %d", delta, c.Size())
	}
	data, err := serializeHeader(h)
	if err != nil {
		return InvalidHeaderError("serializing header: %v", err)
	}
	if err := c.storeRef().Write(data, int64(delta)*headerstore.HeaderLen, true); err != nil {
		return IoError("save_header", err)
	}
	return nil
}

// VerifyChunk replays a 2016-header chunk's worth of serialized headers
// (each possibly followed by an AuxPoW trailer), checking hash linkage,
// expected hashes where known, and the chunk's target (computed once, as
// GetTarget(index-1), with index-1 passed where a height is expected). It
// returns the stripped 80-byte-per-header buffer ready for SaveChunk, or
// the first verification error encountered.
func (c *Chain) VerifyChunk(index int32, data []byte) ([]byte, error) {
	startHeight := index * chunkSize
	prevHash, err := c.GetHash(startHeight - 1)
	if err != nil {
		return nil, err
	}
	_, target, err := c.GetTarget(index-1, nil)
	if err != nil {
		return nil, err
	}

	stripped := make([]byte, 0, len(data))
	pos := 0
	i := int32(0)
	for pos < len(data) {
		height := startHeight + i

		var expected *chainhash.Hash
		if hash, err := c.GetHash(height); err == nil {
			expected = &hash
		}

		h, next, err := DeserializeHeaderAt(c.params, data[pos:], height, true)
		if err != nil {
			return nil, err
		}
		stripped = append(stripped, stripHeader(data[pos:])...)

		if err := VerifyHeader(c.params, c.opts, h, prevHash, target, expected); err != nil {
			return nil, err
		}

		prevHash = h.BlockHash()
		pos += next
		i++
	}
	return stripped, nil
}

// SaveChunk writes a verified, stripped chunk buffer at the position index
// implies. A chunk landing entirely within the checkpoint region is
// delegated to the registry's root chain, since only the root is allowed
// to hold checkpoint-region data; outside that region, a chunk write
// truncates everything after it, since a new chunk always supersedes
// whatever (if anything) used to occupy that range.
func (c *Chain) SaveChunk(index int32, data []byte) error {
	c.opMu.Lock()
	err := c.saveChunkLocked(index, data)
	c.opMu.Unlock()
	if err != nil {
		return err
	}
	return c.SwapWithParent()
}

func (c *Chain) saveChunkLocked(index int32, data []byte) error {
	if index < 0 {
		return fmt.Errorf("blockchain: negative chunk index %d", index)
	}

	withinCheckpointRegion := int(index) < len(c.params.Checkpoints)
	parent := c.Parent()
	if withinCheckpointRegion && parent != nil {
		root := c.registry.Root()
		return root.SaveChunk(index, data)
	}

	forkpoint := c.Forkpoint()
	delta := index*chunkSize - forkpoint
	deltaBytes := int64(delta) * headerstore.HeaderLen
	if deltaBytes < 0 {
		data = data[-deltaBytes:]
		deltaBytes = 0
	}
	if err := c.storeRef().Write(data, deltaBytes, !withinCheckpointRegion); err != nil {
		return IoError("save_chunk", err)
	}
	return nil
}

// ConnectChunk verifies and saves a chunk, logging and returning false on
// any of the four verification/IO error kinds instead of propagating them,
// matching the caller contract a header-sync loop needs: keep going on a
// bad peer's chunk rather than aborting the whole sync.
func (c *Chain) ConnectChunk(index int32, data []byte) bool {
	stripped, err := c.VerifyChunk(index, data)
	if err != nil {
		switch e := err.(type) {
		case *MissingHeaderErr:
			log.Warnf("connect_chunk %d: missing header: %v", index, e)
		case *InvalidHeaderErr:
			log.Warnf("connect_chunk %d: invalid header: %v", index, e)
		case *VerifyErr:
			log.Warnf("connect_chunk %d: verification failed: %v", index, e)
		case *IoErr:
			log.Warnf("connect_chunk %d: io error: %v", index, e)
		default:
			log.Warnf("connect_chunk %d: %v", index, e)
		}
		return false
	}
	if err := c.SaveChunk(index, stripped); err != nil {
		log.Warnf("connect_chunk %d: failed to save: %v", index, err)
		return false
	}
	return true
}

// SwapWithParent repeatedly swaps c with its parent for as long as doing
// so keeps making progress (a swap can cascade: c's new parent may itself
// now be outweighed). The iteration count is bounded by the number of
// chains registered, since a single swap retires at least one fork from
// being c's parent and the chain can't cycle.
func (c *Chain) SwapWithParent() error {
	count := 0
	for {
		progressed, err := c.attemptSwap()
		if err != nil {
			return err
		}
		if !progressed {
			return nil
		}
		count++
		if count > c.registry.Count() {
			return AssertError(fmt.Sprintf("swap_with_parent looped %d times", count))
		}
	}
}

// attemptSwap acquires the three-lock ordering the swap protocol requires
// (parent, then self, then registry) and performs at most one swap.
func (c *Chain) attemptSwap() (bool, error) {
	parent := c.Parent()
	if parent == nil {
		return false, nil
	}

	parent.opMu.Lock()
	defer parent.opMu.Unlock()
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()

	if c.Parent() != parent {
		// Parent changed out from under us since the unlocked read
		// above; let the outer loop re-evaluate against whichever
		// parent is current now.
		return true, nil
	}

	return c.swapWithParentLocked(parent)
}

// swapWithParentLocked implements the file-and-identity swap itself. The
// caller must already hold parent.opMu, c.opMu, and c.registry.mu.
func (c *Chain) swapWithParentLocked(par *Chain) (bool, error) {
	parentWork, err := par.GetChainwork(-1)
	if err != nil {
		return false, err
	}
	selfWork, err := c.GetChainwork(-1)
	if err != nil {
		return false, err
	}
	if parentWork.Cmp(selfWork) >= 0 {
		return false, nil
	}

	fChild := c.Forkpoint()
	fPar := par.Forkpoint()
	parentBranchSize := par.Height() - fChild + 1

	myData, err := c.storeRef().ReadAll()
	if err != nil {
		return false, IoError("swap read self", err)
	}
	parentData, err := par.storeRef().ReadRange(int64(fChild-fPar)*headerstore.HeaderLen, int64(parentBranchSize)*headerstore.HeaderLen)
	if err != nil {
		return false, IoError("swap read parent", err)
	}

	if err := c.storeRef().Write(parentData, 0, true); err != nil {
		return false, IoError("swap write self", err)
	}
	if err := par.storeRef().Write(myData, int64(fChild-fPar)*headerstore.HeaderLen, true); err != nil {
		return false, IoError("swap write parent", err)
	}

	newParForkpointHash := chainhash.DoubleHashRaw(func(w io.Writer) error {
		_, err := w.Write(parentData[:headerstore.HeaderLen])
		return err
	})

	oldChildID := c.ForkpointHash()
	oldParID := par.ForkpointHash()
	oldParParent := par.Parent()
	oldParForkpointHash := par.ForkpointHash()
	oldParPrevHash := par.PrevHash()
	oldChildPrevHash := c.PrevHash()

	c.mu.Lock()
	par.mu.Lock()
	c.parent = oldParParent
	par.parent = c
	c.forkpoint = fPar
	par.forkpoint = fChild
	c.forkpointHash = oldParForkpointHash
	par.forkpointHash = newParForkpointHash
	c.prevHash = oldParPrevHash
	par.prevHash = oldChildPrevHash
	c.store, par.store = par.store, c.store
	par.mu.Unlock()
	c.mu.Unlock()

	newParPath := c.registry.pathFor(par.Parent(), par.Forkpoint(), par.PrevHash(), par.ForkpointHash())
	if err := par.store.Rename(newParPath); err != nil {
		return false, IoError("swap rename", err)
	}

	delete(c.registry.chains, oldChildID)
	delete(c.registry.chains, oldParID)
	c.registry.chains[c.ForkpointHash()] = c
	c.registry.chains[par.ForkpointHash()] = par

	log.Debugf("swapped chain forkpoint=%d with parent forkpoint=%d", fChild, fPar)
	return true, nil
}

// maxChild returns the forkpoint of the highest child chain forked off of
// c, and whether c has any children at all.
func (c *Chain) maxChild() (int32, bool) {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()

	var max int32
	found := false
	for _, ch := range c.registry.chains {
		if ch == c {
			continue
		}
		if ch.Parent() == c {
			fp := ch.Forkpoint()
			if !found || fp > max {
				max = fp
				found = true
			}
		}
	}
	return max, found
}

// MaxForkpoint returns the highest forkpoint among the chains whose parent
// is c, or c's own forkpoint if no chain has c as its parent. Only direct
// children are considered; grandchildren are not searched.
func (c *Chain) MaxForkpoint() int32 {
	if mc, ok := c.maxChild(); ok {
		return mc
	}
	return c.Forkpoint()
}

// BranchSize returns the number of headers from c.MaxForkpoint() to c's
// tip.
func (c *Chain) BranchSize() int32 {
	return c.Height() - c.MaxForkpoint() + 1
}

// Name returns a short, human-readable label for this chain, derived from
// the hash at c.MaxForkpoint().
func (c *Chain) Name() (string, error) {
	hash, err := c.GetHash(c.MaxForkpoint())
	if err != nil {
		return "", err
	}
	s := stripLeadingZeros(hash.String())
	if len(s) > 10 {
		s = s[:10]
	}
	return s, nil
}

// Checkpoints returns the (hash, target, bits) triples this chain can
// vouch for, holding back the last recentCheckpointWindow blocks from the
// tip so a checkpoint is never issued for a height still within reorg
// range.
func (c *Chain) Checkpoints() ([]chaincfg.Checkpoint, error) {
	n := (c.Height() - recentCheckpointWindow) / chunkSize
	if n < 0 {
		n = 0
	}
	cps := make([]chaincfg.Checkpoint, 0, n)
	for index := int32(0); index < n; index++ {
		hash, err := c.GetHash((index+1)*chunkSize - 1)
		if err != nil {
			return nil, err
		}
		bits, target, err := c.GetTarget(index, nil)
		if err != nil {
			return nil, err
		}
		cps = append(cps, chaincfg.Checkpoint{Hash: hash, Target: target, Bits: bits})
	}
	return cps, nil
}
