// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"sync"

	"github.com/decred/dcrd/lru"
	"github.com/scryptspv/headerchain/chaincfg/chainhash"
)

// chainworkCacheLimit bounds the number of chunk-boundary chainwork
// entries kept in memory. Entries are added only once per 2016-block
// chunk, so even a long-lived chain accumulates these slowly.
const chainworkCacheLimit = 8192

// chainworkCache memoizes cumulative chainwork keyed by block hash. It is
// seeded with the all-zero hash mapping to zero (the virtual pre-genesis
// block) and is safe for concurrent use by multiple chains, since entries
// depend only on block hash and never need to be invalidated.
type chainworkCache struct {
	mu    sync.Mutex
	cache *lru.Map[chainhash.Hash, *big.Int]
}

func newChainworkCache() *chainworkCache {
	c := &chainworkCache{
		cache: lru.NewMap[chainhash.Hash, *big.Int](chainworkCacheLimit),
	}
	c.cache.Put(chainhash.Hash{}, big.NewInt(0))
	return c
}

func (c *chainworkCache) get(hash chainhash.Hash) (*big.Int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get(hash)
}

func (c *chainworkCache) put(hash chainhash.Hash, work *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Put(hash, work)
}
