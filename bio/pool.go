package bio

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Sessions own no shared state (spec §5), but the scratch windows an Input
// reads chunks into are deliberately pooled process-wide so unrelated
// goroutines decoding independent documents concurrently don't each pay
// for a fresh allocation per chunk. Grounded on oy3o-codec's bufpool.go (a
// sync.Pool keyed by a single fixed chunk size); generalized here to a
// sync.Pool *per window size*, with the size->pool index itself kept in an
// xsync.Map so concurrent first-use of a new window size never races (the
// same pattern oy3o-codec's fixed.go uses for its reflection-size cache).

const defaultChunkSize = 32 * 1024

type pooledChunk struct {
	buf  []byte
	size int
}

var chunkPools = xsync.NewMap[int, *sync.Pool]()

func poolFor(size int) *sync.Pool {
	pool, _ := chunkPools.LoadOrStore(size, &sync.Pool{
		New: func() any { return &pooledChunk{buf: make([]byte, size), size: size} },
	})
	return pool
}

func acquireChunk() *pooledChunk {
	return acquireChunkSize(defaultChunkSize)
}

func acquireChunkSize(size int) *pooledChunk {
	return poolFor(size).Get().(*pooledChunk)
}

func releaseChunk(c *pooledChunk) {
	if c == nil {
		return
	}
	poolFor(c.size).Put(c)
}
