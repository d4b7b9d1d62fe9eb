package shm

import (
	"sync/atomic"
	"unsafe"
)

// LoadUint64Acquire loads a uint64 sitting at addr inside a mapped region.
// Go's sync/atomic operations are documented as sequentially consistent,
// a strictly stronger guarantee than the acquire ordering spec.md asks
// for on the consumer side of write_idx — there is no relaxed/acquire
// distinction in the standard library's atomic API, so this load is used
// for both the producer's relaxed re-read and the consumer's acquire
// read; the extra ordering it provides is never incorrect, only unused.
func LoadUint64Acquire(addr unsafe.Pointer) uint64 {
	return atomic.LoadUint64((*uint64)(addr))
}

// StoreUint64Release stores val to addr with release ordering (see
// LoadUint64Acquire for the relaxed/acquire caveat).
func StoreUint64Release(addr unsafe.Pointer, val uint64) {
	atomic.StoreUint64((*uint64)(addr), val)
}
