package ring

// Wire layout of the mapped region, authoritative per spec.md §6, little-
// endian host. All three header fields are 8 bytes so header alignment
// is trivially satisfied on every offset below.
const (
	offsetWriteIdx  = 0
	offsetCapacity  = 8
	offsetFrameSize = 16
	headerSize      = 24
)

// TotalBytes returns the number of bytes a ring of the given capacity and
// frame size occupies, header included.
func TotalBytes(capacity, frameBytes uint64) uint64 {
	return headerSize + capacity*frameBytes
}
