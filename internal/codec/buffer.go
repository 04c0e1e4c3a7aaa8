package codec

// Buffer is the inside-out encode buffer: an owned fixed-capacity byte
// arena that grows backward. Allocate(n) exposes n bytes immediately
// before the previously committed region, so a multi-layer packet can be
// built from the innermost layer outward without knowing the total
// length in advance. An empty buffer has no valid region at all.
type Buffer struct {
	data []byte
	end  uint32
	max  uint32

	// Off is the committed offset some codecs use for in-place patching
	// of bytes they emitted earlier in the same encode pass.
	Off uint32
}

// NewBuffer returns an empty Buffer with the given capacity.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{
		data: make([]byte, size),
		max:  size,
	}
}

// Size reports the number of committed bytes.
func (b *Buffer) Size() uint32 { return b.end }

// Allocate makes room for n bytes before the committed region and
// returns the newly exposed slice. It fails without changing any state
// when the capacity would be exceeded; callers must not partially write.
func (b *Buffer) Allocate(n uint32) ([]byte, bool) {
	if b.end+n > b.max {
		return nil, false
	}
	b.end += n
	start := b.max - b.end
	return b.data[start : start+n], true
}

// Data returns the committed region, outermost layer first. The slice is
// only valid until the next Allocate or Clear.
func (b *Buffer) Data() []byte {
	return b.data[b.max-b.end : b.max]
}

// Clear resets the buffer to the empty state.
func (b *Buffer) Clear() {
	b.end = 0
	b.Off = 0
}
