package buffer

// Buffer is a fixed-capacity byte arena backing all parsing of a single
// in-flight request. The socket is read directly into the free tail, and
// completed regions (the head, then the body) are carved out as segments
// which stay valid until Clear. Capacity never changes between New calls,
// so steady-state operation performs no allocation at all.
type Buffer struct {
	memory []byte
	begin  int
}

func New(capacity int) *Buffer {
	return &Buffer{
		memory: make([]byte, 0, capacity),
	}
}

// Tail returns the free space past the in-use region. The caller reads
// into it and reports back via Advance. An empty tail means the arena
// is exhausted.
func (b *Buffer) Tail() []byte {
	return b.memory[len(b.memory):cap(b.memory)]
}

// Advance marks n bytes of the tail as used, extending the current segment.
func (b *Buffer) Advance(n int) {
	b.memory = b.memory[:len(b.memory)+n]
}

// Preview returns the current segment without completing it.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// SegmentLength returns the number of bytes in the current segment.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Spare returns the number of free bytes left in the arena.
func (b *Buffer) Spare() int {
	return cap(b.memory) - len(b.memory)
}

// Finish completes the current segment, returning its value.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Split completes only the first n bytes of the current segment and
// returns them. Whatever follows stays in the buffer and becomes the
// beginning of the next segment. This is how bytes read past the head
// boundary are reused as the body prefix instead of being read twice.
func (b *Buffer) Split(n int) []byte {
	segment := b.memory[b.begin : b.begin+n]
	b.begin += n

	return segment
}

// Clear resets the cursors, releasing all segments for overwrite. Any
// previously returned segment must not be used past this point.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
