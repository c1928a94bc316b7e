package common

import (
	"bytes"
	"sync"
)

// BufferWriter a common interface between bytes.Buffer and bufio.Writer
type BufferWriter interface {
	Write(p []byte) (nn int, err error)
	WriteByte(c byte) error
	WriteRune(r rune) (n int, err error)
	WriteString(s string) (n int, err error)
}

// BufferPool is sync pool for *bytes.Buffer
type BufferPool struct {
	sync.Pool
	maxRetained int
}

// NewBufferPool creates a buffer pool. Buffers grown beyond maxRetained bytes
// are dropped instead of being returned to the pool. Zero means no limit.
func NewBufferPool(maxRetained int) *BufferPool {
	return &BufferPool{
		Pool: sync.Pool{New: func() interface{} {
			b := bytes.NewBuffer(make([]byte, 0, 256))
			return b
		}},
		maxRetained: maxRetained,
	}
}

// Get checks out a buffer which must be put back in.
func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.Pool.Get().(*bytes.Buffer)
}

// Put returns a buffer which was previously checked out. The buffer must not
// be used afterwards.
func (bp *BufferPool) Put(b *bytes.Buffer) {
	if bp.maxRetained > 0 && b.Cap() > bp.maxRetained {
		return
	}
	b.Reset()
	bp.Pool.Put(b)
}
