package bson

import "sync"

// Pool is an optional, per-Pool-instance reuse pool for Readers and scratch
// Documents. It exists purely as a throughput optimization for callers that
// decode many documents back to back; a caller that never constructs a Pool
// pays nothing for it, and every exported decode function in this package
// works correctly without one.
//
// Borrowing follows the sync.Pool convention: a caller borrows with a Get
// method, uses the value for the duration of one decode, and may hand it
// back with the matching Put method. A value that is never put back is
// simply not reused. Once put back, a later Get call may hand the same
// backing storage to someone else, so a scratch Document must be copied
// before it is allowed to escape to the caller.
type Pool struct {
	readers sync.Pool
	scratch sync.Pool
}

// NewPool returns a ready-to-use Pool.
func NewPool() *Pool {
	p := &Pool{}
	p.readers.New = func() interface{} { return &Reader{} }
	p.scratch.New = func() interface{} { return make(Document, DefaultCapacityOptions.MinCapacity) }
	return p
}

// GetReader returns a Reader reset onto buf, reused from the pool when
// possible.
func (p *Pool) GetReader(buf []byte) *Reader {
	if p == nil {
		return NewReader(buf)
	}
	r := p.readers.Get().(*Reader)
	r.Reset(buf)
	return r
}

// PutReader returns r to the pool for reuse. Callers must not use r again
// after calling PutReader.
func (p *Pool) PutReader(r *Reader) {
	if p == nil || r == nil {
		return
	}
	r.Reset(nil)
	p.readers.Put(r)
}

// GetScratchDocument returns an empty Document reused from the pool when
// possible. The returned map must be copied before it is allowed to outlive
// the current decode, since once it has been handed back with
// PutScratchDocument a later GetScratchDocument call may clear and reuse its
// backing storage.
func (p *Pool) GetScratchDocument() Document {
	if p == nil {
		return make(Document)
	}
	d := p.scratch.Get().(Document)
	for k := range d {
		delete(d, k)
	}
	return d
}

// PutScratchDocument returns d to the pool for reuse.
func (p *Pool) PutScratchDocument(d Document) {
	if p == nil || d == nil {
		return
	}
	p.scratch.Put(d)
}
