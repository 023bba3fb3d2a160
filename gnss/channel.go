package gnss

import (
	"io"
	"sync"
)

const defaultBufferSize = 4096

// Channel models the single simulated serial line between the encoder and
// whatever consumer currently has the device open. At most one reader is
// attached at a time; delivery is best effort and never blocks the sender.
type Channel struct {
	mu   sync.Mutex
	port *Port
}

// NewChannel creates an output channel with no reader attached.
func NewChannel() *Channel {
	return &Channel{}
}

// Attach claims the line and returns its read side. It fails with
// ErrReaderAttached while another reader holds the line.
func (c *Channel) Attach(bufSize int) (*Port, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port != nil {
		return nil, ErrReaderAttached
	}
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	p := &Port{
		ch:       c,
		capacity: bufSize,
	}
	p.cond = sync.NewCond(&p.mu)
	c.port = p
	return p, nil
}

// Deliver hands bytes to the attached reader. It reports false, without
// blocking or queuing, when no reader is attached or the receive buffer
// cannot hold the whole payload.
func (c *Channel) Deliver(b []byte) bool {
	c.mu.Lock()
	p := c.port
	c.mu.Unlock()

	if p == nil {
		return false
	}
	return p.push(b)
}

// detach releases the line if p still holds it.
func (c *Channel) detach(p *Port) {
	c.mu.Lock()
	if c.port == p {
		c.port = nil
	}
	c.mu.Unlock()
}

// Port is the consumer end of the simulated line. Read blocks until bytes
// arrive, the way a consumer blocks on a real serial device.
type Port struct {
	ch       *Channel
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte
	capacity int
	closed   bool
}

// push appends the payload to the receive buffer if it fits whole.
func (p *Port) push(b []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.capacity-len(p.buf) < len(b) {
		return false
	}
	p.buf = append(p.buf, b...)
	p.cond.Broadcast()
	return true
}

// Read blocks until data is available or the port is closed, then drains
// up to len(dst) bytes. A closed, empty port reads as io.EOF.
func (p *Port) Read(dst []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.buf) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	return n, nil
}

// Close releases the line. Blocked and subsequent reads drain buffered data
// and then return io.EOF; the channel accepts a new reader immediately.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.ch.detach(p)
	return nil
}
