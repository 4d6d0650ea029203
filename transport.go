package midi

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// ByteTransport is the sole external collaborator the core needs (§6). It
// abstracts a byte-oriented serial link: bytes readable without blocking,
// a write sink, and a flush-on-overflow escape hatch.
type ByteTransport interface {
	// Available reports how many bytes are currently readable without
	// blocking. Also used to detect saturation (§4.3.2).
	Available() int

	// ReadByte returns the next readable byte. Only called when Available()
	// reported at least one byte.
	ReadByte() (byte, error)

	// WriteByte enqueues a byte for transmission. May block only on the
	// transport's own buffer.
	WriteByte(b byte) error

	// Flush discards any bytes currently queued for reading.
	Flush()

	// Capacity returns the transport's configured buffer capacity, used by
	// the Parser to detect saturation (Available() == Capacity()).
	Capacity() int
}

// ErrTransportClosed is returned by ReadByte/WriteByte once the underlying
// stream has been closed.
var ErrTransportClosed = errors.New("midi: transport closed")

// BufferedTransport is a fixed-capacity, in-memory ByteTransport. It is the
// Go-idiomatic stand-in for a UART's receive buffer: deterministic, easy to
// overflow on purpose in tests, and the backing store tests use to assert
// §4.3.2's overflow policy.
type BufferedTransport struct {
	mu       sync.Mutex
	capacity int
	in       []byte // bytes queued for the core to read
	out      []byte // bytes the core has written, for tests/examples to drain
	closed   bool
}

// NewBufferedTransport returns a BufferedTransport with the given input
// buffer capacity. A non-positive capacity defaults to
// DefaultSysExCapacity*4, comfortably larger than one SysEx frame.
func NewBufferedTransport(capacity int) *BufferedTransport {
	if capacity <= 0 {
		capacity = DefaultSysExCapacity * 4
	}
	return &BufferedTransport{capacity: capacity}
}

// Feed appends bytes to the transport's input queue, as if they had just
// arrived over the wire. Bytes beyond Capacity() are dropped, mirroring a
// UART silently losing bytes once its own hardware buffer is full.
func (t *BufferedTransport) Feed(bytes ...byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range bytes {
		if len(t.in) >= t.capacity {
			return
		}
		t.in = append(t.in, b)
	}
}

// Available implements ByteTransport.
func (t *BufferedTransport) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.in)
}

// Capacity implements ByteTransport.
func (t *BufferedTransport) Capacity() int {
	return t.capacity
}

// ReadByte implements ByteTransport.
func (t *BufferedTransport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.in) == 0 {
		return 0, io.EOF
	}

	b := t.in[0]
	t.in = t.in[1:]
	return b, nil
}

// WriteByte implements ByteTransport, appending to the outgoing buffer that
// Written/TakeWritten inspect.
func (t *BufferedTransport) WriteByte(b byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTransportClosed
	}
	t.out = append(t.out, b)
	return nil
}

// Flush implements ByteTransport, discarding queued input (§4.3.2).
func (t *BufferedTransport) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.in = t.in[:0]
}

// Written returns a copy of everything written to this transport so far.
func (t *BufferedTransport) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.out))
	copy(out, t.out)
	return out
}

// TakeWritten returns and clears everything written to this transport so
// far, handy for asserting on successive sends in a test.
func (t *BufferedTransport) TakeWritten() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.out
	t.out = nil
	return out
}

// Close marks the transport closed; further writes fail.
func (t *BufferedTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// IOTransport adapts any io.Reader/io.Writer pair (a real serial port, a
// pipe, a TCP socket carrying a MIDI-over-IP bridge) into a ByteTransport.
// Because io.Reader.Read blocks, a background goroutine drains it into a
// bounded queue so Available()/ReadByte() never block — the same problem the
// teacher's tasks.go readerTask solves for its line-oriented stream, solved
// here at byte granularity instead. This goroutine lives outside the core:
// the Engine built on top of an IOTransport remains itself single-threaded
// and non-blocking, per §5.
type IOTransport struct {
	w io.Writer

	mu       sync.Mutex
	capacity int
	in       []byte
	readErr  error
}

// NewIOTransport wraps r/w as a ByteTransport with the given input queue
// capacity (defaults as BufferedTransport does). It starts a background
// reader goroutine immediately. IOTransport has no Close method: the
// goroutine exits when reading r returns an error, including EOF (for
// example once the caller closes r).
func NewIOTransport(r io.Reader, w io.Writer, capacity int) *IOTransport {
	if capacity <= 0 {
		capacity = DefaultSysExCapacity * 4
	}

	t := &IOTransport{w: w, capacity: capacity}
	go t.drain(bufio.NewReaderSize(r, capacity))
	return t
}

func (t *IOTransport) drain(r *bufio.Reader) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			t.mu.Lock()
			t.readErr = err
			t.mu.Unlock()
			return
		}

		t.mu.Lock()
		if len(t.in) < t.capacity {
			t.in = append(t.in, b)
		}
		t.mu.Unlock()
	}
}

// Available implements ByteTransport.
func (t *IOTransport) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.in)
}

// Capacity implements ByteTransport.
func (t *IOTransport) Capacity() int {
	return t.capacity
}

// ReadByte implements ByteTransport.
func (t *IOTransport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.in) == 0 {
		if t.readErr != nil {
			return 0, t.readErr
		}
		return 0, io.EOF
	}

	b := t.in[0]
	t.in = t.in[1:]
	return b, nil
}

// WriteByte implements ByteTransport.
func (t *IOTransport) WriteByte(b byte) error {
	_, err := t.w.Write([]byte{b})
	return err
}

// Flush implements ByteTransport, discarding queued input (§4.3.2).
func (t *IOTransport) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.in = t.in[:0]
}
