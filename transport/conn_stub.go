package transport

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// StubConn is one end of an in-memory connection pair.
type StubConn struct {
	stream    chan []byte
	closed    chan struct{}
	writeDone chan struct{}

	closeOnce, writeOnce sync.Once
	closes               atomic.Int32
	signalClosed         func()

	buf *bytes.Buffer

	counterpart *StubConn
}

var _ Conn = (*StubConn)(nil)

// NewStubPair returns two connected ends.
func NewStubPair() (*StubConn, *StubConn) {
	return newStubPair(func() {})
}

func newStubPair(signalClosed func()) (*StubConn, *StubConn) {
	newEnd := func() *StubConn {
		return &StubConn{
			stream:       make(chan []byte),
			closed:       make(chan struct{}),
			writeDone:    make(chan struct{}),
			signalClosed: signalClosed,
			buf:          bytes.NewBuffer(nil),
		}
	}

	c1, c2 := newEnd(), newEnd()
	c1.counterpart, c2.counterpart = c2, c1
	return c1, c2
}

// CloseCount reports how many times Close was called, including failed calls.
func (s *StubConn) CloseCount() int { return int(s.closes.Load()) }

func (s *StubConn) Read(p []byte) (n int, err error) {
	if s.buf.Len() > 0 {
		// if buf is not empty, read from it.
		return s.buf.Read(p)
	}

	select {
	case <-s.closed:
		return 0, ErrConnClosed
	default:
	}

	select {
	case <-s.closed:
		return 0, ErrConnClosed
	case <-s.counterpart.writeDone:
		return 0, io.EOF
	case b := <-s.stream:
		n := copy(p, b)
		if remain := len(b) - n; remain > 0 {
			// copy didn't get all the bytes from counterpart.
			// store it for later.
			s.buf.Write(b[n:])
		}
		return n, nil
	}
}

func (s *StubConn) Write(p []byte) (n int, err error) {
	select {
	case <-s.writeDone:
		return 0, ErrConnClosed
	case <-s.counterpart.closed:
		return 0, ErrConnClosed
	default:
	}

	c := make([]byte, len(p))
	copy(c, p)

	select {
	case <-s.writeDone:
		return 0, ErrConnClosed
	case <-s.counterpart.closed:
		// counterpart is closed. return an error.
		return 0, ErrConnClosed
	case s.counterpart.stream <- c:
		return len(c), nil
	}
}

func (s *StubConn) CloseWrite() error {
	select {
	case <-s.closed:
		return ErrConnClosed
	default:
	}

	s.writeOnce.Do(func() { close(s.writeDone) })
	return nil
}

func (s *StubConn) Close() error {
	s.closes.Add(1)

	err := ErrConnClosed
	s.closeOnce.Do(func() {
		close(s.closed)
		s.writeOnce.Do(func() { close(s.writeDone) })
		s.signalClosed()
		err = nil
	})

	return err
}

// StubDialer hands out the dialing end of a fresh [StubConn] pair per Dial
// and the other end to Accept.
type StubDialer struct {
	connChan chan *StubConn
	done     chan struct{}

	m      sync.Mutex
	closed bool
	dialed []*StubConn
	wg     sync.WaitGroup
}

var _ ConnDialer = (*StubDialer)(nil)

func NewStubDialer() *StubDialer {
	return &StubDialer{connChan: make(chan *StubConn), done: make(chan struct{})}
}

func (s *StubDialer) Dial(ctx context.Context, host string, port uint16) (Conn, error) {
	s.m.Lock()
	if s.closed {
		s.m.Unlock()
		return nil, ErrConnListnerClosed
	}
	s.wg.Add(2)
	toReturn, toFeed := newStubPair(s.wg.Done)
	s.dialed = append(s.dialed, toReturn)
	s.m.Unlock()

	select {
	case <-ctx.Done():
		// Nobody will use the pair.
		toReturn.Close()
		toFeed.Close()
		return nil, ctx.Err()
	case <-s.done:
		toReturn.Close()
		toFeed.Close()
		return nil, ErrConnListnerClosed
	case s.connChan <- toFeed:
		return toReturn, nil
	}
}

func (s *StubDialer) Accept(ctx context.Context) (*StubConn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrConnListnerClosed
	case conn := <-s.connChan:
		return conn, nil
	}
}

// Dialed returns the dialing ends handed out so far, in order.
func (s *StubDialer) Dialed() []*StubConn {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]*StubConn(nil), s.dialed...)
}

// Close stops accepting dials and waits until every handed out conn is closed.
func (s *StubDialer) Close() error {
	s.m.Lock()
	if s.closed {
		s.m.Unlock()
		return ErrConnListnerClosed
	}
	s.closed = true
	close(s.done)
	s.m.Unlock()

	s.wg.Wait()
	return nil
}
