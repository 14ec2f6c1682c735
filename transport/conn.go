package transport

import (
	"context"
	"errors"
)

var (
	ErrConnClosed        = errors.New("connection is closed")
	ErrConnListnerClosed = errors.New("conn listener is closed")
)

// Conn is a bidirectional byte stream owned by a single transaction.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)

	// CloseWrite shuts down the write direction only.
	// The peer sees end of stream while this side can still read.
	CloseWrite() error
	Close() error
}

type ConnDialer interface {
	Dial(ctx context.Context, host string, port uint16) (Conn, error)
}

// DialFunc adapts an ordinary function to [ConnDialer].
type DialFunc func(ctx context.Context, host string, port uint16) (Conn, error)

func (f DialFunc) Dial(ctx context.Context, host string, port uint16) (Conn, error) {
	return f(ctx, host, port)
}
