// Package tcp implements [transport.Conn] over the operating system's TCP stack.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9293
package tcp

import (
	"context"
	"httpc/application/util/domain"
	"httpc/transport"
	"net"
	"net/netip"
	"sync/atomic"

	"github.com/pkg/errors"
)

type DialOptions struct {
	// NoDelay disables Nagle's algorithm on dialed connections.
	// The whole request is written at once, so there is nothing to coalesce.
	NoDelay bool
}

var DefaultDialOptions = DialOptions{
	NoDelay: true,
}

var ErrNoAddress = errors.New("no address to dial")

type Dialer struct {
	lookuper domain.Lookuper
	opts     DialOptions
	dialer   net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func NewDialer(lookuper domain.Lookuper, opts DialOptions) *Dialer {
	return &Dialer{lookuper: lookuper, opts: opts}
}

// Dial connects to host:port. Host is either an IP address or a name
// resolved through the lookuper; resolved addresses are tried in order.
func (d *Dialer) Dial(ctx context.Context, host string, port uint16) (transport.Conn, error) {
	addrs, err := d.lookup(ctx, host)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", host)
	}

	if len(addrs) == 0 {
		return nil, errors.Wrapf(ErrNoAddress, "resolving %q", host)
	}

	var lastErr error
	for _, addr := range addrs {
		addrPort := netip.AddrPortFrom(addr, port)

		c, err := d.dialer.DialContext(ctx, "tcp", addrPort.String())
		if err != nil {
			lastErr = errors.Wrapf(err, "dialing %s", addrPort)
			continue
		}

		tc := c.(*net.TCPConn)
		if err := tc.SetNoDelay(d.opts.NoDelay); err != nil {
			tc.Close()
			return nil, errors.Wrap(err, "setting TCP_NODELAY")
		}

		return NewConn(tc), nil
	}

	return nil, lastErr
}

func (d *Dialer) lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{addr}, nil
	}

	return d.lookuper.LookupIP(ctx, host)
}

type conn struct {
	tc *net.TCPConn

	writeClosed atomic.Bool
	closed      atomic.Bool
}

var _ transport.Conn = (*conn)(nil)

// NewConn wraps an established TCP connection.
func NewConn(tc *net.TCPConn) transport.Conn {
	return &conn{tc: tc}
}

func (c *conn) Read(p []byte) (n int, err error) {
	if c.closed.Load() {
		return 0, transport.ErrConnClosed
	}

	n, err = c.tc.Read(p)
	return n, convertErr(err)
}

func (c *conn) Write(p []byte) (n int, err error) {
	if c.closed.Load() || c.writeClosed.Load() {
		return 0, transport.ErrConnClosed
	}

	n, err = c.tc.Write(p)
	return n, convertErr(err)
}

func (c *conn) CloseWrite() error {
	if c.closed.Load() {
		return transport.ErrConnClosed
	}

	if err := c.tc.CloseWrite(); err != nil {
		return convertErr(err)
	}
	c.writeClosed.Store(true)

	return nil
}

func (c *conn) Close() error {
	if c.closed.Swap(true) {
		return transport.ErrConnClosed
	}

	return convertErr(c.tc.Close())
}

func convertErr(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return transport.ErrConnClosed
	}
	return err
}
