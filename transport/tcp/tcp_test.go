package tcp

import (
	"context"
	"httpc/application/util/domain"
	"httpc/transport/test"
	"io"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// listen starts a loopback listener that accepts exactly one connection.
func listen(t *testing.T) (port uint16, accepted <-chan *net.TCPConn) {
	t.Helper()

	l, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(netip.MustParseAddrPort("127.0.0.1:0")))
	require.NoError(t, err)

	ch := make(chan *net.TCPConn, 1)
	go func() {
		defer l.Close()
		c, err := l.AcceptTCP()
		if err != nil {
			close(ch)
			return
		}
		ch <- c
	}()
	t.Cleanup(func() { l.Close() })

	return uint16(l.Addr().(*net.TCPAddr).Port), ch
}

// closedPort returns a loopback port nobody listens on.
func closedPort(t *testing.T) uint16 {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())

	return port
}

type TCPConnTestSuite struct {
	test.ConnTestSuite
}

func TestTCPConnTestSuite(t *testing.T) {
	suite.Run(t, new(TCPConnTestSuite))
}

func (s *TCPConnTestSuite) SetupTest() {
	s.ConnTestSuite.SetupTest()

	port, accepted := listen(s.T())
	d := NewDialer(domain.NewMapLookuper(nil), DefaultDialOptions)

	c1, err := d.Dial(context.Background(), "127.0.0.1", port)
	s.Require().NoError(err)

	tc, ok := <-accepted
	s.Require().True(ok)

	s.C1, s.C2 = c1, NewConn(tc)
}

func TestDialByName(t *testing.T) {
	port, accepted := listen(t)
	lookuper := domain.NewMapLookuper(map[string][]netip.Addr{
		"server.test": {netip.MustParseAddr("127.0.0.1")},
	})

	c, err := NewDialer(lookuper, DefaultDialOptions).Dial(context.Background(), "server.test", port)
	require.NoError(t, err)
	defer c.Close()

	server := NewConn(<-accepted)
	defer server.Close()

	_, err = c.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, c.CloseWrite())

	got, err := io.ReadAll(server)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(got))
}

func TestDialFallsBackToNextAddress(t *testing.T) {
	port, accepted := listen(t)
	lookuper := domain.NewMapLookuper(map[string][]netip.Addr{
		// Nothing listens on 127.0.0.2 for this port.
		"server.test": {netip.MustParseAddr("127.0.0.2"), netip.MustParseAddr("127.0.0.1")},
	})

	c, err := NewDialer(lookuper, DialOptions{}).Dial(context.Background(), "server.test", port)
	require.NoError(t, err)
	defer c.Close()

	server := <-accepted
	require.NotNil(t, server)
	server.Close()
}

func TestDialErrors(t *testing.T) {
	lookuper := domain.NewMapLookuper(map[string][]netip.Addr{
		"refused.test": {netip.MustParseAddr("127.0.0.1")},
		"empty.test":   {},
	})
	d := NewDialer(lookuper, DefaultDialOptions)
	port := closedPort(t)

	testcases := []struct {
		desc    string
		host    string
		wantErr error
	}{
		{desc: "unknown host", host: "unknown.test", wantErr: domain.ErrDomainNotFound},
		{desc: "no address", host: "empty.test", wantErr: ErrNoAddress},
		{desc: "connection refused", host: "refused.test"},
		{desc: "connection refused (ip)", host: "127.0.0.1"},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			c, err := d.Dial(context.Background(), tc.host, port)
			require.Error(t, err)
			assert.Nil(t, c)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestDialCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDialer(domain.NewMapLookuper(nil), DefaultDialOptions).Dial(ctx, "127.0.0.1", closedPort(t))
	assert.ErrorIs(t, err, context.Canceled)
}
