// Package test holds a suite every [transport.Conn] implementation is run against.
package test

import (
	"httpc/transport"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

// ConnTestSuite expects C1 and C2 to be the two ends of one connection
// after SetupTest of the embedding suite.
type ConnTestSuite struct {
	suite.Suite
	C1, C2 transport.Conn
	Clock  clock.Clock
}

func (s *ConnTestSuite) SetupTest() {
	s.Clock = clock.New() // Use real-time timer for now.
}

func (s *ConnTestSuite) TearDownTest() {
	defer goleak.VerifyNone(s.T())
	closeQuietly := func(c transport.Conn) {
		if err := c.Close(); err != nil {
			s.ErrorIs(err, transport.ErrConnClosed)
		}
	}
	closeQuietly(s.C1)
	closeQuietly(s.C2)
}

// within fails the test if fn doesn't return in a second.
func (s *ConnTestSuite) within(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-s.Clock.After(time.Second):
		s.FailNow("timeout exceeded")
	}
}

func (s *ConnTestSuite) TestReadWrite() {
	data := []byte("Hello, World!")

	var wg sync.WaitGroup
	defer wg.Wait()
	wg.Add(1)

	go func() {
		defer wg.Done()
		n, err := s.C1.Write(data)
		s.NoError(err)
		s.Equal(len(data), n)
	}()

	s.within(func() {
		buf := make([]byte, 10)

		n, err := io.ReadFull(s.C2, buf)
		s.Require().NoError(err)
		s.Equal(len(buf), n)
		s.Equal(data[:n], buf)

		n, err = io.ReadFull(s.C2, buf[:len(data)-len(buf)])
		s.Require().NoError(err)
		s.Equal(data[len(buf):], buf[:n])
	})
}

func (s *ConnTestSuite) TestHalfClose() {
	request, response := []byte("request"), []byte("response")

	var wg sync.WaitGroup
	defer wg.Wait()
	wg.Add(1)

	go func() {
		defer wg.Done()
		got, err := io.ReadAll(s.C2)
		s.NoError(err)
		s.Equal(request, got)

		// The read direction of C2 is done, but it can still write.
		_, err = s.C2.Write(response)
		s.NoError(err)
		s.NoError(s.C2.Close())
	}()

	s.within(func() {
		_, err := s.C1.Write(request)
		s.Require().NoError(err)
		s.Require().NoError(s.C1.CloseWrite())

		got, err := io.ReadAll(s.C1)
		s.NoError(err)
		s.Equal(response, got)
	})
}

func (s *ConnTestSuite) TestWriteAfterCloseWrite() {
	s.Require().NoError(s.C1.CloseWrite())

	n, err := s.C1.Write([]byte("late"))
	s.ErrorIs(err, transport.ErrConnClosed)
	s.Zero(n)
}

func (s *ConnTestSuite) TestClose() {
	s.Require().NoError(s.C1.Close())

	buf := make([]byte, 10)

	n, err := s.C1.Read(buf)
	s.ErrorIs(err, transport.ErrConnClosed)
	s.Zero(n)

	n, err = s.C1.Write(buf)
	s.ErrorIs(err, transport.ErrConnClosed)
	s.Zero(n)

	s.within(func() {
		// The peer sees end of stream.
		n, err := s.C2.Read(buf)
		s.ErrorIs(err, io.EOF)
		s.Zero(n)
	})
}

func (s *ConnTestSuite) TestCloseTwice() {
	s.Require().NoError(s.C1.Close())
	s.ErrorIs(s.C1.Close(), transport.ErrConnClosed)
	s.ErrorIs(s.C1.CloseWrite(), transport.ErrConnClosed)
}
