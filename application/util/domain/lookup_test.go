package domain

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LookuperTestSuite struct {
	suite.Suite

	initial  map[string][]netip.Addr
	lookuper Lookuper
}

func (s *LookuperTestSuite) SetupTest() {
	s.initial = map[string][]netip.Addr{
		"localhost":   {netip.MustParseAddr("127.0.0.1")},
		"example.com": {netip.MustParseAddr("1.1.1.1")}, // It's actually cloudflare. But who cares?
	}
}

func (s *LookuperTestSuite) TestLookup() {
	ctx := context.Background()

	addrs, err := s.lookuper.LookupIP(ctx, "localhost")
	s.NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("127.0.0.1")}, addrs)

	addrs, err = s.lookuper.LookupIP(ctx, "example.com")
	s.NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("1.1.1.1")}, addrs)

	// Non-existent.
	addrs, err = s.lookuper.LookupIP(ctx, "non-existent.com")
	s.ErrorIs(err, ErrDomainNotFound)
	s.Empty(addrs)
}

type mapLookuperTestSuite struct{ LookuperTestSuite }

func TestMapLookuperTestSuite(t *testing.T) {
	suite.Run(t, new(mapLookuperTestSuite))
}

func (s *mapLookuperTestSuite) SetupTest() {
	s.LookuperTestSuite.SetupTest()
	s.lookuper = NewMapLookuper(s.initial)
}

func (s *mapLookuperTestSuite) TestLookupInitCopied() {
	s.initial["localhost"] = []netip.Addr{netip.MustParseAddr("10.0.0.1")}

	addrs, err := s.lookuper.LookupIP(context.Background(), "localhost")
	s.NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("127.0.0.1")}, addrs)
}

func (s *mapLookuperTestSuite) TestSourceMapIsCopied() {
	set := map[string][]netip.Addr{"copied.test": {netip.MustParseAddr("::1")}}
	m := NewMapLookuper(set)
	delete(set, "copied.test")

	addrs, err := m.LookupIP(context.Background(), "copied.test")
	s.NoError(err)
	s.Len(addrs, 1)
}

func TestResolverLookuperLocalhost(t *testing.T) {
	// "localhost" is answered from the hosts file without touching the network.
	addrs, err := NewResolverLookuper(nil).LookupIP(context.Background(), "localhost")
	if err != nil {
		t.Skipf("no resolver available: %v", err)
	}
	for _, addr := range addrs {
		if !addr.IsLoopback() {
			t.Errorf("expected loopback address, got %s", addr)
		}
	}
}
