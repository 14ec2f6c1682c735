package domain

import (
	"context"
	"maps"
	"net"
	"net/netip"

	"github.com/pkg/errors"
)

var ErrDomainNotFound = errors.New("domain not found")

type Lookuper interface {
	LookupIP(ctx context.Context, domain string) (addrs []netip.Addr, err error)
}

// resolverLookuper asks the operating system (or the pure Go resolver) for addresses.
type resolverLookuper struct {
	resolver *net.Resolver
}

var _ Lookuper = (*resolverLookuper)(nil)

// NewResolverLookuper returns a Lookuper backed by r.
// When r is nil, [net.DefaultResolver] is used.
func NewResolverLookuper(r *net.Resolver) *resolverLookuper {
	if r == nil {
		r = net.DefaultResolver
	}
	return &resolverLookuper{resolver: r}
}

func (l *resolverLookuper) LookupIP(ctx context.Context, domain string) ([]netip.Addr, error) {
	addrs, err := l.resolver.LookupNetIP(ctx, "ip", domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, errors.Wrapf(ErrDomainNotFound, "%s", domain)
		}
		return nil, errors.Wrapf(err, "looking up %s", domain)
	}
	if len(addrs) == 0 {
		return nil, errors.Wrapf(ErrDomainNotFound, "%s", domain)
	}

	// IPv4-mapped addresses dial better as plain IPv4.
	for i, addr := range addrs {
		addrs[i] = addr.Unmap()
	}

	return addrs, nil
}

type mapLookuper struct {
	set map[string][]netip.Addr
}

var _ Lookuper = (*mapLookuper)(nil)

func NewMapLookuper(set map[string][]netip.Addr) *mapLookuper {
	if set == nil {
		set = make(map[string][]netip.Addr)
	}
	return &mapLookuper{set: maps.Clone(set)}
}

func (m *mapLookuper) LookupIP(ctx context.Context, domain string) (addrs []netip.Addr, err error) {
	addrs, ok := m.set[domain]
	if !ok {
		return nil, ErrDomainNotFound
	}
	return addrs, nil
}
